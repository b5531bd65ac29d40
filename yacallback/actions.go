package yacallback

import (
	"context"
	"math/rand"
	"net/http"

	"github.com/YaCodeDev/GoYaCodeDevUtils/yaerrors"
	"github.com/YaCodeDev/GoYaTgCallback/yaentity"
	"github.com/gotd/td/tg"
)

// SendOptions configures Respond and Reply. The zero value sends a plain
// message.
type SendOptions struct {
	Silent      bool
	NoWebpage   bool
	ReplyMarkup tg.ReplyMarkupClass
	Entities    []tg.MessageEntityClass
}

// EditOptions configures Edit. The zero value edits only the text.
type EditOptions struct {
	NoWebpage   bool
	ReplyMarkup tg.ReplyMarkupClass
	Entities    []tg.MessageEntityClass
	Media       tg.InputMediaClass
}

// DeleteOptions configures Delete. Revoke is ignored for channel messages,
// which are always deleted for everyone.
type DeleteOptions struct {
	Revoke bool
}

// Respond sends a new standalone message into the chat the button was
// pressed in. The message does not reply to anything.
//
// An acknowledgment for the query is scheduled as a detached job before the
// send is issued; its outcome never affects the returned result.
//
// Example usage:
//
//	_, err := event.Respond(ctx, "Processing your order", yacallback.SendOptions{})
func (e *CallbackQuery) Respond(
	ctx context.Context,
	message string,
	opts SendOptions,
) (tg.UpdatesClass, yaerrors.Error) {
	e.scheduleAnswer()

	peer, err := e.InputChat(ctx)
	if err != nil {
		return nil, err.Wrap("failed to resolve input chat for respond")
	}

	updates, serr := e.deps.API.MessagesSendMessage(ctx, e.buildSendRequest(peer, message, opts))
	if serr != nil {
		return nil, yaerrors.FromError(
			http.StatusBadGateway,
			serr,
			"failed to send response message",
		)
	}

	return updates, nil
}

// Reply sends a new message threaded under the message the button belongs
// to, by forcing the reply-to field to this event's message id. Everything
// else behaves like Respond.
//
// Example usage:
//
//	_, err := event.Reply(ctx, "ok", yacallback.SendOptions{})
func (e *CallbackQuery) Reply(
	ctx context.Context,
	message string,
	opts SendOptions,
) (tg.UpdatesClass, yaerrors.Error) {
	e.scheduleAnswer()

	peer, err := e.InputChat(ctx)
	if err != nil {
		return nil, err.Wrap("failed to resolve input chat for reply")
	}

	request := e.buildSendRequest(peer, message, opts)
	request.SetReplyTo(&tg.InputReplyToMessage{ReplyToMsgID: e.query.MsgID})

	updates, serr := e.deps.API.MessagesSendMessage(ctx, request)
	if serr != nil {
		return nil, yaerrors.FromError(
			http.StatusBadGateway,
			serr,
			"failed to send reply message",
		)
	}

	return updates, nil
}

// Edit edits the message the button belongs to and returns the edited
// message. The edit succeeds only for messages the bot is allowed to edit;
// Telegram enforces that, not this event.
//
// Example usage:
//
//	msg, err := event.Edit(ctx, "Sold out", yacallback.EditOptions{})
func (e *CallbackQuery) Edit(
	ctx context.Context,
	message string,
	opts EditOptions,
) (*tg.Message, yaerrors.Error) {
	e.scheduleAnswer()

	peer, err := e.InputChat(ctx)
	if err != nil {
		return nil, err.Wrap("failed to resolve input chat for edit")
	}

	request := &tg.MessagesEditMessageRequest{
		Peer:      peer,
		ID:        e.query.MsgID,
		NoWebpage: opts.NoWebpage,
	}

	request.SetMessage(message)

	if opts.ReplyMarkup != nil {
		request.SetReplyMarkup(opts.ReplyMarkup)
	}

	if opts.Entities != nil {
		request.SetEntities(opts.Entities)
	}

	if opts.Media != nil {
		request.SetMedia(opts.Media)
	}

	updates, serr := e.deps.API.MessagesEditMessage(ctx, request)
	if serr != nil {
		return nil, yaerrors.FromError(
			http.StatusBadGateway,
			serr,
			"failed to edit callback message",
		)
	}

	return messageFromUpdates(updates, e.query.MsgID), nil
}

// Delete deletes exactly the single message the button belongs to.
//
// Callers needing to delete more than one message must use the client
// directly; this event never issues batch deletions.
//
// Example usage:
//
//	_, err := event.Delete(ctx, yacallback.DeleteOptions{Revoke: true})
func (e *CallbackQuery) Delete(
	ctx context.Context,
	opts DeleteOptions,
) (*tg.MessagesAffectedMessages, yaerrors.Error) {
	e.scheduleAnswer()

	peer, err := e.InputChat(ctx)
	if err != nil {
		return nil, err.Wrap("failed to resolve input chat for delete")
	}

	ids := []int{e.query.MsgID}

	if channel, ok := yaentity.AsInputChannel(peer); ok {
		affected, serr := e.deps.API.ChannelsDeleteMessages(ctx, &tg.ChannelsDeleteMessagesRequest{
			Channel: channel,
			ID:      ids,
		})
		if serr != nil {
			return nil, yaerrors.FromError(
				http.StatusBadGateway,
				serr,
				"failed to delete channel callback message",
			)
		}

		return affected, nil
	}

	affected, serr := e.deps.API.MessagesDeleteMessages(ctx, &tg.MessagesDeleteMessagesRequest{
		Revoke: opts.Revoke,
		ID:     ids,
	})
	if serr != nil {
		return nil, yaerrors.FromError(
			http.StatusBadGateway,
			serr,
			"failed to delete callback message",
		)
	}

	return affected, nil
}

// buildSendRequest assembles a send request targeting the given peer.
func (e *CallbackQuery) buildSendRequest(
	peer tg.InputPeerClass,
	message string,
	opts SendOptions,
) *tg.MessagesSendMessageRequest {
	request := &tg.MessagesSendMessageRequest{
		Peer:      peer,
		Message:   message,
		Silent:    opts.Silent,
		NoWebpage: opts.NoWebpage,
		RandomID:  rand.Int63(), //nolint:gosec // Message dedup id, randomness quality is irrelevant
	}

	if opts.ReplyMarkup != nil {
		request.SetReplyMarkup(opts.ReplyMarkup)
	}

	if opts.Entities != nil {
		request.SetEntities(opts.Entities)
	}

	return request
}
