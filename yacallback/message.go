package yacallback

import (
	"context"
	"fmt"
	"net/http"

	"github.com/YaCodeDev/GoYaCodeDevUtils/yaerrors"
	"github.com/YaCodeDev/GoYaTgCallback/yaentity"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
)

// InputChat resolves the chat the button was pressed in to a request-ready
// input peer. The snapshot is tried first; chats absent from it escalate to
// the configured Resolver. The outcome is cached.
//
// Example usage:
//
//	peer, err := event.InputChat(ctx)
func (e *CallbackQuery) InputChat(ctx context.Context) (tg.InputPeerClass, yaerrors.Error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.inputChatLocked(ctx)
}

// inputChatLocked is InputChat with e.mu already held.
func (e *CallbackQuery) inputChatLocked(ctx context.Context) (tg.InputPeerClass, yaerrors.Error) {
	if e.inputChat != nil {
		return e.inputChat, nil
	}

	if peer, ok := yaentity.InputPeer(e.query.Peer, e.entities); ok {
		e.inputChat = peer

		return peer, nil
	}

	if e.deps.Resolver != nil {
		switch p := e.query.Peer.(type) {
		case *tg.PeerUser:
			peer, err := e.deps.Resolver.ResolveUser(ctx, p.UserID)
			if err == nil {
				e.inputChat = peer

				return peer, nil
			}
		case *tg.PeerChannel:
			channel, err := e.deps.Resolver.ResolveChannel(ctx, p.ChannelID)
			if err == nil {
				if input, ok := channel.(*tg.InputChannel); ok {
					e.inputChat = &tg.InputPeerChannel{
						ChannelID:  input.ChannelID,
						AccessHash: input.AccessHash,
					}

					return e.inputChat, nil
				}
			}
		}
	}

	return nil, yaerrors.FromString(
		http.StatusNotFound,
		fmt.Sprintf("failed to resolve input chat for peer %T", e.query.Peer),
	)
}

// GetMessage returns the message the pressed inline button belongs to.
//
// The first successful fetch is cached and returned as-is on every later
// call. A missing message - already deleted, or not visible to the bot - is
// an expected outcome and yields (nil, nil) rather than an error; only real
// transport failures are returned.
//
// Example usage:
//
//	msg, err := event.GetMessage(ctx)
//	if err != nil {
//	    return err.Wrap("failed to fetch callback message")
//	}
//
//	if msg == nil {
//	    // Message is gone, nothing to inspect
//	}
func (e *CallbackQuery) GetMessage(ctx context.Context) (*tg.Message, yaerrors.Error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.messageLocked(ctx)
}

// messageLocked is GetMessage with e.mu already held.
func (e *CallbackQuery) messageLocked(ctx context.Context) (*tg.Message, yaerrors.Error) {
	if e.message != nil {
		return e.message, nil
	}

	ids := []tg.InputMessageClass{&tg.InputMessageID{ID: e.query.MsgID}}

	var (
		result tg.MessagesMessagesClass
		err    error
	)

	if e.IsChannel() {
		// Channel messages are namespaced per channel, so the fetch needs a
		// resolved input channel; a chat that cannot be resolved means the
		// message cannot be either.
		peer, yaerr := e.inputChatLocked(ctx)
		if yaerr != nil {
			e.deps.Log.Debugf(
				"No input chat for callback query %d, treating message %d as missing",
				e.query.QueryID,
				e.query.MsgID,
			)

			return nil, nil
		}

		channel, ok := yaentity.AsInputChannel(peer)
		if !ok {
			return nil, nil
		}

		result, err = e.deps.API.ChannelsGetMessages(ctx, &tg.ChannelsGetMessagesRequest{
			Channel: channel,
			ID:      ids,
		})
	} else {
		result, err = e.deps.API.MessagesGetMessages(ctx, ids)
	}

	if err != nil {
		if tgerr.Is(err, "MESSAGE_IDS_EMPTY", "MSG_ID_INVALID", "CHANNEL_INVALID") {
			return nil, nil
		}

		return nil, yaerrors.FromError(
			http.StatusBadGateway,
			err,
			"failed to fetch callback message",
		)
	}

	modified, ok := result.AsModified()
	if !ok {
		return nil, nil
	}

	for _, mc := range modified.GetMessages() {
		msg, ok := mc.(*tg.Message)
		if !ok || msg.ID != e.query.MsgID {
			continue
		}

		e.message = msg
		e.messageUsers = make(map[int64]*tg.User, len(modified.GetUsers()))

		for _, uc := range modified.GetUsers() {
			if user, ok := uc.AsNotEmpty(); ok {
				e.messageUsers[user.ID] = user
			}
		}

		return msg, nil
	}

	return nil, nil
}
