package yacallback

import (
	"context"

	"github.com/YaCodeDev/GoYaTgCallback/yaentity"
	"github.com/gotd/td/tg"
)

// Sender returns the user who pressed the button, resolving them on first
// call. ok==false means the sender could not be resolved from any source;
// callers are expected to tolerate that.
//
// Example usage:
//
//	if sender, ok := event.Sender(ctx); ok {
//	    log.Infof("Button pressed by %s", sender.Username)
//	}
func (e *CallbackQuery) Sender(ctx context.Context) (*tg.User, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resolveSenderLocked(ctx)

	return e.sender, e.sender != nil
}

// InputSender returns a request-ready reference to the user who pressed the
// button, resolving it on first call alongside Sender.
func (e *CallbackQuery) InputSender(ctx context.Context) (tg.InputPeerClass, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resolveSenderLocked(ctx)

	return e.inputSender, e.inputSender != nil
}

// resolveSenderLocked runs the sender resolution chain once and caches its
// outcome, resolved or not. Strategies run in order of cost, stopping at the
// first usable result; every lookup failure falls through to the next
// strategy, and exhausting them all simply leaves the sender unresolved.
//
//  1. The entity snapshot. A sender absent from it ends the chain.
//  2. An input peer derived from the snapshot entity. Rejected when the
//     access hash is missing or the entity degenerates to a self placeholder.
//  3. The access-hash store, queried by sender id.
//  4. The message the button belongs to: a fetched message carries its own
//     entity list, which may know the sender when the snapshot does not.
//
// e.mu must be held.
func (e *CallbackQuery) resolveSenderLocked(ctx context.Context) {
	if e.senderResolved {
		return
	}

	e.senderResolved = true

	user, ok := yaentity.User(e.query.UserID, e.entities)
	if !ok {
		e.deps.Log.Debugf(
			"Sender %d absent from entity snapshot for callback query %d",
			e.query.UserID,
			e.query.QueryID,
		)

		return
	}

	e.sender = user

	if input := usableInputUser(user); input != nil {
		e.inputSender = input

		return
	}

	if e.deps.Resolver != nil {
		peer, err := e.deps.Resolver.ResolveUser(ctx, e.query.UserID)
		if err == nil {
			e.inputSender = peer

			return
		}

		e.deps.Log.Debugf(
			"Access-hash store miss for sender %d: %v",
			e.query.UserID,
			err,
		)
	}

	e.adoptMessageSenderLocked(ctx)
}

// adoptMessageSenderLocked fetches the callback message and, when possible,
// adopts the sender resolved through that fetch as the event's own. Fetch
// failures leave the sender as-is; they never surface.
func (e *CallbackQuery) adoptMessageSenderLocked(ctx context.Context) {
	msg, err := e.messageLocked(ctx)
	if err != nil || msg == nil {
		return
	}

	from, ok := msg.FromID.(*tg.PeerUser)
	if !ok || from.UserID != e.query.UserID {
		return
	}

	user, ok := e.messageUsers[from.UserID]
	if !ok {
		return
	}

	e.sender = user

	if input := usableInputUser(user); input != nil {
		e.inputSender = input
	}
}

// usableInputUser derives an input peer from a user entity, or nil when the
// entity cannot back real requests: self placeholders and min or hashless
// entities lack a usable access credential.
func usableInputUser(user *tg.User) tg.InputPeerClass {
	if user.Self || user.Min || user.AccessHash == 0 {
		return nil
	}

	return &tg.InputPeerUser{
		UserID:     user.ID,
		AccessHash: user.AccessHash,
	}
}
