// Package yacallback models one inbound Telegram callback query - the update
// a bot receives when a user presses an inline button - as a resolved,
// stateful event with a bounded set of follow-up actions.
//
// The event guarantees an idempotent one-shot acknowledgment: no matter how
// many response actions run, and no matter how they race, Telegram sees at
// most one messages.setBotCallbackAnswer per query. Response actions
// (Respond, Reply, Edit, Delete) schedule that acknowledgment as a detached
// job and immediately proceed with their own request, so the button's loading
// spinner is cleared without the visible action paying the acknowledgment's
// round-trip.
//
// Sender identity is resolved lazily through a chain of progressively more
// expensive lookups: the update's entity snapshot first, then the yaentity
// access-hash store, then the sender carried by the message the button lives
// on. Every step of the chain degrades silently - an unresolvable sender
// reads as absent, never as an error.
package yacallback

import (
	"sync"
	"sync/atomic"

	"github.com/YaCodeDev/GoYaCodeDevUtils/yalogger"
	"github.com/YaCodeDev/GoYaTgCallback/yaentity"
	"github.com/gotd/td/tg"
)

// CallbackQuery is the event of a single inline-button press.
//
// Identity fields (query id, message id, payload, chat peer, sender id) are
// immutable for the lifetime of the event. Sender, input sender and message
// are resolved lazily and cached; once populated they are never overwritten.
// The event holds a point-in-time entity snapshot, so it should live exactly
// as long as the handler invocation that received it.
type CallbackQuery struct {
	query    *tg.UpdateBotCallbackQuery
	entities tg.Entities
	deps     Dependencies

	answered atomic.Bool

	mu             sync.Mutex
	inputChat      tg.InputPeerClass
	sender         *tg.User
	inputSender    tg.InputPeerClass
	senderResolved bool
	message        *tg.Message
	messageUsers   map[int64]*tg.User
}

// New constructs a CallbackQuery from a raw update and the entity snapshot
// the dispatcher delivered alongside it.
//
// Example usage:
//
//	dispatcher.OnBotCallbackQuery(func(ctx context.Context, ent tg.Entities, q *tg.UpdateBotCallbackQuery) error {
//	    event := yacallback.New(q, ent, deps)
//	    _, err := event.Answer(ctx, yacallback.AnswerOptions{Message: "done"})
//
//	    return err
//	})
func New(q *tg.UpdateBotCallbackQuery, ent tg.Entities, deps Dependencies) *CallbackQuery {
	if deps.Detach == nil {
		deps.Detach = goDetacher{}
	}

	if deps.Log == nil {
		deps.Log = yalogger.NewBaseLogger(nil).NewLogger()
	}

	return &CallbackQuery{
		query:    q,
		entities: ent,
		deps:     deps,
	}
}

// QueryID returns the query id. The user pressing the inline button is the
// one who generated this random id.
func (e *CallbackQuery) QueryID() int64 {
	return e.query.QueryID
}

// MessageID returns the id of the message the pressed inline button belongs
// to.
func (e *CallbackQuery) MessageID() int {
	return e.query.MsgID
}

// Data returns the payload of the pressed inline button. It may be empty for
// game buttons.
func (e *CallbackQuery) Data() []byte {
	return e.query.Data
}

// SenderID returns the id of the user who pressed the button.
func (e *CallbackQuery) SenderID() int64 {
	return e.query.UserID
}

// ChatPeer returns the peer of the chat the button was pressed in.
func (e *CallbackQuery) ChatPeer() tg.PeerClass {
	return e.query.Peer
}

// ChatID returns the id of the chat the button was pressed in.
func (e *CallbackQuery) ChatID() (int64, bool) {
	return yaentity.ChatID(e.query.Peer, e.entities)
}

// IsChannel reports whether the event occurred in a channel or supergroup.
func (e *CallbackQuery) IsChannel() bool {
	_, ok := e.query.Peer.(*tg.PeerChannel)

	return ok
}

// Answered reports whether an acknowledgment has already been issued or
// scheduled for this event.
func (e *CallbackQuery) Answered() bool {
	return e.answered.Load()
}
