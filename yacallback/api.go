package yacallback

import (
	"context"

	"github.com/YaCodeDev/GoYaCodeDevUtils/yalogger"
	"github.com/YaCodeDev/GoYaTgCallback/yaentity"
	"github.com/YaCodeDev/GoYaTgCallback/yascheduler"
	"github.com/gotd/td/tg"
)

// API is the transport surface the event needs. *tg.Client satisfies it, so
// production code passes client.API() while tests pass a hand-rolled fake.
type API interface {
	MessagesSetBotCallbackAnswer(
		ctx context.Context,
		request *tg.MessagesSetBotCallbackAnswerRequest,
	) (bool, error)

	MessagesSendMessage(
		ctx context.Context,
		request *tg.MessagesSendMessageRequest,
	) (tg.UpdatesClass, error)

	MessagesEditMessage(
		ctx context.Context,
		request *tg.MessagesEditMessageRequest,
	) (tg.UpdatesClass, error)

	MessagesDeleteMessages(
		ctx context.Context,
		request *tg.MessagesDeleteMessagesRequest,
	) (*tg.MessagesAffectedMessages, error)

	ChannelsDeleteMessages(
		ctx context.Context,
		request *tg.ChannelsDeleteMessagesRequest,
	) (*tg.MessagesAffectedMessages, error)

	MessagesGetMessages(
		ctx context.Context,
		id []tg.InputMessageClass,
	) (tg.MessagesMessagesClass, error)

	ChannelsGetMessages(
		ctx context.Context,
		request *tg.ChannelsGetMessagesRequest,
	) (tg.MessagesMessagesClass, error)
}

// Detacher schedules a unit of work that the caller does not wait on.
// *yascheduler.Scheduler is the production implementation.
type Detacher interface {
	Schedule(job yascheduler.Job)
}

// Dependencies holds the external collaborators required by a CallbackQuery.
// API is mandatory. Resolver may be nil, in which case the escalation step of
// sender and chat resolution is skipped. Detach and Log get safe defaults
// from New when nil.
type Dependencies struct {
	API      API
	Resolver yaentity.Resolver
	Detach   Detacher
	Log      yalogger.Logger
}

// goDetacher is the fallback Detacher: one goroutine per job, detached from
// any caller context.
type goDetacher struct{}

func (goDetacher) Schedule(job yascheduler.Job) {
	go job(context.Background())
}
