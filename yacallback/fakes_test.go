package yacallback_test

import (
	"context"
	"net/http"
	"sync"

	"github.com/YaCodeDev/GoYaCodeDevUtils/yaerrors"
	"github.com/YaCodeDev/GoYaTgCallback/yascheduler"
	"github.com/gotd/td/tg"
)

// fakeAPI records every transport call and replies with canned results.
// Safe for concurrent use so latch races can be exercised.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	answerRequests []*tg.MessagesSetBotCallbackAnswerRequest
	answerErr      error

	sendRequests []*tg.MessagesSendMessageRequest
	sendResult   tg.UpdatesClass
	sendErr      error

	editRequests []*tg.MessagesEditMessageRequest
	editResult   tg.UpdatesClass
	editErr      error

	deleteRequests        []*tg.MessagesDeleteMessagesRequest
	channelDeleteRequests []*tg.ChannelsDeleteMessagesRequest

	getRequests        [][]tg.InputMessageClass
	channelGetRequests []*tg.ChannelsGetMessagesRequest
	getResult          tg.MessagesMessagesClass
	getErr             error
}

func (a *fakeAPI) record(call string) {
	a.calls = append(a.calls, call)
}

func (a *fakeAPI) MessagesSetBotCallbackAnswer(
	_ context.Context,
	request *tg.MessagesSetBotCallbackAnswerRequest,
) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.record("answer")
	a.answerRequests = append(a.answerRequests, request)

	if a.answerErr != nil {
		return false, a.answerErr
	}

	return true, nil
}

func (a *fakeAPI) MessagesSendMessage(
	_ context.Context,
	request *tg.MessagesSendMessageRequest,
) (tg.UpdatesClass, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.record("send")
	a.sendRequests = append(a.sendRequests, request)

	if a.sendErr != nil {
		return nil, a.sendErr
	}

	if a.sendResult != nil {
		return a.sendResult, nil
	}

	return &tg.Updates{}, nil
}

func (a *fakeAPI) MessagesEditMessage(
	_ context.Context,
	request *tg.MessagesEditMessageRequest,
) (tg.UpdatesClass, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.record("edit")
	a.editRequests = append(a.editRequests, request)

	if a.editErr != nil {
		return nil, a.editErr
	}

	if a.editResult != nil {
		return a.editResult, nil
	}

	return &tg.Updates{}, nil
}

func (a *fakeAPI) MessagesDeleteMessages(
	_ context.Context,
	request *tg.MessagesDeleteMessagesRequest,
) (*tg.MessagesAffectedMessages, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.record("delete")
	a.deleteRequests = append(a.deleteRequests, request)

	return &tg.MessagesAffectedMessages{}, nil
}

func (a *fakeAPI) ChannelsDeleteMessages(
	_ context.Context,
	request *tg.ChannelsDeleteMessagesRequest,
) (*tg.MessagesAffectedMessages, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.record("channelDelete")
	a.channelDeleteRequests = append(a.channelDeleteRequests, request)

	return &tg.MessagesAffectedMessages{}, nil
}

func (a *fakeAPI) MessagesGetMessages(
	_ context.Context,
	id []tg.InputMessageClass,
) (tg.MessagesMessagesClass, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.record("getMessages")
	a.getRequests = append(a.getRequests, id)

	if a.getErr != nil {
		return nil, a.getErr
	}

	if a.getResult != nil {
		return a.getResult, nil
	}

	return &tg.MessagesMessages{}, nil
}

func (a *fakeAPI) ChannelsGetMessages(
	_ context.Context,
	request *tg.ChannelsGetMessagesRequest,
) (tg.MessagesMessagesClass, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.record("channelGetMessages")
	a.channelGetRequests = append(a.channelGetRequests, request)

	if a.getErr != nil {
		return nil, a.getErr
	}

	if a.getResult != nil {
		return a.getResult, nil
	}

	return &tg.MessagesMessages{}, nil
}

func (a *fakeAPI) callOrder() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]string(nil), a.calls...)
}

// syncDetacher runs detached jobs inline, making scheduling order
// deterministic in tests.
type syncDetacher struct{}

func (syncDetacher) Schedule(job yascheduler.Job) {
	job(context.Background())
}

// fakeResolver is an access-hash store stub counting how often the chain
// escalates to it.
type fakeResolver struct {
	mu        sync.Mutex
	userCalls int
	peer      tg.InputPeerClass
	fail      bool
}

func (r *fakeResolver) ResolveUser(
	_ context.Context,
	userID int64,
) (tg.InputPeerClass, yaerrors.Error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.userCalls++

	if r.fail || r.peer == nil {
		return nil, yaerrors.FromString(http.StatusNotFound, "user is not cached")
	}

	return r.peer, nil
}

func (r *fakeResolver) ResolveChannel(
	_ context.Context,
	channelID int64,
) (tg.InputChannelClass, yaerrors.Error) {
	return nil, yaerrors.FromString(http.StatusNotFound, "channel is not cached")
}

// channelResolver resolves channels only, for chat escalation tests.
type channelResolver struct {
	channel tg.InputChannelClass
}

func (r *channelResolver) ResolveUser(
	_ context.Context,
	_ int64,
) (tg.InputPeerClass, yaerrors.Error) {
	return nil, yaerrors.FromString(http.StatusNotFound, "user is not cached")
}

func (r *channelResolver) ResolveChannel(
	_ context.Context,
	_ int64,
) (tg.InputChannelClass, yaerrors.Error) {
	if r.channel == nil {
		return nil, yaerrors.FromString(http.StatusNotFound, "channel is not cached")
	}

	return r.channel, nil
}

func (r *fakeResolver) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.userCalls
}
