package yacallback_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSenderResolvedFromSnapshot(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	resolver := &fakeResolver{}
	ents := snapshotUsers(&tg.User{ID: testSenderID, AccessHash: 777, Username: "alice"})
	event := newEvent(api, resolver, ents, buyQuery())

	sender, ok := event.Sender(context.Background())
	require.True(t, ok)
	assert.Equal(t, "alice", sender.Username)

	input, ok := event.InputSender(context.Background())
	require.True(t, ok)
	assert.Equal(t, &tg.InputPeerUser{UserID: testSenderID, AccessHash: 777}, input)

	// A usable snapshot entity ends the chain before any lookup.
	assert.Zero(t, resolver.calls())
	assert.Empty(t, api.getRequests)
}

func TestSenderAbsentFromSnapshotStaysUnresolved(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	resolver := &fakeResolver{peer: &tg.InputPeerUser{UserID: testSenderID, AccessHash: 1}}
	event := newEvent(api, resolver, snapshotUsers(), buyQuery())

	sender, ok := event.Sender(context.Background())
	assert.False(t, ok)
	assert.Nil(t, sender)

	input, ok := event.InputSender(context.Background())
	assert.False(t, ok)
	assert.Nil(t, input)

	// An absent entity is terminal; the chain never escalates past it.
	assert.Zero(t, resolver.calls())
	assert.Empty(t, api.getRequests)
}

func TestSenderEscalatesToStoreWhenHashMissing(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	resolver := &fakeResolver{
		peer: &tg.InputPeerUser{UserID: testSenderID, AccessHash: 4242},
	}
	ents := snapshotUsers(&tg.User{ID: testSenderID, Username: "alice"})
	event := newEvent(api, resolver, ents, buyQuery())

	sender, ok := event.Sender(context.Background())
	require.True(t, ok)
	assert.Equal(t, "alice", sender.Username)

	input, ok := event.InputSender(context.Background())
	require.True(t, ok)
	assert.Equal(t, &tg.InputPeerUser{UserID: testSenderID, AccessHash: 4242}, input)

	assert.Equal(t, 1, resolver.calls())
	assert.Empty(t, api.getRequests)
}

func TestSenderAdoptedFromFetchedMessage(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		getResult: messagesResult(
			&tg.Message{
				ID:     testMsgID,
				FromID: &tg.PeerUser{UserID: testSenderID},
			},
			&tg.User{ID: testSenderID, AccessHash: 888, Username: "alice"},
		),
	}
	resolver := &fakeResolver{fail: true}
	ents := snapshotUsers(&tg.User{ID: testSenderID, Username: "alice"})
	event := newEvent(api, resolver, ents, buyQuery())

	input, ok := event.InputSender(context.Background())
	require.True(t, ok)
	assert.Equal(t, &tg.InputPeerUser{UserID: testSenderID, AccessHash: 888}, input)

	sender, ok := event.Sender(context.Background())
	require.True(t, ok)
	assert.Equal(t, int64(888), sender.AccessHash)

	assert.Equal(t, 1, resolver.calls())
	assert.Len(t, api.getRequests, 1)
}

func TestSenderExhaustedChainDegradesSilently(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{getErr: errors.New("connection reset")}
	resolver := &fakeResolver{fail: true}
	ents := snapshotUsers(&tg.User{ID: testSenderID, Username: "alice"})
	event := newEvent(api, resolver, ents, buyQuery())

	// The snapshot entity is still the sender even when no request-ready
	// reference can be derived for it.
	sender, ok := event.Sender(context.Background())
	require.True(t, ok)
	assert.Equal(t, "alice", sender.Username)

	input, ok := event.InputSender(context.Background())
	assert.False(t, ok)
	assert.Nil(t, input)

	// The chain runs once; later calls replay the cached outcome.
	_, _ = event.Sender(context.Background())
	_, _ = event.InputSender(context.Background())

	assert.Equal(t, 1, resolver.calls())
	assert.Len(t, api.getRequests, 1)
}

func TestSenderSelfPlaceholderEscalates(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	resolver := &fakeResolver{
		peer: &tg.InputPeerUser{UserID: testSenderID, AccessHash: 4242},
	}
	ents := snapshotUsers(&tg.User{ID: testSenderID, Self: true, AccessHash: 777})
	event := newEvent(api, resolver, ents, buyQuery())

	_, ok := event.InputSender(context.Background())
	require.True(t, ok)

	assert.Equal(t, 1, resolver.calls())
}
