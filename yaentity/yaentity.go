// Package yaentity turns bare Telegram peer identifiers into request-ready
// input references.
//
// Two sources are covered: the point-in-time entity snapshot delivered with
// every update (tg.Entities), and a Redis-backed access-hash store that
// outlives single updates. The snapshot helpers are pure lookups; the Store
// escalation path is for senders and chats the snapshot does not know about.
package yaentity

import (
	"context"

	"github.com/YaCodeDev/GoYaCodeDevUtils/yaerrors"
	"github.com/gotd/td/tg"
)

// Resolver resolves an entity id into a request-ready input reference.
// A resolution failure means the id is unknown to the underlying cache; it
// carries no information about whether the entity exists on Telegram.
type Resolver interface {
	// ResolveUser returns an input peer for the given user id.
	ResolveUser(ctx context.Context, userID int64) (tg.InputPeerClass, yaerrors.Error)

	// ResolveChannel returns an input channel for the given channel id.
	ResolveChannel(ctx context.Context, channelID int64) (tg.InputChannelClass, yaerrors.Error)
}

// User looks up a user entity in the snapshot.
//
// Example usage:
//
//	user, ok := yaentity.User(q.UserID, ent)
func User(userID int64, ents tg.Entities) (*tg.User, bool) {
	u, ok := ents.Users[userID]

	return u, ok
}

// InputPeer converts a tg.PeerClass to a tg.InputPeerClass using the snapshot.
// Users and channels need an access hash from the snapshot; plain chats do
// not, so a PeerChat always resolves.
//
// Example usage:
//
//	peer, ok := yaentity.InputPeer(q.Peer, ent)
func InputPeer(p tg.PeerClass, ents tg.Entities) (tg.InputPeerClass, bool) {
	switch v := p.(type) {
	case *tg.PeerUser:
		u, ok := ents.Users[v.UserID]
		if !ok {
			return nil, false
		}

		return &tg.InputPeerUser{
			UserID:     v.UserID,
			AccessHash: u.AccessHash,
		}, true

	case *tg.PeerChat:
		return &tg.InputPeerChat{ChatID: v.ChatID}, true

	case *tg.PeerChannel:
		c, ok := ents.Channels[v.ChannelID]
		if !ok {
			return nil, false
		}

		return &tg.InputPeerChannel{
			ChannelID:  v.ChannelID,
			AccessHash: c.AccessHash,
		}, true
	}

	return nil, false
}

// InputChannel resolves a channel id to an input channel using the snapshot.
//
// Example usage:
//
//	channel, ok := yaentity.InputChannel(peer.ChannelID, ent)
func InputChannel(channelID int64, ents tg.Entities) (tg.InputChannelClass, bool) {
	c, ok := ents.Channels[channelID]
	if !ok {
		return nil, false
	}

	return &tg.InputChannel{
		ChannelID:  channelID,
		AccessHash: c.AccessHash,
	}, true
}

// ChatID extracts the chat id from a tg.PeerClass.
//
// Example usage:
//
//	chatID, ok := yaentity.ChatID(q.Peer, ent)
func ChatID(peer tg.PeerClass, ents tg.Entities) (int64, bool) {
	switch v := peer.(type) {
	case *tg.PeerUser:
		return v.UserID, true
	case *tg.PeerChat:
		return v.ChatID, true
	case *tg.PeerChannel:
		c, ok := ents.Channels[v.ChannelID]
		if !ok {
			return 0, false
		}

		return c.ID, true
	default:
		return 0, false
	}
}

// AsInputChannel narrows an input peer to an input channel.
func AsInputChannel(peer tg.InputPeerClass) (tg.InputChannelClass, bool) {
	channel, ok := peer.(*tg.InputPeerChannel)
	if !ok {
		return nil, false
	}

	return &tg.InputChannel{
		ChannelID:  channel.ChannelID,
		AccessHash: channel.AccessHash,
	}, true
}
