package yaentity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/YaCodeDev/GoYaCodeDevUtils/yacache"
	"github.com/YaCodeDev/GoYaCodeDevUtils/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevUtils/yalogger"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"
	"github.com/redis/go-redis/v9"
)

// Structured-logging keys.
const (
	LoggerEntityID  = "entity_id"
	LoggerUserID    = "user_id"
	LoggerChannelID = "channel_id"
)

// Store is a Redis-backed access-hash cache implementing Resolver.
//
// Hashes are kept in two HSET buckets per bot entity:
//
//   - peer-user-access-hash:<entity_id>     - HSET <userID>=<hash>
//   - peer-channel-access-hash:<entity_id>  - HSET <channelID>=<hash>
//
// Methods are safe for concurrent use; they only touch Redis.
// The zero value is not valid - use NewStore.
type Store struct {
	cache    yacache.Cache[*redis.Client]
	entityID int64
	log      yalogger.Logger
}

// NewStore wires the dependencies and returns a ready-to-use *Store.
// entityID is the bot the hashes belong to; separate bots sharing one Redis
// never see each other's hashes.
//
// Example usage:
//
//	store := yaentity.NewStore(yacache.NewCache(client), botID, log)
func NewStore(
	cache yacache.Cache[*redis.Client],
	entityID int64,
	log yalogger.Logger,
) *Store {
	return &Store{
		cache:    cache,
		entityID: entityID,
		log:      log,
	}
}

// SaveUserAccessHash persists a user access hash.
//
// Example usage:
//
//	_ = store.SaveUserAccessHash(ctx, user.ID, user.AccessHash)
func (s *Store) SaveUserAccessHash(
	ctx context.Context,
	userID int64,
	accessHash int64,
) yaerrors.Error {
	key := getUserAccessHashKey(s.entityID)

	log := s.log.WithField(LoggerEntityID, s.entityID).WithField(LoggerUserID, userID)

	if err := s.cache.Raw().
		HSet(ctx, key, strconv.FormatInt(userID, 10), accessHash).Err(); err != nil {
		return yaerrors.FromErrorWithLog(
			http.StatusInternalServerError,
			err,
			"failed to save user access hash",
			log,
		)
	}

	log.Debug("Saved user access hash")

	return nil
}

// SaveChannelAccessHash persists a channel access hash.
func (s *Store) SaveChannelAccessHash(
	ctx context.Context,
	channelID int64,
	accessHash int64,
) yaerrors.Error {
	key := getChannelAccessHashKey(s.entityID)

	log := s.log.WithField(LoggerEntityID, s.entityID).WithField(LoggerChannelID, channelID)

	if err := s.cache.Raw().
		HSet(ctx, key, strconv.FormatInt(channelID, 10), accessHash).Err(); err != nil {
		return yaerrors.FromErrorWithLog(
			http.StatusInternalServerError,
			err,
			"failed to save channel access hash",
			log,
		)
	}

	log.Debug("Saved channel access hash")

	return nil
}

// ResolveUser returns an input peer for the given user id, failing with
// ErrUserNotCached when the hash was never saved.
//
// Example usage:
//
//	peer, err := store.ResolveUser(ctx, q.UserID)
//	if err != nil {
//	    // Unknown to the cache, fall back to another source
//	}
func (s *Store) ResolveUser(
	ctx context.Context,
	userID int64,
) (tg.InputPeerClass, yaerrors.Error) {
	hash, err := s.resolveHash(ctx, getUserAccessHashKey(s.entityID), userID, ErrUserNotCached)
	if err != nil {
		return nil, err.Wrap("failed to resolve user input peer")
	}

	return &tg.InputPeerUser{
		UserID:     userID,
		AccessHash: hash,
	}, nil
}

// ResolveChannel returns an input channel for the given channel id, failing
// with ErrChannelNotCached when the hash was never saved.
func (s *Store) ResolveChannel(
	ctx context.Context,
	channelID int64,
) (tg.InputChannelClass, yaerrors.Error) {
	hash, err := s.resolveHash(ctx, getChannelAccessHashKey(s.entityID), channelID, ErrChannelNotCached)
	if err != nil {
		return nil, err.Wrap("failed to resolve input channel")
	}

	return &tg.InputChannel{
		ChannelID:  channelID,
		AccessHash: hash,
	}, nil
}

// HandlerFunc adapts a plain function into a gotd telegram.UpdateHandler.
type HandlerFunc func(ctx context.Context, updates tg.UpdatesClass) error

// Handle implements telegram.UpdateHandler by delegating to the underlying
// function.
func (h HandlerFunc) Handle(ctx context.Context, updates tg.UpdatesClass) error {
	return h(ctx, updates)
}

// SaveHandler returns middleware that harvests user and channel access hashes
// from passing update containers before forwarding them to next. Install it
// as the client's UpdateHandler so the store fills itself as the bot runs.
//
// Example usage:
//
//	options.UpdateHandler = store.SaveHandler(dispatcher)
func (s *Store) SaveHandler(next telegram.UpdateHandler) HandlerFunc {
	return func(ctx context.Context, updates tg.UpdatesClass) error {
		switch u := updates.(type) {
		case *tg.Updates:
			s.harvest(ctx, u.Users, u.Chats)
		case *tg.UpdatesCombined:
			s.harvest(ctx, u.Users, u.Chats)
		}

		return next.Handle(ctx, updates)
	}
}

// harvest stores every usable access hash found in the given entity lists.
func (s *Store) harvest(ctx context.Context, users []tg.UserClass, chats []tg.ChatClass) {
	for _, uc := range users {
		user, ok := uc.AsNotEmpty()
		if !ok || user.Min {
			continue
		}

		if err := s.SaveUserAccessHash(ctx, user.ID, user.AccessHash); err != nil {
			s.log.Errorf("Failed to save user %d access hash: %v", user.ID, err)
		}
	}

	for _, cc := range chats {
		channel, ok := cc.(*tg.Channel)
		if !ok || channel.Min {
			continue
		}

		if err := s.SaveChannelAccessHash(ctx, channel.ID, channel.AccessHash); err != nil {
			s.log.Errorf("Failed to save channel %d access hash: %v", channel.ID, err)
		}
	}
}

// resolveHash fetches and parses a single hash field, mapping a missing field
// to notCached with HTTP 404.
func (s *Store) resolveHash(
	ctx context.Context,
	key string,
	id int64,
	notCached error,
) (int64, yaerrors.Error) {
	log := s.log.WithField(LoggerEntityID, s.entityID)

	data, err := s.cache.Raw().HGet(ctx, key, strconv.FormatInt(id, 10)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, yaerrors.FromError(
				http.StatusNotFound,
				notCached,
				fmt.Sprintf("no access hash for id %d", id),
			)
		}

		return 0, yaerrors.FromErrorWithLog(
			http.StatusInternalServerError,
			err,
			"failed to fetch access hash",
			log,
		)
	}

	hash, err := strconv.ParseInt(data, 10, 64)
	if err != nil {
		return 0, yaerrors.FromErrorWithLog(
			http.StatusInternalServerError,
			errors.Join(err, ErrBadAccessHash),
			"failed to parse access hash as int64",
			log,
		)
	}

	return hash, nil
}

// getUserAccessHashKey forms the HSET key for user access hashes.
func getUserAccessHashKey(entityID int64) string {
	return fmt.Sprintf("peer-user-access-hash:%d", entityID)
}

// getChannelAccessHashKey forms the HSET key for channel access hashes.
func getChannelAccessHashKey(entityID int64) string {
	return fmt.Sprintf("peer-channel-access-hash:%d", entityID)
}
