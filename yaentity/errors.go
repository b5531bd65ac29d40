package yaentity

import "errors"

var (
	ErrUserNotCached    = errors.New("user access hash is not cached")
	ErrChannelNotCached = errors.New("channel access hash is not cached")
	ErrBadAccessHash    = errors.New("failed to parse cached access hash")
)
