package yacallback

import (
	"context"
	"net/http"

	"github.com/YaCodeDev/GoYaCodeDevUtils/yaerrors"
	"github.com/gotd/td/tg"
)

// AnswerOptions configures the acknowledgment request. The zero value is a
// plain silent acknowledgment that only clears the loading spinner.
type AnswerOptions struct {
	// Message is an optional toast shown to the user.
	Message string

	// CacheTime is how long, in seconds, the user's client may cache this
	// answer. Zero disables caching.
	CacheTime int

	// URL is an optional URL to open on the user's client. Telegram accepts
	// only game URLs and t.me/your_bot?start=... links here.
	URL string

	// Alert shows a pop-up dialog instead of a toast.
	Alert bool
}

// Answer acknowledges the callback query, clearing the loading spinner on the
// user's side.
//
// The acknowledgment is idempotent per event: the first caller to arrive wins
// the latch, issues the single network request, and receives its result.
// Every later (or concurrently racing) caller gets issued==false, no network
// call and no error, regardless of how the winning request turned out.
//
// Example usage:
//
//	issued, err := event.Answer(ctx, yacallback.AnswerOptions{
//	    Message: "Purchased!",
//	    Alert:   true,
//	})
func (e *CallbackQuery) Answer(
	ctx context.Context,
	opts AnswerOptions,
) (bool, yaerrors.Error) {
	if !e.answered.CompareAndSwap(false, true) {
		return false, nil
	}

	if err := e.sendAnswer(ctx, opts); err != nil {
		return true, err.Wrap("failed to answer callback query")
	}

	return true, nil
}

// sendAnswer issues the acknowledgment request. The latch must already be
// held by the caller.
func (e *CallbackQuery) sendAnswer(ctx context.Context, opts AnswerOptions) yaerrors.Error {
	request := &tg.MessagesSetBotCallbackAnswerRequest{
		QueryID:   e.query.QueryID,
		CacheTime: opts.CacheTime,
		Alert:     opts.Alert,
	}

	if opts.Message != "" {
		request.SetMessage(opts.Message)
	}

	if opts.URL != "" {
		request.SetURL(opts.URL)
	}

	if _, err := e.deps.API.MessagesSetBotCallbackAnswer(ctx, request); err != nil {
		return yaerrors.FromError(
			http.StatusBadGateway,
			err,
			"failed to send callback answer",
		)
	}

	return nil
}

// scheduleAnswer takes the latch and hands the acknowledgment to the detacher
// so it runs concurrently with the calling action. Losing the latch means an
// acknowledgment is already on its way and there is nothing to do.
//
// The detached job owns the request entirely: its failure is logged, never
// surfaced to the action that scheduled it. If the detacher is torn down
// before the job runs, the acknowledgment is dropped and the spinner times
// out on its own.
func (e *CallbackQuery) scheduleAnswer() {
	if !e.answered.CompareAndSwap(false, true) {
		return
	}

	e.deps.Detach.Schedule(func(ctx context.Context) {
		if err := e.sendAnswer(ctx, AnswerOptions{}); err != nil {
			e.deps.Log.Errorf(
				"Failed to answer callback query %d: %v",
				e.query.QueryID,
				err,
			)
		}
	})
}
