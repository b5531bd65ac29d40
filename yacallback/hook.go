package yacallback

import (
	"bytes"
	"context"

	"github.com/gotd/td/tg"
)

// Handler processes one constructed CallbackQuery event.
type Handler func(ctx context.Context, event *CallbackQuery) error

// Filter decides whether a raw callback query should reach a handler. Filters
// see the raw update so that no event is constructed for queries nobody
// wants.
type Filter func(q *tg.UpdateBotCallbackQuery) bool

// DataEq matches queries whose payload equals data.
//
// Example usage:
//
//	hook.On(buyHandler, yacallback.DataEq("buy"))
func DataEq(data string) Filter {
	return func(q *tg.UpdateBotCallbackQuery) bool {
		return string(q.Data) == data
	}
}

// DataPrefix matches queries whose payload starts with prefix.
//
// Example usage:
//
//	hook.On(pageHandler, yacallback.DataPrefix("page_"))
func DataPrefix(prefix string) Filter {
	return func(q *tg.UpdateBotCallbackQuery) bool {
		return bytes.HasPrefix(q.Data, []byte(prefix))
	}
}

// GamesOnly matches queries originating from game buttons, which carry a game
// short name instead of a data payload.
func GamesOnly() Filter {
	return func(q *tg.UpdateBotCallbackQuery) bool {
		_, ok := q.GetGameShortName()

		return ok
	}
}

// route pairs a handler with the filters gating it.
type route struct {
	filters []Filter
	handler Handler
}

// Hook turns raw bot callback queries into CallbackQuery events and routes
// them to registered handlers. It covers event construction only; anything
// beyond callback queries belongs to the host application's own dispatching.
type Hook struct {
	deps   Dependencies
	routes []route
}

// NewHook creates a Hook that constructs events with the given dependencies.
//
// Example usage:
//
//	hook := yacallback.NewHook(deps)
//	hook.On(buyHandler, yacallback.DataEq("buy"))
//	hook.Bind(&dispatcher)
func NewHook(deps Dependencies) *Hook {
	return &Hook{deps: deps}
}

// On registers a handler with optional filters. A handler with no filters
// receives every callback query.
func (h *Hook) On(handler Handler, filters ...Filter) {
	h.routes = append(h.routes, route{
		filters: filters,
		handler: handler,
	})
}

// Bind subscribes the hook to bot callback queries on the given update
// dispatcher. Call once during setup.
func (h *Hook) Bind(dispatcher *tg.UpdateDispatcher) {
	dispatcher.OnBotCallbackQuery(h.handle)
}

// handle matches the update against registered routes and invokes the first
// handler whose filters all pass.
func (h *Hook) handle(
	ctx context.Context,
	ent tg.Entities,
	q *tg.UpdateBotCallbackQuery,
) error {
	for _, rt := range h.routes {
		if !matchFilters(rt.filters, q) {
			continue
		}

		return rt.handler(ctx, New(q, ent, h.deps))
	}

	return nil
}

func matchFilters(filters []Filter, q *tg.UpdateBotCallbackQuery) bool {
	for _, f := range filters {
		if !f(q) {
			return false
		}
	}

	return true
}
