package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

var (
	emitMu sync.RWMutex
	emitFn = func(context.Context, string, Event) {}
)

// Emit dispatches evt to the installed emitter. It is a no-op until an
// emitter is installed.
func Emit(ctx context.Context, name string, evt Event) {
	if evt.RunID == "" {
		evt.RunID = RunFromContext(ctx)
	}
	emitMu.RLock()
	f := emitFn
	emitMu.RUnlock()
	f(ctx, name, evt)
}

// EnableRuntimeEmitter forwards every event to logger and calls onProgress
// for user-facing event types.
func EnableRuntimeEmitter(logger zerolog.Logger, onProgress func(Event)) {
	SetCustomEmitter(func(ctx context.Context, name string, evt Event) {
		logRuntimeEvent(logger, name, evt)
		if onProgress != nil && evt.Type != EventDebug {
			onProgress(evt)
		}
	})
}

// SetCustomEmitter installs f; nil restores the no-op emitter.
func SetCustomEmitter(f func(ctx context.Context, name string, evt Event)) {
	emitMu.Lock()
	defer emitMu.Unlock()
	if f == nil {
		emitFn = func(context.Context, string, Event) {}
		return
	}
	emitFn = f
}
