package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"projectarchitect/internal/events"

	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func (l *eventLog) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Message)
	}
	return out
}

func (l *eventLog) ofType(typ events.EventType) []events.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []events.Event
	for _, e := range l.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// captureEvents installs a recording emitter for the duration of t.
func captureEvents(t *testing.T) *eventLog {
	t.Helper()
	log := &eventLog{}
	events.SetCustomEmitter(func(_ context.Context, _ string, evt events.Event) {
		log.mu.Lock()
		log.events = append(log.events, evt)
		log.mu.Unlock()
	})
	t.Cleanup(func() { events.SetCustomEmitter(nil) })
	return log
}
