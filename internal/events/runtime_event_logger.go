package events

import "github.com/rs/zerolog"

func logRuntimeEvent(logger zerolog.Logger, name string, event Event) {
	var e *zerolog.Event
	switch event.Type {
	case EventError:
		e = logger.Error()
	case EventWarn:
		e = logger.Warn()
	case EventDebug:
		e = logger.Debug()
	default:
		e = logger.Info()
	}
	e = e.Str("event", name).Str("type", string(event.Type))
	if event.RunID != "" {
		e = e.Str("run", event.RunID)
	}
	for k, v := range event.Metadata {
		e = e.Str(k, v)
	}
	e.Msg(event.Message)
}
