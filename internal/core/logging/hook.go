package logging

import (
	"github.com/rs/zerolog"
)

// contextFields are copied, in this order, from an event's context onto the
// event. Each key's string form is the emitted field name.
var contextFields = []contextKey{toastIDKey, requestIDKey}

// ContextHook adds the toast and request ids carried by ctx to any event
// logged with .Ctx(ctx). Install it on the root logger.
type ContextHook struct{}

// Run implements zerolog.Hook.
func (ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil {
		return
	}

	for _, key := range contextFields {
		if v, _ := ctx.Value(key).(string); v != "" {
			e.Str(string(key), v)
		}
	}
}
