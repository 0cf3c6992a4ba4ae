package asyncio

import "go.uber.org/zap"

// ZapSink is an EventSink backed by go.uber.org/zap.
type ZapSink struct {
	log *zap.Logger
}

// NewZapSink wraps log as an EventSink. A nil log falls back to
// zap.NewNop, so a zero-value ZapSink never panics.
func NewZapSink(log *zap.Logger) ZapSink {
	if log == nil {
		log = zap.NewNop()
	}
	return ZapSink{log: log}
}

// Event implements EventSink.
func (s ZapSink) Event(kind EventKind, frameID uint64, fields ...any) {
	if s.log == nil {
		return
	}
	zf := make([]zap.Field, 0, 1+len(fields)/2)
	zf = append(zf, zap.Uint64("frame_id", frameID))
	for i := 0; i+1 < len(fields); i += 2 {
		key, _ := fields[i].(string)
		zf = append(zf, zap.Any(key, fields[i+1]))
	}
	s.log.Debug(kind.String(), zf...)
}
