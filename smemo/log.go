package smemo

import (
	"go.uber.org/zap"

	"github.com/on-the-ground/smemo_go/smemo/internal/cachekey"
)

// Log messages emitted at debug level. Tests and log pipelines match on them.
const (
	LogHit            = "cache hit"
	LogMiss           = "cache miss"
	LogStore          = "cache store"
	LogStoreSkipped   = "cache store skipped"
	LogCallSkipped    = "call skipped"
	LogInvalidate     = "invalidate"
	LogInvalidateAll  = "invalidate all"
	LogInvalidatePKey = "invalidate by pkey"
	LogNoCacheEnter   = "nocache enter"
	LogNoCacheExit    = "nocache exit"
)

func (s *Session) debug(msg string, fields ...zap.Field) {
	ce := s.logger.Check(zap.DebugLevel, msg)
	if ce == nil {
		return
	}
	ce.Write(append([]zap.Field{zap.String("session", s.id)}, fields...)...)
}

func bindingField(b *Binding) zap.Field {
	return zap.String("binding", b.Name())
}

func keyField(key cachekey.Key) zap.Field {
	return zap.Stringer("key", key)
}

func simpleKeyField() zap.Field {
	return zap.String("key", "simple")
}
