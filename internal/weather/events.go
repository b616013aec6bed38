package weather

import (
	"log"
	"time"
)

// Events receives resolver notifications. Nil callbacks are skipped.
type Events struct {
	OnCacheHit   func(key string, age time.Duration)
	OnFetchError func(fetcher string, err error)
	OnFallback   func(mode Mode, reason error)
	OnCacheError func(op, key string, err error)
}

// LogEvents returns Events that write every notification to the standard logger.
func LogEvents() Events {
	return Events{
		OnCacheHit: func(key string, age time.Duration) {
			log.Printf("INFO: weather cache hit for %s (age %s)", key, age.Round(time.Second))
		},
		OnFetchError: func(fetcher string, err error) {
			log.Printf("WARN: live forecast from %s failed: %v", fetcher, err)
		},
		OnFallback: func(mode Mode, reason error) {
			log.Printf("INFO: falling back to static forecast (mode=%s): %v", mode, reason)
		},
		OnCacheError: func(op, key string, err error) {
			log.Printf("WARN: weather cache %s for %s failed: %v", op, key, err)
		},
	}
}

func (e Events) cacheHit(key string, age time.Duration) {
	if e.OnCacheHit != nil {
		e.OnCacheHit(key, age)
	}
}

func (e Events) fetchError(fetcher string, err error) {
	if e.OnFetchError != nil {
		e.OnFetchError(fetcher, err)
	}
}

func (e Events) fallback(mode Mode, reason error) {
	if e.OnFallback != nil {
		e.OnFallback(mode, reason)
	}
}

func (e Events) cacheError(op, key string, err error) {
	if e.OnCacheError != nil {
		e.OnCacheError(op, key, err)
	}
}
