package clipcache

import (
	"context"
	"log/slog"

	"kslingo/internal/audioplan"
	"kslingo/internal/logging"
)

// Cached serves clips from the store and falls back to the wrapped
// synthesizer on a miss. Cache failures are logged and never fail synthesis.
type Cached struct {
	store  *Store
	inner  audioplan.Synthesizer
	logger *slog.Logger
}

// NewCached wraps inner with the cache in store.
func NewCached(store *Store, inner audioplan.Synthesizer, logger *slog.Logger) *Cached {
	return &Cached{store: store, inner: inner, logger: logging.NewComponentLogger(logger, "clipcache")}
}

// Synthesize implements audioplan.Synthesizer.
func (c *Cached) Synthesize(ctx context.Context, text, lang string) (audioplan.Clip, error) {
	entry, ok, err := c.store.Lookup(ctx, lang, text)
	if err != nil {
		logging.WarnWithContext(c.logger, "clip cache lookup failed", "clip_cache_lookup_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "clip synthesized again"),
			logging.String(logging.FieldErrorHint, "run kslingo cache clear if this repeats"),
		)
	}
	if ok {
		c.logger.Debug("clip cache hit", logging.Lang(lang), logging.Int("hits", entry.Hits))
		return audioplan.Clip{Path: entry.Path}, nil
	}

	clip, err := c.inner.Synthesize(ctx, text, lang)
	if err != nil {
		return audioplan.Clip{}, err
	}
	if _, err := c.store.Put(ctx, lang, text, clip.Path); err != nil {
		logging.WarnWithContext(c.logger, "clip cache store failed", "clip_cache_store_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "clip will be synthesized again next run"),
			logging.String(logging.FieldErrorHint, "check cache_dir permissions and free space"),
		)
	}
	return clip, nil
}
