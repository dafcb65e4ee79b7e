package services

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/Kush-Singh-26/texsvg/builder/cache"
	"github.com/Kush-Singh-26/texsvg/builder/mathjax"
)

type mathRenderServiceImpl struct {
	engine Engine
	cache  ArtifactCache
	logger *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMathRenderService wraps engine. artifacts may be nil, in which case
// every call goes to the engine.
func NewMathRenderService(engine Engine, artifacts ArtifactCache, logger *slog.Logger) MathRenderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &mathRenderServiceImpl{
		engine: engine,
		cache:  artifacts,
		logger: logger,
	}
}

func (s *mathRenderServiceImpl) Render(ctx context.Context, tex string, inline bool) (string, error) {
	if s.cache == nil {
		return s.engine.Render(ctx, tex, inline)
	}

	key := cache.ArtifactKey(tex, inline)
	data, ok, err := s.cache.GetSVG(key)
	if err != nil {
		s.logger.Warn("Artifact cache read failed", "key", key, "error", err)
	}
	if ok {
		s.hits.Add(1)
		return string(data), nil
	}
	s.misses.Add(1)

	svg, err := s.engine.Render(ctx, tex, inline)
	if err != nil {
		return "", err
	}

	if err := s.cache.PutSVG(key, mathjax.Fingerprint(tex), inline, []byte(svg)); err != nil {
		s.logger.Warn("Artifact cache write failed", "key", key, "error", err)
	}
	return svg, nil
}

func (s *mathRenderServiceImpl) Stats() (hits, misses int) {
	return int(s.hits.Load()), int(s.misses.Load())
}
