package detail

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/country-explorer/internal/domain"
)

// Source - where detail records come from. Satisfied by the directory client
// and by the API client's country endpoints.
type Source interface {
	LoadDetail(ctx context.Context, code string) (*domain.CountryDetail, error)
	LoadGeometry(ctx context.Context) (*domain.FeatureCollection, error)
}

// Result - a resolved detail view. Boundary is nil when the dataset has no
// polygon for the country or the geometry fetch failed.
type Result struct {
	Detail   *domain.CountryDetail
	Boundary *domain.Feature
}

// Loader fetches per-country detail, discarding responses that arrive after
// the user has already navigated to a different country. Each Load bumps a
// generation counter; a response is delivered only if its generation is still
// the latest.
type Loader struct {
	source Source
	logger *zap.Logger

	mu         sync.Mutex
	generation uint64
}

func NewLoader(source Source, logger *zap.Logger) *Loader {
	return &Loader{source: source, logger: logger}
}

// Load resolves the detail for code and passes it to deliver, unless a newer
// Load or Cancel superseded this call while it was in flight. deliver runs at
// most once and never for a stale response.
func (l *Loader) Load(ctx context.Context, code string, deliver func(Result, error)) {
	l.mu.Lock()
	l.generation++
	gen := l.generation
	l.mu.Unlock()

	var (
		wg       sync.WaitGroup
		detail   *domain.CountryDetail
		detErr   error
		boundary *domain.Feature
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		detail, detErr = l.source.LoadDetail(ctx, code)
	}()
	go func() {
		defer wg.Done()
		fc, err := l.source.LoadGeometry(ctx)
		if err != nil {
			l.logger.Warn("Boundary dataset unavailable", zap.Error(err))
			return
		}
		boundary = fc.FeatureByCode(code)
	}()
	wg.Wait()

	l.mu.Lock()
	stale := gen != l.generation
	l.mu.Unlock()
	if stale {
		l.logger.Debug("Discarding stale detail response", zap.String("code", code))
		return
	}

	if detErr != nil {
		deliver(Result{}, detErr)
		return
	}
	deliver(Result{Detail: detail, Boundary: boundary}, nil)
}

// Cancel invalidates any in-flight Load so its response is discarded. Called
// when the user leaves the detail view.
func (l *Loader) Cancel() {
	l.mu.Lock()
	l.generation++
	l.mu.Unlock()
}
