// GPT-обогащение позиций ТЗ: тип, синонимы и поисковые ключи.
// Отказ сервиса по одной позиции не валит прогон — подставляется
// эвристический ключ и обработка идёт дальше.
package enrich

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"tender-service/internal/tender/model"
)

type Enricher struct {
	analyzer Analyzer
	workers  int
	logger   zerolog.Logger
}

func New(analyzer Analyzer, workers int, logger zerolog.Logger) *Enricher {
	if workers <= 0 {
		workers = 1
	}
	return &Enricher{analyzer: analyzer, workers: workers, logger: logger}
}

// Enrich обогащает позиции, сохраняя их исходный порядок. Вызовы независимы,
// поэтому идут через ограниченный пул воркеров; результат собирается по индексу.
func (e *Enricher) Enrich(ctx context.Context, reqs []model.Requirement) []model.Requirement {
	out := make([]model.Requirement, len(reqs))
	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup

	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req model.Requirement) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			out[i] = e.one(ctx, req)
		}(i, req)
	}
	wg.Wait()
	return out
}

func (e *Enricher) one(ctx context.Context, req model.Requirement) model.Requirement {
	a, err := e.analyzer.Analyze(ctx, req.Name)
	if err != nil {
		e.logger.Warn().Err(err).Str("name", req.Name).Msg("enrichment failed, using fallback key")
		req.Type = model.EnrichFailed
		req.Synonyms = nil
		req.Keys = FallbackKeys(req.Name)
		return req
	}
	req.Type = a.Type
	req.Synonyms = a.Synonyms
	req.Keys = a.Keys
	if len(req.Keys) == 0 {
		req.Keys = FallbackKeys(req.Name)
	}
	return req
}

// FallbackKeys — дешёвый ключ, чтобы сверка не остановилась:
// первый токен наименования.
func FallbackKeys(name string) []string {
	f := strings.Fields(name)
	if len(f) == 0 {
		return nil
	}
	return []string{f[0]}
}
