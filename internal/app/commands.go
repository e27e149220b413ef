package app

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"lightbnb/internal/domain"
)

type SeedReport struct {
	Users, Properties, Reservations, Reviews int64
	Failed                                   int64
}

// SeedService copies the legacy fixture data into a store.
type SeedService struct {
	dst     domain.SeedWriter
	workers int64
}

func NewSeedService(dst domain.SeedWriter, workers int) *SeedService {
	if workers <= 0 {
		workers = 1
	}
	return &SeedService{dst: dst, workers: int64(workers)}
}

// Seed writes ds table by table, parents first so foreign keys hold. Row
// failures are logged and counted; only a context or sequence error stops
// the run.
func (s *SeedService) Seed(ctx context.Context, ds domain.Dataset) (SeedReport, error) {
	var rep SeedReport
	if err := seedAll(ctx, s, "user", ds.Users, s.dst.SeedUser, &rep.Users, &rep.Failed); err != nil {
		return rep, err
	}
	if err := seedAll(ctx, s, "property", ds.Properties, s.dst.SeedProperty, &rep.Properties, &rep.Failed); err != nil {
		return rep, err
	}
	if err := seedAll(ctx, s, "reservation", ds.Reservations, s.dst.SeedReservation, &rep.Reservations, &rep.Failed); err != nil {
		return rep, err
	}
	if err := seedAll(ctx, s, "review", ds.Reviews, s.dst.SeedReview, &rep.Reviews, &rep.Failed); err != nil {
		return rep, err
	}
	if err := s.dst.ResetSequences(ctx); err != nil {
		return rep, err
	}
	return rep, nil
}

func seedAll[T any](ctx context.Context, s *SeedService, kind string, rows []T, write func(context.Context, T) error, ok, failed *int64) error {
	sem := semaphore.NewWeighted(s.workers)
	var wg sync.WaitGroup

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return err
		}
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return err
		}

		wg.Add(1)
		go func(i int, row T) {
			defer wg.Done()
			defer sem.Release(1)

			if err := write(ctx, row); err != nil {
				atomic.AddInt64(failed, 1)
				log.Warn().Err(err).Str("kind", kind).Int("row", i).Msg("seed row failed")
				return
			}
			atomic.AddInt64(ok, 1)
		}(i, row)
	}

	wg.Wait()
	log.Info().Str("kind", kind).Int("rows", len(rows)).Msg("seeded")
	return nil
}
