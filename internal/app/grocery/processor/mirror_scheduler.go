package processor

import (
	"context"

	"greenbasket/internal/app/grocery/storage"
	"greenbasket/pkg/logger"
	"greenbasket/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// MirrorScheduler периодически переписывает локальное зеркало из
// основного хранилища, чтобы оно сходилось даже без трафика
type MirrorScheduler struct {
	cron  *cron.Cron
	store storage.Store
}

func NewMirrorScheduler(store storage.Store) *MirrorScheduler {
	return &MirrorScheduler{
		cron:  cron.New(),
		store: store,
	}
}

func (s *MirrorScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting mirror sync scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		s.runSync(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()

	// Первый прогон сразу: зеркало наполняется до прихода трафика
	s.runSync(ctx)

	return nil
}

func (s *MirrorScheduler) runSync(ctx context.Context) {
	if err := s.store.SyncMirror(ctx); err != nil {
		metrics.MirrorSyncRuns.WithLabelValues("failed").Inc()
		logger.Error().Err(err).Msg("Mirror sync failed")
		return
	}

	metrics.MirrorSyncRuns.WithLabelValues("success").Inc()
	logger.Info().Msg("Mirror sync completed")
}

func (s *MirrorScheduler) Stop() {
	logger.Info().Msg("Stopping mirror sync scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
}
