package services

import (
	"context"

	"github.com/techjobs/backend/internal/logger"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type maintenanceRepository interface {
	Sizes(ctx context.Context) (map[string]int, error)
	Vacuum(ctx context.Context) error
}

// StoreJanitor compacts the storage file on a schedule and reports how big
// each persisted collection has grown. Collections are append-mostly, so the
// sizes are the early warning for runaway growth.
type StoreJanitor struct {
	repo maintenanceRepository
	cron *cron.Cron
}

func NewStoreJanitor(repo maintenanceRepository, spec string) (*StoreJanitor, error) {

	if spec == "" {
		spec = "0 3 * * *"
	}

	j := &StoreJanitor{
		repo: repo,
		cron: cron.New(),
	}

	_, err := j.cron.AddFunc(spec, j.runMaintenance)
	if err != nil {
		return nil, err
	}

	j.cron.Start()
	log.Infof("store janitor started with schedule %q", spec)
	return j, nil
}

func (j *StoreJanitor) Stop() {
	j.cron.Stop()
}

func (j *StoreJanitor) runMaintenance() {

	ctx := context.Background()

	sizes, err := j.repo.Sizes(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to read collection sizes: %v", err)
	} else {
		for name, size := range sizes {
			log.Infof("collection %q occupies %v bytes", name, size)
		}
	}

	if err := j.repo.Vacuum(ctx); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to vacuum storage: %v", err)
		return
	}
	log.Info("storage vacuumed")
}
