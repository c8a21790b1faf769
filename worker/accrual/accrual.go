package accrual

import (
	"context"
	"time"

	"lendpool/core"
	"lendpool/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/robfig/cron/v3"
)

const checkpointKey = "accrual_checkpoint"

// Worker accrual worker
//
// Keeps both share prices fresh even when no one is transacting, so that
// read endpoints and the sentinel see current debt.
type Worker struct {
	worker.BaseJob
	Config        *core.Config
	Engine        core.ILendingEngine
	PropertyStore property.Store
}

// New new accrual worker
func New(cfg *core.Config, engine core.ILendingEngine, propertyStore property.Store) *Worker {
	job := Worker{
		Config:        cfg,
		Engine:        engine,
		PropertyStore: propertyStore,
	}

	l, _ := time.LoadLocation(job.Config.App.Location)
	job.Cron = cron.New(cron.WithLocation(l))
	spec := job.Config.Worker.AccrualSpec
	if spec == "" {
		spec = "@every 10s"
	}
	job.Cron.AddFunc(spec, job.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "accrual")

	now := time.Now()
	if err := w.Engine.Accrue(ctx, now); err != nil {
		log.Errorln(err)
		return err
	}

	if err := w.PropertyStore.Save(ctx, checkpointKey, now.Unix()); err != nil {
		log.WithError(err).Errorln("save checkpoint")
	}

	return nil
}
