package sentinel

import (
	"context"
	"time"

	"lendpool/core"
	"lendpool/pkg/fixedpoint"
	"lendpool/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Worker sentinel worker
//
// Scans borrower accounts against the latest oracle price and flags the
// ones below the liquidation threshold. Seizure itself stays a caller
// decision, the sentinel only surfaces candidates.
type Worker struct {
	worker.BaseJob
	Config         *core.Config
	Engine         core.ILendingEngine
	AccountStore   core.IAccountStore
	AccountService core.IAccountService
}

// New new sentinel worker
func New(cfg *core.Config,
	engine core.ILendingEngine,
	accountStore core.IAccountStore,
	accountService core.IAccountService) *Worker {
	job := Worker{
		Config:         cfg,
		Engine:         engine,
		AccountStore:   accountStore,
		AccountService: accountService,
	}

	l, _ := time.LoadLocation(job.Config.App.Location)
	job.Cron = cron.New(cron.WithLocation(l))
	spec := job.Config.Worker.SentinelSpec
	if spec == "" {
		spec = "@every 30s"
	}
	job.Cron.AddFunc(spec, job.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "sentinel")

	pool, err := w.Engine.Pool(ctx)
	if err != nil {
		log.Errorln(err)
		return err
	}

	accounts, err := w.AccountStore.All(ctx)
	if err != nil {
		log.Errorln(err)
		return err
	}

	for _, account := range accounts {
		if account.BorrowerShares.IsZero() {
			continue
		}

		liquidatable, err := w.AccountService.CanLiquidate(ctx, account, pool)
		if err != nil {
			log.WithField("address", account.Address).Errorln(err)
			continue
		}

		if !liquidatable {
			continue
		}

		ratio, err := w.AccountService.CollateralizationRatio(ctx, account, pool)
		if err != nil {
			log.WithField("address", account.Address).Errorln(err)
			continue
		}

		log.WithField("address", account.Address).
			WithField("ratio", fixedpoint.ToDecimal(ratio)).
			Infoln("account below liquidation threshold")
	}

	return nil
}
