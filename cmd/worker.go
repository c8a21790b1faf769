package cmd

import (
	"lendpool/worker"
	"lendpool/worker/accrual"
	"lendpool/worker/sentinel"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "lendpool job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		priceOracle := providePriceOracle()
		accountService := provideAccountService(priceOracle)

		poolStore := providePoolStore(database)
		accountStore := provideAccountStore(database)
		transactionStore := provideTransactionStore(database)
		walletStore := provideWalletStore(database)
		propertyStore := providePropertyStore(database)

		lendingEngine := provideEngine(poolStore, accountStore, transactionStore, accountService, walletStore)
		if err := lendingEngine.Init(ctx); err != nil {
			logrus.WithError(err).Fatal("init engine")
		}

		jobs := []worker.IJob{
			accrual.New(provideConfig(), lendingEngine, propertyStore),
			sentinel.New(provideConfig(), lendingEngine, accountStore, accountService),
		}

		ctx = signal.WithContext(ctx)

		var g errgroup.Group
		for _, job := range jobs {
			job := job
			g.Go(func() error {
				if err := job.Start(); err != nil {
					return err
				}

				<-ctx.Done()
				return job.Stop()
			})
		}

		if err := g.Wait(); err != nil {
			logrus.WithError(err).Error("worker aborted")
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
