package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"lendpool/handler/hc"
	"lendpool/handler/rest"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run lendpool api server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		priceOracle := providePriceOracle()
		poolService := providePoolService()
		accountService := provideAccountService(priceOracle)

		poolStore := providePoolStore(database)
		accountStore := provideAccountStore(database)
		transactionStore := provideTransactionStore(database)
		walletStore := provideWalletStore(database)

		lendingEngine := provideEngine(poolStore, accountStore, transactionStore, accountService, walletStore)
		if err := lendingEngine.Init(ctx); err != nil {
			logrus.WithError(err).Fatal("init engine")
		}

		mux := chi.NewMux()
		mux.Use(middleware.Recoverer)
		mux.Use(middleware.StripSlashes)
		mux.Use(cors.AllowAll().Handler)
		mux.Use(logger.WithRequestID)
		mux.Use(middleware.Logger)
		mux.Use(middleware.NewCompressor(5).Handler)

		{
			//hc
			mux.Mount("/hc", hc.Handle(rootCmd.Version))
		}

		{
			//restful api
			mux.Mount("/api", rest.Handle(lendingEngine, poolService, accountService, transactionStore))
		}

		port, _ := cmd.Flags().GetInt("port")
		if env := os.Getenv("LENDPOOL_PORT"); env != "" {
			port = cast.ToInt(env)
		}
		addr := fmt.Sprintf(":%d", port)

		server := &http.Server{
			Addr:    addr,
			Handler: mux,
		}

		ctx, quit := context.WithCancel(ctx)
		done := make(chan struct{}, 1)
		signal.WithContextFunc(ctx, func() {
			quit()

			ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logrus.WithError(err).Error("graceful shutdown server failed")
			}

			close(done)
		})

		logrus.Infoln("serve at", addr)
		err := server.ListenAndServe()
		if err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server aborted")
		}

		<-done
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 9000, "server port")
}
