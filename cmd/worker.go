package cmd

import (
	"sync"

	"lendpool/worker"
	"lendpool/worker/cashier"
	"lendpool/worker/pricesync"
	"lendpool/worker/scanner"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
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

		propertyStore := providePropertyStore(database)
		reserveStore := provideReserveStore(database)
		positionStore := providePositionStore(database)
		collateralStore := provideCollateralStore(database)
		priceStore := providePriceStore(database)
		accountStore := provideAccountStore(database)
		transferStore := provideTransferStore(database)

		priceSrv := providePriceService(priceStore)
		walletSrv := provideWalletService()
		healthSrv := provideHealthService(positionStore, collateralStore, reserveStore, priceSrv)

		spec, _ := cmd.Flags().GetString("price-spec")

		workers := []worker.Worker{
			cashier.New(transferStore, walletSrv, cashier.Config{
				Batch:    cfg.Cashier.Batch,
				Capacity: cfg.Cashier.Capacity,
			}),
			pricesync.New(cfg.App.Location, spec, database, reserveStore, priceStore, priceSrv, propertyStore),
			scanner.New(positionStore, accountStore, healthSrv, cfg.Cashier.Capacity),
		}

		wg := sync.WaitGroup{}
		for _, w := range workers {
			wg.Add(1)

			go func(worker worker.Worker) {
				defer wg.Done()
				_ = worker.Run(ctx)
			}(w)
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
	workerCmd.Flags().String("price-spec", "@every 30s", "cron spec for the price sync worker")
}
