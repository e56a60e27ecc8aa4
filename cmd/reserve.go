package cmd

import (
	"fmt"
	"strings"
	"time"

	"lendpool/core"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var addReserveCmd = &cobra.Command{
	Use:     "add-reserve",
	Aliases: []string{"ar"},
	Short:   "list a new asset reserve",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		reserveStore := provideReserveStore(database)

		symbol, _ := cmd.Flags().GetString("symbol")
		assetID, _ := cmd.Flags().GetString("asset")
		if symbol == "" || assetID == "" {
			cmd.PrintErrln("symbol and asset are required")
			return
		}

		if _, err := uuid.FromString(assetID); err != nil {
			cmd.PrintErrln("invalid asset id:", assetID)
			return
		}

		reserve := &core.Reserve{
			AssetID:              assetID,
			Symbol:               strings.ToUpper(symbol),
			Status:               core.ReserveStatusActive,
			SupplyIndex:          decimal.New(1, 0),
			BorrowIndex:          decimal.New(1, 0),
			LastAccruedAt:        time.Now(),
			ReserveFactor:        mustDecimalFlag(cmd, "reserve-factor"),
			BaseRate:             mustDecimalFlag(cmd, "base-rate"),
			Slope1:               mustDecimalFlag(cmd, "slope1"),
			Slope2:               mustDecimalFlag(cmd, "slope2"),
			OptimalUtilization:   mustDecimalFlag(cmd, "kink"),
			LoanToValue:          mustDecimalFlag(cmd, "ltv"),
			LiquidationThreshold: mustDecimalFlag(cmd, "threshold"),
			LiquidationBonus:     mustDecimalFlag(cmd, "bonus"),
			CloseFactor:          mustDecimalFlag(cmd, "close-factor"),
			SupplyCap:            mustDecimalFlag(cmd, "supply-cap"),
			BorrowCap:            mustDecimalFlag(cmd, "borrow-cap"),
		}

		if reserve.LiquidationThreshold.LessThanOrEqual(reserve.LoanToValue) {
			cmd.PrintErrln("threshold must be greater than ltv")
			return
		}

		if err := reserveStore.Save(ctx, database, reserve); err != nil {
			cmd.PrintErrln("save reserve error:", err)
			return
		}

		cmd.Println("reserve listed:", reserve.Symbol, reserve.AssetID)
	},
}

var listReservesCmd = &cobra.Command{
	Use:     "list-reserves",
	Aliases: []string{"lr"},
	Short:   "list all reserves",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		reserveStore := provideReserveStore(database)
		reserveSrv := provideReserveService(reserveStore)

		reserves, err := reserveStore.All(ctx)
		if err != nil {
			cmd.PrintErrln("list reserves error:", err)
			return
		}

		for _, r := range reserves {
			cmd.Println(fmt.Sprintf(
				"%s\t%s\tstatus=%d\tsupplied=%s\tborrowed=%s\tU=%s\tborrow_apy=%s\tsupply_apy=%s",
				r.Symbol,
				r.AssetID,
				r.Status,
				r.TotalSupplied,
				r.TotalBorrowed,
				reserveSrv.CurUtilizationRate(ctx, r),
				reserveSrv.CurBorrowRate(ctx, r),
				reserveSrv.CurSupplyRate(ctx, r),
			))
		}
	},
}

var setReserveStatusCmd = &cobra.Command{
	Use:   "set-reserve-status <symbol> <status>",
	Short: "set reserve status, 1 active / 2 paused",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		reserveStore := provideReserveStore(database)

		reserve, err := reserveStore.FindBySymbol(ctx, strings.ToUpper(args[0]))
		if err != nil || reserve.ID == 0 {
			cmd.PrintErrln("reserve not found:", args[0])
			return
		}

		status := core.ReserveStatus(cast.ToInt(args[1]))
		if status != core.ReserveStatusActive && status != core.ReserveStatusPaused {
			cmd.PrintErrln("invalid status:", args[1])
			return
		}

		reserve.Status = status
		if err := reserveStore.Update(ctx, database, reserve); err != nil {
			cmd.PrintErrln("update reserve error:", err)
			return
		}

		cmd.Println("reserve updated:", reserve.Symbol, "status", status)
	},
}

func mustDecimalFlag(cmd *cobra.Command, name string) decimal.Decimal {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(fmt.Sprintf("invalid %s: %s", name, v))
	}

	return d
}

func init() {
	rootCmd.AddCommand(addReserveCmd)
	rootCmd.AddCommand(listReservesCmd)
	rootCmd.AddCommand(setReserveStatusCmd)

	addReserveCmd.Flags().String("symbol", "", "reserve symbol")
	addReserveCmd.Flags().String("asset", "", "asset id")
	addReserveCmd.Flags().String("reserve-factor", "0.1", "protocol share of interest")
	addReserveCmd.Flags().String("base-rate", "0.02", "base borrow rate per year")
	addReserveCmd.Flags().String("slope1", "0.04", "rate slope below the kink")
	addReserveCmd.Flags().String("slope2", "0.75", "rate slope past the kink")
	addReserveCmd.Flags().String("kink", "0.8", "optimal utilization")
	addReserveCmd.Flags().String("ltv", "0.75", "loan to value")
	addReserveCmd.Flags().String("threshold", "0.8", "liquidation threshold")
	addReserveCmd.Flags().String("bonus", "0.05", "liquidation bonus")
	addReserveCmd.Flags().String("close-factor", "0.5", "max share of debt per liquidation")
	addReserveCmd.Flags().String("supply-cap", "0", "supply cap, 0 for uncapped")
	addReserveCmd.Flags().String("borrow-cap", "0", "borrow cap, 0 for uncapped")
}
