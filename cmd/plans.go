package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Manage the plan catalog",
}

var plansSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Store catalog plans and create missing provider products and prices",
	Run: func(_ *cobra.Command, _ []string) {
		cfg := mustLoadConfig()
		db := mustOpenDB(cfg)
		defer closeDB(db)

		svc := mustCreateServices(cfg, db)
		runJob("plans_seed", func() error {
			result, err := svc.plan.Seed(context.Background())
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"plans":            result.Plans,
				"created_products": result.CreatedProducts,
				"created_prices":   result.CreatedPrices,
			}).Info("Plan catalog seeded")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(plansCmd)
	plansCmd.AddCommand(plansSeedCmd)
}
