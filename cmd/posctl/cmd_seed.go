package main

import (
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	catalogsvcs "github.com/ghuser/possystem/services/catalog/application/services"
	identitysvcs "github.com/ghuser/possystem/services/identity/application/services"
	invservices "github.com/ghuser/possystem/services/inventory/application/services"
	ordersvcs "github.com/ghuser/possystem/services/order/application/services"
)

// posctl seed [--orders 20]
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill an empty database with demo users, materials, products and orders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		orders, _ := cmd.Flags().GetInt("orders")

		a, cleanup, err := bootApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		inventory := invservices.New(a)
		catalog := catalogsvcs.New(a)
		seed := uint64(time.Now().UnixNano())
		s := &seeder{
			materials:  inventory.Material,
			categories: catalog.Category,
			products:   catalog.Product,
			users:      identitysvcs.New(a).Auth,
			placement:  ordersvcs.New(a, inventory).Placement,
			out:        cmd.OutOrStdout(),
			rng:        rand.New(rand.NewPCG(seed, seed)),
		}
		_, err = s.run(cmd.Context(), orders)
		return err
	},
}

func init() {
	seedCmd.Flags().Int("orders", 20, "number of random orders to place after seeding")
}
