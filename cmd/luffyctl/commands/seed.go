package commands

import (
	"errors"
	"fmt"

	"github.com/fsdevblog/luffy-streaming/internal/seed"
	"github.com/fsdevblog/luffy-streaming/internal/service"
	"github.com/spf13/cobra"
)

func newSeedCmd(opts *globalOptions) *cobra.Command {
	var credentials int

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty database with demo data",
		Long: `Creates the demo admin, users, the AFF001 affiliate with referred users, products with
credential pools, approved recharges, sample orders and system configuration.

The command refuses to run when products already exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd.Context(), opts, func(svc *service.AppServices) error {
				seeder := seed.New(seed.Services{
					Users:      svc.UserService,
					Affiliates: svc.AffiliateService,
					Products:   svc.ProductService,
					Recharges:  svc.RechargeService,
					Orders:     svc.OrderService,
					Configs:    svc.ConfigService,
				}, opts.log).SetCredentialsPerProduct(credentials)

				summary, err := seeder.Run(cmd.Context())
				if errors.Is(err, seed.ErrAlreadySeeded) {
					fmt.Fprintln(cmd.OutOrStdout(), "database already seeded, nothing to do")
					return nil
				}
				if err != nil {
					return err //nolint:wrapcheck
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "users: %d\nproducts: %d\ncredentials: %d\nrecharges: %d\norders: %d\nconfigs: %d\n",
					summary.Users, summary.Products, summary.Credentials,
					summary.Recharges, summary.Orders, summary.Configs)
				fmt.Fprintf(out, "admin: %s / %s\n", seed.DefaultAdmin.Email, seed.DefaultAdmin.Password)
				return nil
			})
		},
	}

	seedCmd.Flags().IntVar(&credentials, "credentials", 10, "Credentials added to each product pool")
	return seedCmd
}
