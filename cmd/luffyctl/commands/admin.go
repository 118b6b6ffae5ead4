package commands

import (
	"errors"
	"fmt"

	"github.com/fsdevblog/luffy-streaming/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

const minAdminPasswordLen = 8

type createAdminOptions struct {
	email    string
	password string
	name     string
}

func (o createAdminOptions) validate() error {
	if err := validator.New().Var(o.email, "required,email"); err != nil {
		return fmt.Errorf("invalid --email %q", o.email)
	}
	if len(o.password) < minAdminPasswordLen {
		return fmt.Errorf("--password must be at least %d characters", minAdminPasswordLen)
	}
	if o.name == "" {
		return errors.New("--name must not be empty")
	}
	return nil
}

func newCreateAdminCmd(opts *globalOptions) *cobra.Command {
	var args createAdminOptions

	cmd := &cobra.Command{
		Use:     "create-admin",
		Short:   "Create an admin account or promote an existing user",
		Example: `  luffyctl create-admin --email admin@luffystreaming.com --password 'S3cret!pass' --name Admin`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := args.validate(); err != nil {
				return err
			}
			return withServices(cmd.Context(), opts, func(svc *service.AppServices) error {
				user, err := svc.UserService.EnsureAdmin(cmd.Context(), service.CreateAdminArgs{
					Name:     args.name,
					Email:    args.email,
					Password: args.password,
				})
				if err != nil {
					return err //nolint:wrapcheck
				}
				fmt.Fprintf(cmd.OutOrStdout(), "admin #%d %s ready\n", user.ID, user.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&args.email, "email", "", "Admin email")
	cmd.Flags().StringVar(&args.password, "password", "", "Admin password")
	cmd.Flags().StringVar(&args.name, "name", "Administrador", "Admin display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
