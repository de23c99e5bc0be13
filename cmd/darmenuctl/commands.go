package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"darmenu/internal/auth"
	"darmenu/internal/config"
	"darmenu/internal/core"
	"darmenu/internal/menu"
	"darmenu/internal/tables"
)

func migrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			pool.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func createAdminCmd(a *app) *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account or promote an existing one",
		Long: `Create an admin account or promote an existing one.

An existing profile with the same email keeps its password and is only
promoted to the admin user type.

Examples:
  darmenuctl create-admin --email owner@example.com --password s3cret!! --name "Owner"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.JWTSecret == "" {
				return fmt.Errorf("%w: JWT_SECRET", config.ErrMissingSetting)
			}
			pool, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			tokens, err := auth.NewTokenManager(a.cfg.JWTSecret, a.cfg.JWTTTL)
			if err != nil {
				return err
			}
			svc := auth.NewService(auth.NewPostgresUserRepository(pool), tokens)

			user, err := svc.EnsureAdmin(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "password for a new account")
	cmd.Flags().StringVar(&name, "name", "Admin", "full name for a new account")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func seedMenuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-menu [file.yaml]",
		Short: "Create dishes from a YAML seed file",
		Long: `Create dishes from a YAML seed file.

Dishes whose name already exists are skipped, so the command can be
re-run safely.

Example file:
  dishes:
    - name: Tagine
      price: 85
      category: Mains
      stock: 12`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			items, err := menu.LoadSeed(f)
			if err != nil {
				return err
			}

			pool, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := menu.NewService(menu.NewPostgresRepository(pool), nil, core.NopNotifier{}, a.cfg.Currency)
			res, err := svc.Seed(cmd.Context(), items)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d\n", res.Created, res.Skipped)
			return nil
		},
	}
}

func tableLinksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "table-links",
		Short: "Print the QR deep link of every table in service",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := tables.NewService(tables.NewPostgresRepository(pool), nil, a.cfg.PublicBaseURL)
			links, err := svc.Links(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "LABEL\tURL")
			for _, l := range links {
				fmt.Fprintf(w, "%s\t%s\n", l.Label, l.URL)
			}
			return w.Flush()
		},
	}
}
