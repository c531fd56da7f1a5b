package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/confiance/confiance-go/apiclient"
	"github.com/confiance/confiance-go/authctx"
	"github.com/confiance/confiance-go/internal/config"
	"github.com/confiance/confiance-go/internal/logging"
	"github.com/confiance/confiance-go/investments"
	"github.com/confiance/confiance-go/portfolio"
	"github.com/confiance/confiance-go/session"
	"github.com/confiance/confiance-go/tokens"
	"github.com/confiance/confiance-go/tokenstore"
	"github.com/confiance/confiance-go/transactions"
)

// app holds the wired-up SDK for command handlers.
type app struct {
	cfg      *config.Config
	store    tokenstore.Store
	client   *apiclient.Client
	session  *session.Service
	provider *authctx.Provider
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.Logs.Enabled)
	tokens.Logger = logger.With().Str("component", "tokens").Logger()

	store, err := tokenstore.NewFileStore(cfg.Store.Dir, cfg.Store.Secret, logger)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}

	client, err := apiclient.New(cfg.API.BaseURL, store,
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithLogger(logger),
		apiclient.WithNavigator(apiclient.NavigatorFunc(func(path string) {
			fmt.Fprintf(os.Stderr, "session ended, sign in again (%s)\n", path)
		})),
	)
	if err != nil {
		return nil, fmt.Errorf("build api client: %w", err)
	}

	svc, err := session.New(client, store, session.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("build session service: %w", err)
	}

	provider, err := authctx.NewProvider(svc, store)
	if err != nil {
		return nil, fmt.Errorf("build auth provider: %w", err)
	}
	provider.Init()

	return &app{cfg: cfg, store: store, client: client, session: svc, provider: provider}, nil
}

func main() {
	root := &cobra.Command{
		Use:           "confiance",
		Short:         "Confiance financial platform client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		loginCmd(),
		logoutCmd(),
		whoamiCmd(),
		investmentsCmd(),
		transactionsCmd(),
		portfolioCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and cache credentials locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			figure.NewFigure(a.cfg.App.Name, "cybermedium", true).Print()
			fmt.Println()

			result := a.provider.Login(cmd.Context(), email, password)
			if !result.Success {
				return fmt.Errorf("login failed: %s", result.Message)
			}
			if user := result.Data.User; user != nil {
				fmt.Printf("Signed in as %s (%s)\n", user.Name, user.Email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and clear cached credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			a.provider.Logout(cmd.Context())
			fmt.Println("Signed out")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user, roles, and permissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			snap := a.provider.Snapshot()
			if !snap.IsAuthenticated || snap.User == nil {
				return fmt.Errorf("not signed in")
			}
			fmt.Printf("User:        %s (%s)\n", snap.User.Name, snap.User.Email)
			fmt.Printf("Roles:       %v\n", snap.User.Roles)
			fmt.Printf("Permissions: %v\n", snap.User.Permissions)
			fmt.Printf("Admin:       %t\n", a.provider.IsAdmin())
			return nil
		},
	}
}

func investmentsCmd() *cobra.Command {
	var page, size int

	cmd := &cobra.Command{
		Use:   "investments",
		Short: "List investment products",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			listing, err := investments.New(a.client).List(cmd.Context(), page, size)
			if err != nil {
				return err
			}
			for _, inv := range listing.Content {
				fmt.Printf("%6d  %-24s %-12s %-10s %12.2f\n", inv.ID, inv.Name, inv.Type, inv.Status, inv.Amount)
			}
			fmt.Printf("%d of %d\n", len(listing.Content), listing.TotalElements)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", apiclient.DefaultPage, "page number")
	cmd.Flags().IntVar(&size, "size", apiclient.DefaultSize, "page size")
	return cmd
}

func transactionsCmd() *cobra.Command {
	var page, size int

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List the current user's transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			user := a.session.CurrentUser()
			if user == nil {
				return fmt.Errorf("not signed in")
			}

			listing, err := transactions.New(a.client).ListForUser(cmd.Context(), user.ID, page, size)
			if err != nil {
				return err
			}
			for _, txn := range listing.Content {
				fmt.Printf("%6d  %-12s %-10s %12.2f  %s\n", txn.ID, txn.Type, txn.Status, txn.Amount, txn.CreatedAt)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", apiclient.DefaultPage, "page number")
	cmd.Flags().IntVar(&size, "size", apiclient.DefaultSize, "page size")
	return cmd
}

func portfolioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "Show the current user's portfolio summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			user := a.session.CurrentUser()
			if user == nil {
				return fmt.Errorf("not signed in")
			}

			p, err := portfolio.New(a.client).ForUser(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			m := portfolio.ComputeMetrics(p)
			fmt.Printf("Invested:  %12.2f\n", m.TotalInvested)
			fmt.Printf("Value:     %12.2f\n", m.CurrentValue)
			fmt.Printf("Returns:   %12.2f (%.2f%%)\n", m.TotalReturns, m.ReturnsPercentage)
			return nil
		},
	}
}
