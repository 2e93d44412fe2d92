package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/bootstrap"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/config"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/database"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fraudctl: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fraudctl",
		Short: "Fraud report operator CLI",
		Long: `fraudctl reads the configured record store directly, using the same environment
as the server (STORE_DRIVER, REPORTS_DIR, BOLT_PATH, DB_*).`,
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newReportsCmd(),
		newStatsCmd(),
		newHashPasswordCmd(),
	)
	return cmd
}

func newReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Inspect stored reports",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Print all reports as JSON with contact details removed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc *services.ReportService) error {
				reports, err := svc.List(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), reports)
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one complete report, including contact details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc *services.ReportService) error {
				report, err := svc.GetFull(cmd.Context(), args[0])
				if err != nil {
					if services.IsNotFound(err) {
						return fmt.Errorf("report %s not found", args[0])
					}
					return err
				}
				return printJSON(cmd.OutOrStdout(), report)
			})
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print report statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc *services.ReportService) error {
				return printJSON(cmd.OutOrStdout(), svc.Stats(cmd.Context()))
			})
		},
	}
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash suitable for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := services.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

// withService opens the configured store for the duration of fn.
func withService(fn func(svc *services.ReportService) error) error {
	cfg := config.Load()

	var db *gorm.DB
	if cfg.StoreDriver == "postgres" {
		var err error
		db, err = database.Connect(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)
	}

	st, err := bootstrap.OpenStore(cfg, db)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer st.Close()

	return fn(services.NewReportService(st, nil, nil))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
