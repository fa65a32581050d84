package main

import (
	"context"
	"fmt"
	"os"

	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/spf13/cobra"
)

var (
	syncFull bool
	syncPage bool
)

func init() {
	syncCmd.Flags().BoolVar(&syncFull, "full", false, "run (or resume) the full history backfill")
	syncCmd.Flags().BoolVar(&syncPage, "page", false, "process a single backfill page and exit")
	rootCmd.AddCommand(syncCmd, recalcCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one sync pass and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, db, syncCtrl, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()

		if syncPage {
			done, err := syncCtrl.ContinuePage(ctx)
			if err != nil {
				return err
			}
			state, err := db.GetSyncState()
			if err != nil {
				return err
			}
			switch {
			case done && state.Status == models.SyncStatusDone:
				fmt.Fprintln(os.Stdout, "Full history sync is complete.")
			case done:
				fmt.Fprintln(os.Stdout, "No full sync in progress. Start one with --full.")
			default:
				fmt.Fprintf(os.Stdout, "Processed one page, %d remaining.\n", state.RemainingPages)
			}
			return nil
		}

		if syncFull {
			msg, err := syncCtrl.RunFullSync(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, msg)
			return nil
		}

		return syncCtrl.RunIncremental(ctx)
	},
}

var recalcCmd = &cobra.Command{
	Use:   "recalc-runtime",
	Short: "Recompute every show's total watched minutes from scratch",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, db, syncCtrl, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.Close()

		msg, err := syncCtrl.RecalculateAllRuntimes(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, msg)
		return nil
	},
}
