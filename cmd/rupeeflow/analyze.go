package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/rupeeflow/rupeeflow/internal/aggregate"
	"github.com/rupeeflow/rupeeflow/internal/cli"
	"github.com/rupeeflow/rupeeflow/internal/model"
	"github.com/rupeeflow/rupeeflow/internal/report"
	"github.com/rupeeflow/rupeeflow/internal/scan"
)

func analyzeCmd() *cobra.Command {
	var (
		vendors   []string
		period    string
		format    string
		folder    string
		output    string
		noSave    bool
		fromStore bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Scan the mailbox and report order spending",
		Long: `Analyze fetches order confirmation emails for each tracked vendor,
extracts the amount paid from each one, and prints monthly and
per-vendor totals. Discovered orders are saved locally so budget
tracking can reuse them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			since, err := periodSince(period, time.Now())
			if err != nil {
				return err
			}

			var orders []model.OrderRecord
			if fromStore {
				if since.IsZero() {
					orders, err = store.GetAllOrders(ctx)
				} else {
					orders, err = store.GetOrdersByPeriod(ctx, since, time.Now())
				}
				if err != nil {
					return fmt.Errorf("failed to load stored orders: %w", err)
				}
			} else {
				scanner, err := newScanner()
				if err != nil {
					return err
				}

				if err := scanner.CheckLogin(ctx); err != nil {
					return fmt.Errorf("mailbox login check failed: %w", err)
				}

				query := scan.Query{
					Since:   since,
					Folder:  folder,
					Vendors: vendors,
				}

				bar := progressbar.NewOptions(scanner.AddressCount(query),
					progressbar.OptionSetDescription("Scanning mailboxes"),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionClearOnFinish(),
				)
				scanner.Progress = func() { _ = bar.Add(1) }

				orders, err = scanner.Scan(ctx, query)
				_ = bar.Finish()
				if err != nil {
					return fmt.Errorf("scan failed: %w", err)
				}

				if !noSave && len(orders) > 0 {
					if err := store.SaveOrders(ctx, orders); err != nil {
						return fmt.Errorf("failed to save orders: %w", err)
					}
				}
			}

			result := aggregate.Aggregate(orders)

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output) //nolint:gosec // user-supplied export path
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer func() { _ = f.Close() }()
				out = f
			}

			switch format {
			case "table":
				fmt.Fprintln(out, cli.RenderReport(result))
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return fmt.Errorf("failed to encode report: %w", err)
				}
			case "csv":
				if err := report.WriteOrdersCSV(out, result.Orders); err != nil {
					return fmt.Errorf("failed to write csv: %w", err)
				}
			default:
				return fmt.Errorf("unknown format %q (want table, json, or csv)", format)
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&vendors, "vendors", defaultVendorLabels(), "vendors to scan")
	cmd.Flags().StringVar(&period, "period", "this-year", "period to scan (this-month, last-30-days, this-year, all)")
	cmd.Flags().StringVar(&format, "format", "table", "output format (table, json, csv)")
	cmd.Flags().StringVar(&folder, "folder", "INBOX", "mailbox folder to scan")
	cmd.Flags().StringVar(&output, "output", "", "write output to a file instead of stdout")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist discovered orders")
	cmd.Flags().BoolVar(&fromStore, "from-store", false, "aggregate previously saved orders without touching the mailbox")

	return cmd
}

func defaultVendorLabels() []string {
	return vendorMap().Labels()
}
