package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/rupeeflow/rupeeflow/internal/aggregate"
	"github.com/rupeeflow/rupeeflow/internal/alert"
	"github.com/rupeeflow/rupeeflow/internal/model"
	"github.com/rupeeflow/rupeeflow/internal/monitor"
	"github.com/rupeeflow/rupeeflow/internal/service"
	"github.com/rupeeflow/rupeeflow/internal/storage"
)

func monitorCmd() *cobra.Command {
	var (
		email    string
		folder   string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Watch the mailbox for new orders and alert on budget overruns",
		Long: `Monitor polls the mailbox on a fixed interval, saves newly discovered
orders, and re-evaluates the monthly budget after every cycle. When
spending crosses the alert threshold an alert is sent, at most once
per day.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			state, err := store.GetBudgetState(ctx, email)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return fmt.Errorf("no budget set for %s (run 'rupeeflow budget set' first)", email)
				}
				return fmt.Errorf("failed to load budget state: %w", err)
			}

			scanner, err := newScanner()
			if err != nil {
				return err
			}

			// Fail fast on bad credentials rather than logging a fetch
			// failure every interval.
			if err := scanner.CheckLogin(ctx); err != nil {
				return fmt.Errorf("mailbox login check failed: %w", err)
			}

			sender, err := newAlertSender(ctx)
			if err != nil {
				return err
			}

			m := monitor.New(scanner, store, email, state.Vendors, folder, slog.Default())
			m.OnCycle = func(cycleCtx context.Context, discovered []model.OrderRecord) {
				evaluateBudgetCycle(cycleCtx, store, sender, email, len(discovered))
			}

			slog.Info("monitor starting", "email", email, "vendors", state.Vendors, "interval", interval, "alerts", sender.Name())
			m.Start(interval)

			<-ctx.Done()
			slog.Info("monitor stopping")
			m.Stop()

			slog.Info("monitor stopped", "orders_discovered", m.Buffer().Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "mailbox the budget applies to")
	cmd.Flags().StringVar(&folder, "folder", "INBOX", "mailbox folder to watch")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Minute, "polling interval")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// evaluateBudgetCycle re-aggregates the current month from storage and
// sends a debounced alert when the threshold is crossed. Every failure is
// logged and swallowed so the polling loop keeps running.
func evaluateBudgetCycle(ctx context.Context, store service.Storage, sender alert.Sender, email string, discovered int) {
	now := time.Now()

	state, err := store.GetBudgetState(ctx, email)
	if err != nil {
		slog.Warn("budget evaluation skipped", "err", err)
		return
	}

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	orders, err := store.GetOrdersByPeriod(ctx, start, start.AddDate(0, 1, 0))
	if err != nil {
		slog.Warn("failed to load month orders", "err", err)
		return
	}

	result := aggregate.Aggregate(orders)
	status := aggregate.EvaluateBudget(result.TotalSpent, state.Budget)

	state.SpentThisPeriod = result.TotalSpent
	state.LastUpdated = now

	if aggregate.AlertDue(status, state.LastAlert, now) {
		a := alert.Alert{To: email, Status: status}
		if err := sender.Send(ctx, a); err != nil {
			slog.Warn("alert delivery failed", "provider", sender.Name(), "err", err)
		} else {
			state.LastAlert = &now
			slog.Info("budget alert sent", "provider", sender.Name(), "percentage", status.Percentage)
		}
	}

	if err := store.SaveBudgetState(ctx, state); err != nil {
		slog.Warn("failed to persist budget state", "err", err)
	}

	slog.Info("cycle complete", "discovered", discovered, "spent", result.TotalSpent, "percentage", status.Percentage)
}
