package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rupeeflow/rupeeflow/internal/aggregate"
	"github.com/rupeeflow/rupeeflow/internal/alert"
	"github.com/rupeeflow/rupeeflow/internal/cli"
	"github.com/rupeeflow/rupeeflow/internal/model"
	"github.com/rupeeflow/rupeeflow/internal/storage"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage the monthly spending budget",
	}

	cmd.AddCommand(budgetSetCmd())
	cmd.AddCommand(budgetStatusCmd())

	return cmd
}

func budgetSetCmd() *cobra.Command {
	var (
		amount  float64
		vendors []string
		email   string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the monthly budget for a mailbox",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			state := &model.BudgetState{
				Email:       email,
				Budget:      amount,
				Vendors:     vendors,
				LastUpdated: time.Now(),
			}

			// Setting a new budget keeps the existing alert history so a
			// user over threshold is not immediately re-alerted.
			if existing, err := store.GetBudgetState(ctx, email); err == nil {
				state.LastAlert = existing.LastAlert
				state.SpentThisPeriod = existing.SpentThisPeriod
			} else if !errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("failed to load budget state: %w", err)
			}

			if err := store.SaveBudgetState(ctx, state); err != nil {
				return fmt.Errorf("failed to save budget: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Monthly budget for %s set to ₹%.2f", email, amount)))
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "monthly budget in rupees")
	cmd.Flags().StringSliceVar(&vendors, "vendors", defaultVendorLabels(), "vendors the budget tracks")
	cmd.Flags().StringVar(&email, "email", "", "mailbox the budget applies to")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func budgetStatusCmd() *cobra.Command {
	var (
		email     string
		sendAlert bool
		rescan    bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show current-month spending against the budget",
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

			now := time.Now()

			if rescan {
				scanner, err := newScanner()
				if err != nil {
					return err
				}
				orders, err := scanner.Scan(ctx, monthQuery(state.Vendors, now))
				if err != nil {
					return fmt.Errorf("scan failed: %w", err)
				}
				if len(orders) > 0 {
					if err := store.SaveOrders(ctx, orders); err != nil {
						return fmt.Errorf("failed to save orders: %w", err)
					}
				}
			}

			start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
			orders, err := store.GetOrdersByPeriod(ctx, start, start.AddDate(0, 1, 0))
			if err != nil {
				return fmt.Errorf("failed to load orders: %w", err)
			}

			result := aggregate.Aggregate(orders)
			status := aggregate.EvaluateBudget(result.TotalSpent, state.Budget)

			state.SpentThisPeriod = result.TotalSpent
			state.LastUpdated = now

			fmt.Println(cli.RenderBudgetStatus(status))

			if sendAlert && aggregate.AlertDue(status, state.LastAlert, now) {
				sender, err := newAlertSender(ctx)
				if err != nil {
					return err
				}
				a := alert.Alert{To: email, Status: status}
				if err := sender.Send(ctx, a); err != nil {
					fmt.Println(cli.FormatWarning(fmt.Sprintf("alert delivery via %s failed: %v", sender.Name(), err)))
				} else {
					state.LastAlert = &now
					fmt.Println(cli.FormatSuccess(fmt.Sprintf("Budget alert sent via %s", sender.Name())))
				}
			}

			if err := store.SaveBudgetState(ctx, state); err != nil {
				return fmt.Errorf("failed to save budget state: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "mailbox the budget applies to")
	cmd.Flags().BoolVar(&sendAlert, "alert", false, "send a budget alert if the threshold is crossed")
	cmd.Flags().BoolVar(&rescan, "rescan", false, "re-scan the mailbox before evaluating")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
