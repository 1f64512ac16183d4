package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mmynk/dailysplit/internal/models"
	"github.com/mmynk/dailysplit/internal/service"
)

func (a *app) expenseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record, list and delete daily expenses",
	}
	cmd.AddCommand(
		a.expenseAddCommand(),
		a.expenseListCommand(),
		a.expenseDeleteCommand(),
	)
	return cmd
}

func (a *app) expenseAddCommand() *cobra.Command {
	var description, category, date string

	cmd := &cobra.Command{
		Use:   "add AMOUNT",
		Short: "Record something you paid for",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.authed(func(cmd *cobra.Command, args []string) error {
		amount, err := decimal.NewFromString(args[0])
		if err != nil {
			return &service.ValidationError{Field: "amount", Reason: "must be a number"}
		}

		req := service.AddExpenseRequest{
			Amount:      amount,
			Description: description,
			Category:    models.Category(category),
		}
		if date != "" {
			d, err := models.ParseDate(date)
			if err != nil {
				return &service.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
			}
			req.Date = d
		}

		e, err := a.session.AddExpense(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s for %q on %s (%s)\n",
			money(e.Amount, a.cfg.Report.Currency), e.Description, e.Date, e.ID)
		return nil
	})

	cmd.Flags().StringVarP(&description, "description", "d", "", "what the money was spent on")
	cmd.Flags().StringVarP(&category, "category", "c", "", "food, transport, entertainment, shopping, utilities, medicine or other")
	cmd.Flags().StringVar(&date, "date", "", "date of the expense, YYYY-MM-DD (default today)")
	return cmd
}

func (a *app) expenseListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the active group's expenses, newest first",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.authed(func(cmd *cobra.Command, _ []string) error {
		g, err := a.session.ActiveGroup()
		if err != nil {
			return err
		}
		expenses, err := a.session.ListExpenses()
		if err != nil {
			return err
		}

		tw := newTable(cmd.OutOrStdout())
		row(tw, "DATE", "MEMBER", "CATEGORY", "AMOUNT", "DESCRIPTION", "ID")
		for _, e := range expenses {
			name := e.UserID
			if m, ok := g.Member(e.UserID); ok {
				name = m.Name
			}
			row(tw, e.Date.String(), name, string(e.Category), money(e.Amount, a.cfg.Report.Currency), e.Description, e.ID)
		}
		return tw.Flush()
	})
	return cmd
}

func (a *app) expenseDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete EXPENSE_ID",
		Short: "Delete one of your expenses (admins may delete any)",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.authed(func(cmd *cobra.Command, args []string) error {
		if err := a.session.DeleteExpense(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Expense deleted")
		return nil
	})
	return cmd
}
