package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	invservices "github.com/ghuser/possystem/services/inventory/application/services"
	"github.com/ghuser/possystem/services/inventory/domain/models"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Inspect and apply pending stock restores",
}

var reconcileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open reconciliation entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, cleanup, err := bootApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		entries, err := invservices.New(a).Reconciliation.ListOpen(cmd.Context())
		if err != nil {
			return err
		}
		return printReconciliations(cmd.OutOrStdout(), entries)
	},
}

// posctl reconcile apply <id>
// posctl reconcile apply --attempt <attempt-id>
var reconcileApplyCmd = &cobra.Command{
	Use:   "apply [id]",
	Short: "Restore stock for an open entry, or for every entry of an attempt",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		attempt, _ := cmd.Flags().GetString("attempt")
		if (len(args) == 1) == (attempt != "") {
			return fmt.Errorf("pass either an entry id or --attempt")
		}

		a, cleanup, err := bootApp(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		recon := invservices.New(a).Reconciliation

		if attempt != "" {
			attemptID, err := uuid.Parse(attempt)
			if err != nil {
				return fmt.Errorf("invalid attempt id: %w", err)
			}
			n, err := recon.ApplyAttempt(cmd.Context(), attemptID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d entries for attempt %s\n", n, attemptID)
			return nil
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
		e, err := recon.Apply(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "restored %s to material %s\n", e.Amount.String(), e.MaterialID)
		return nil
	},
}

func init() {
	reconcileApplyCmd.Flags().String("attempt", "", "apply every open entry of this placement attempt")
	reconcileCmd.AddCommand(reconcileListCmd, reconcileApplyCmd)
}

func printReconciliations(w io.Writer, entries []*models.Reconciliation) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "no open reconciliations")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tATTEMPT\tMATERIAL\tAMOUNT\tCREATED\tCAUSE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.AttemptID, e.MaterialID, e.Amount.String(),
			e.CreatedAt.UTC().Format("2006-01-02 15:04:05"), e.Cause)
	}
	return tw.Flush()
}
