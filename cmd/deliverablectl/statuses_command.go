package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusesCommand(ctx *commandContext) *cobra.Command {
	var campaignID string

	cmd := &cobra.Command{
		Use:   "statuses",
		Short: "Show the aggregated status of every creator in a campaign",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(campaignID) == "" {
				return errors.New("--campaign is required")
			}
			app, err := ctx.ensureApp()
			if err != nil {
				return err
			}
			resp, err := app.module.Handler.CreatorStatusesHandler(cmd.Context(), app.actor, campaignID)
			if err != nil {
				return fmt.Errorf("load creator statuses: %w", err)
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}
			if len(resp.Items) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No creators found for campaign %s\n", resp.CampaignID)
				return nil
			}

			rows := make([][]string, 0, len(resp.Items))
			for _, item := range resp.Items {
				rows = append(rows, []string{
					item.CreatorID,
					item.WorkflowVariant,
					item.Status,
					valueOrDash(item.ActionableStage),
					strconv.Itoa(len(item.Stages)),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Creator", "Variant", "Status", "Actionable", "Stages"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))

			statuses := make([]string, 0, len(resp.Counts))
			for status := range resp.Counts {
				statuses = append(statuses, status)
			}
			sort.Strings(statuses)
			summary := make([]string, 0, len(statuses))
			for _, status := range statuses {
				summary = append(summary, fmt.Sprintf("%s=%d", status, resp.Counts[status]))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Totals: %s\n", strings.Join(summary, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&campaignID, "campaign", "", "Campaign id")
	return cmd
}
