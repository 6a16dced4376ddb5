package main

import (
	"errors"
	"fmt"
	"strings"

	deliverablehttp "deliverables/contexts/campaign-editorial/deliverable-review-service/transport/http"

	"github.com/spf13/cobra"
)

func newUnlockCommand(ctx *commandContext) *cobra.Command {
	var submissionID string
	var dueDate string

	cmd := &cobra.Command{
		Use:   "unlock",
		Short: "Retry opening the next stage after a committed review",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(submissionID) == "" {
				return errors.New("--submission is required")
			}
			app, err := ctx.ensureApp()
			if err != nil {
				return err
			}
			resp, err := app.module.Handler.RetryUnlockHandler(cmd.Context(), app.actor, submissionID, deliverablehttp.UnlockRequest{
				DueDate: dueDate,
			})
			if err != nil {
				return fmt.Errorf("unlock next stage: %w", err)
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}
			if resp.Unlocked == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing to unlock for %s (%s %s)\n",
					resp.Submission.SubmissionID, resp.Submission.SubmissionType, resp.Submission.Status)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unlocked %s %s for creator %s, due %s\n",
				resp.Unlocked.SubmissionType,
				resp.Unlocked.SubmissionID,
				resp.Unlocked.CreatorID,
				valueOrDash(resp.Unlocked.DueDate),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&submissionID, "submission", "", "Submission id whose review should unlock the next stage")
	cmd.Flags().StringVar(&dueDate, "due", "", "Due date for the unlocked stage (RFC3339)")
	return cmd
}
