package main

import (
	"errors"
	"fmt"
	"strings"

	deliverablehttp "deliverables/contexts/campaign-editorial/deliverable-review-service/transport/http"

	"github.com/spf13/cobra"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var submissionID string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display a submission with its media items and feedback",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(submissionID) == "" {
				return errors.New("--submission is required")
			}
			app, err := ctx.ensureApp()
			if err != nil {
				return err
			}
			resp, err := app.module.Handler.GetSubmissionHandler(cmd.Context(), app.actor, submissionID)
			if err != nil {
				return fmt.Errorf("load submission: %w", err)
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}
			printSubmission(cmd, resp.Submission)
			return nil
		},
	}

	cmd.Flags().StringVar(&submissionID, "submission", "", "Submission id")
	return cmd
}

func printSubmission(cmd *cobra.Command, submission deliverablehttp.SubmissionDTO) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Submission: %s\n", submission.SubmissionID)
	fmt.Fprintf(out, "Campaign:   %s\n", submission.CampaignID)
	fmt.Fprintf(out, "Creator:    %s\n", submission.CreatorID)
	fmt.Fprintf(out, "Stage:      %s\n", submission.SubmissionType)
	fmt.Fprintf(out, "Status:     %s\n", submission.Status)
	if submission.DisplayStatus != "" && submission.DisplayStatus != submission.Status {
		fmt.Fprintf(out, "Display:    %s\n", submission.DisplayStatus)
	}
	fmt.Fprintf(out, "Due:        %s\n", valueOrDash(submission.DueDate))
	if submission.Content != "" {
		fmt.Fprintf(out, "Content:    %s\n", submission.Content)
	}

	if len(submission.Media) > 0 {
		rows := make([][]string, 0, len(submission.Media))
		for _, item := range submission.Media {
			rows = append(rows, []string{item.MediaID, item.Kind, item.Status, valueOrDash(item.FileName)})
		}
		fmt.Fprintln(out, renderTable([]string{"Media", "Kind", "Status", "File"}, rows, nil))
	}
	if len(submission.Feedback) > 0 {
		rows := make([][]string, 0, len(submission.Feedback))
		for _, item := range submission.Feedback {
			forwarded := "no"
			if item.Forwarded {
				forwarded = "yes"
			}
			rows = append(rows, []string{item.AuthorRole, item.Type, item.Content, forwarded, item.CreatedAt})
		}
		fmt.Fprintln(out, renderTable([]string{"Author", "Type", "Feedback", "Forwarded", "At"}, rows, nil))
	}
}
