package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"deliverables/contexts/campaign-editorial/deliverable-review-service/domain/entities"
	"deliverables/internal/platform/config"
	"deliverables/internal/platform/httpserver"

	"github.com/spf13/cobra"
)

func newTokenCommand() *cobra.Command {
	var userID string
	var role string
	var adminMode string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for calling the API as a given actor",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.JWTSecret) == "" {
				return errors.New("JWT_SECRET is required")
			}
			actor := entities.Actor{
				UserID:    strings.TrimSpace(userID),
				Role:      entities.ActorRole(strings.ToLower(strings.TrimSpace(role))),
				AdminMode: strings.TrimSpace(adminMode),
			}
			if !actor.Valid() {
				return errors.New("--user and a --role of admin, client or creator are required")
			}
			if ttl <= 0 {
				ttl = cfg.JWTTTL
			}
			auth := httpserver.NewAuthenticator(cfg.JWTSecret, cfg.JWTLeeway)
			token, err := auth.IssueToken(actor, ttl, time.Now())
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User id placed in the sub claim")
	cmd.Flags().StringVar(&role, "role", "admin", "Actor role: admin, client or creator")
	cmd.Flags().StringVar(&adminMode, "admin-mode", "", "Admin mode, e.g. finance for read-only access")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to JWT_TTL)")
	return cmd
}
