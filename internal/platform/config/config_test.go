package config

import (
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.HTTPPort)
	}
	if cfg.PostingDueIn() != 7*24*time.Hour {
		t.Fatalf("expected seven day posting window, got %s", cfg.PostingDueIn())
	}
	if len(cfg.SeedCampaigns) != 0 {
		t.Fatalf("expected no seed campaigns, got %v", cfg.SeedCampaigns)
	}
	if !cfg.EnableUploadProgressConsumer {
		t.Fatalf("expected upload consumer enabled by default")
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("POSTING_DUE_DAYS", "3")
	t.Setenv("SEED_CAMPAIGNS", "camp-1:ADMIN,camp-2:CLIENT")
	t.Setenv("SUBMISSION_LOCK_TTL", "45s")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected port override, got %q", cfg.HTTPPort)
	}
	if cfg.PostingDueIn() != 72*time.Hour {
		t.Fatalf("expected three day posting window, got %s", cfg.PostingDueIn())
	}
	if len(cfg.SeedCampaigns) != 2 || cfg.SeedCampaigns[1] != "camp-2:CLIENT" {
		t.Fatalf("expected two seed campaigns, got %v", cfg.SeedCampaigns)
	}
	if cfg.LockTTL != 45*time.Second {
		t.Fatalf("expected lock ttl override, got %s", cfg.LockTTL)
	}
}

func TestParseRejectsNonPositiveDueDays(t *testing.T) {
	t.Setenv("POSTING_DUE_DAYS", "0")

	if _, err := Parse(); err == nil {
		t.Fatalf("expected error for zero due days")
	}
}
