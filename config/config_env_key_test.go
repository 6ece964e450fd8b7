package config

import (
	"testing"
	"time"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"auth": map[string]any{
			"needApproval":   false,
			"inviteTokenTTL": "168h",
		},
		"secretKey": map[string]any{
			"access": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "AUTH_NEEDAPPROVAL", want: "auth.needApproval"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyAuthDefaults(t *testing.T) {
	auth := &AuthConfig{}
	applyAuthDefaults(auth)

	if auth.ResetTokenTTL != 24*time.Hour {
		t.Fatalf("ResetTokenTTL = %v, want 24h", auth.ResetTokenTTL)
	}
	if auth.InviteTokenTTL != 7*24*time.Hour {
		t.Fatalf("InviteTokenTTL = %v, want 168h", auth.InviteTokenTTL)
	}

	configured := &AuthConfig{ResetTokenTTL: time.Hour, InviteTokenTTL: 2 * time.Hour, SessionTTL: 3 * time.Hour, AccessTokenTTL: time.Minute}
	applyAuthDefaults(configured)
	if configured.ResetTokenTTL != time.Hour {
		t.Fatalf("configured ResetTokenTTL overwritten: %v", configured.ResetTokenTTL)
	}
}
