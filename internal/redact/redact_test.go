// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package redact

import (
	"os"
	"testing"
)

func TestString_RedactsKnownEnvVars(t *testing.T) {
	const secret = "s3cr3t-db-password" //nolint:gosec // fake test credential
	t.Setenv("ARES_DB_PASSWORD", secret)
	resetCache()

	input := "error: login failed with s3cr3t-db-password for reports"
	got := String(input)

	if expected := "error: login failed with [REDACTED] for reports"; got != expected {
		t.Errorf("got %q, want %q", got, expected)
	}
}

func TestString_NoSecretSetIsNoop(t *testing.T) {
	os.Unsetenv("ARES_DB_PASSWORD") //nolint:errcheck // test cleanup
	resetCache()

	input := "some normal error message"
	if got := String(input); got != input {
		t.Errorf("expected no change, got %q", got)
	}
}

func TestString_ShortValuesIgnored(t *testing.T) {
	// Values under 4 chars could cause false-positive redaction.
	t.Setenv("PGPASSWORD", "abc")
	resetCache()

	input := "abc is in the string abc"
	if got := String(input); got != input {
		t.Errorf("expected no redaction for short values, got %q", got)
	}
}

func TestString_MultipleSecrets(t *testing.T) {
	t.Setenv("PGPASSWORD", "test-token-aaaa")
	t.Setenv("MYSQL_PWD", "test-token-bbbb")
	resetCache()

	got := String("tokens: test-token-aaaa and test-token-bbbb")
	if expected := "tokens: [REDACTED] and [REDACTED]"; got != expected {
		t.Errorf("got %q, want %q", got, expected)
	}
}

func TestString_DSNPasswords(t *testing.T) {
	resetCache()
	tests := []struct {
		in, want string
	}{
		{"postgres://ares:hunter22@db:5432/sales", "postgres://ares:[REDACTED]@db:5432/sales"},
		{"ares:hunter22@tcp(db:3306)/sales", "ares:[REDACTED]@tcp(db:3306)/sales"},
		{"file:sales.db?mode=ro", "file:sales.db?mode=ro"},
	}
	for _, tt := range tests {
		if got := String(tt.in); got != tt.want {
			t.Errorf("String(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
