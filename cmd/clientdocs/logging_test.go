package main

import (
	"log/slog"
	"testing"
)

func TestSelectedLogLevelPrecedence(t *testing.T) {
	cases := []struct {
		name       string
		flag       string
		env        string
		config     string
		wantLevel  string
		wantSource string
	}{
		{"flag wins", "debug", "warn", "error", "debug", "flag"},
		{"env beats config", "", "warn", "error", "warn", "env"},
		{"config when rest empty", "", "", "error", "error", "config"},
		{"default", "", "", "", "", "default"},
		{"blank flag ignored", "  ", "warn", "", "warn", "env"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			level, source := selectedLogLevel(tc.flag, tc.env, tc.config)
			if level != tc.wantLevel || source != tc.wantSource {
				t.Fatalf("got (%q, %q), want (%q, %q)", level, source, tc.wantLevel, tc.wantSource)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"", slog.LevelInfo, true},
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"-4", slog.LevelDebug, true},
		{"nope", 0, false},
	}
	for _, tc := range cases {
		level, err := parseLogLevel(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("parseLogLevel(%q): %v", tc.in, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("parseLogLevel(%q): expected error", tc.in)
			}
			continue
		}
		if level != tc.want {
			t.Fatalf("parseLogLevel(%q) = %v, want %v", tc.in, level, tc.want)
		}
	}
}

func TestConfigureLoggerForCLI(t *testing.T) {
	t.Run("invalid flag is an error", func(t *testing.T) {
		t.Setenv(logLevelEnvKey, "")
		if _, err := configureLoggerForCLI("nope", ""); err == nil {
			t.Fatal("expected error for invalid flag level")
		}
	})

	t.Run("invalid env warns and falls back", func(t *testing.T) {
		t.Setenv(logLevelEnvKey, "bogus")
		warning, err := configureLoggerForCLI("", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if warning == "" {
			t.Fatal("expected fallback warning")
		}
	})

	t.Run("invalid config warns and falls back", func(t *testing.T) {
		t.Setenv(logLevelEnvKey, "")
		warning, err := configureLoggerForCLI("", "bogus")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if warning == "" {
			t.Fatal("expected fallback warning")
		}
	})
}
