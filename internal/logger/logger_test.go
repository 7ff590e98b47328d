package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, mode := range []string{"development", "production", "PROD", "cli", "quiet", ""} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q) error = %v", mode, err)
		}
		if l.SugaredLogger == nil {
			t.Fatalf("New(%q) returned no logger", mode)
		}
	}
	if _, err := New("verbose"); err == nil {
		t.Error("New(verbose) expected error")
	}
}

func TestConfigFor(t *testing.T) {
	tests := []struct {
		mode        string
		wantLevel   zapcore.Level
		wantEncoder string
		wantCaller  bool
	}{
		{
			mode:        "",
			wantLevel:   zapcore.DebugLevel,
			wantEncoder: "console",
			wantCaller:  true,
		},
		{
			mode:        ModeProduction,
			wantLevel:   zapcore.InfoLevel,
			wantEncoder: "json",
			wantCaller:  true,
		},
		{
			mode:        ModeCLI,
			wantLevel:   zapcore.InfoLevel,
			wantEncoder: "console",
		},
		{
			mode:        ModeQuiet,
			wantLevel:   zapcore.WarnLevel,
			wantEncoder: "console",
		},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg, err := configFor(tt.mode)
			if err != nil {
				t.Fatalf("configFor() error = %v", err)
			}
			if got := cfg.Level.Level(); got != tt.wantLevel {
				t.Errorf("level = %v, want %v", got, tt.wantLevel)
			}
			if cfg.Encoding != tt.wantEncoder {
				t.Errorf("encoding = %q, want %q", cfg.Encoding, tt.wantEncoder)
			}
			if caller := !cfg.DisableCaller; caller != tt.wantCaller {
				t.Errorf("caller = %v, want %v", caller, tt.wantCaller)
			}
		})
	}
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("service", "Engine").Info("Profile created", "username", "Alex")
	l.Warn("Active profile missing")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("logged %d entries, want 2", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["service"] != "Engine" || fields["username"] != "Alex" {
		t.Errorf("fields = %v", fields)
	}
	if entries[1].Level != zapcore.WarnLevel {
		t.Errorf("level = %v, want warn", entries[1].Level)
	}
	if _, ok := entries[1].ContextMap()["service"]; ok {
		t.Error("With leaked fields into the parent logger")
	}
}
