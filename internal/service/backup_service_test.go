package service

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"lifeos/internal/logger"
	"lifeos/internal/repository"
	"lifeos/internal/store"
)

func TestBackupRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	for _, name := range []string{"Alex", "Sam"} {
		s := env.login(t, name)
		if _, err := s.FinishLesson(ctx, "comm-filler"); err != nil {
			t.Fatalf("FinishLesson() error = %v", err)
		}
	}

	var buf bytes.Buffer
	if err := NewBackupService(env.repo, logger.NewNop()).ExportToWriter(ctx, &buf); err != nil {
		t.Fatalf("ExportToWriter() error = %v", err)
	}

	var raw BackupData
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("backup is not valid JSON: %v", err)
	}
	if raw.Version != "1.0" || len(raw.Profiles) != 2 {
		t.Fatalf("backup version=%q profiles=%d", raw.Version, len(raw.Profiles))
	}

	target := repository.NewProfileRepository(store.NewMemoryStore())
	n, err := NewBackupService(target, logger.NewNop()).ImportFromReader(ctx, &buf)
	if err != nil {
		t.Fatalf("ImportFromReader() error = %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d profiles, want 2", n)
	}

	names, err := target.ListUsernames(ctx)
	if err != nil {
		t.Fatalf("ListUsernames() error = %v", err)
	}
	if strings.Join(names, ",") != "Alex,Sam" {
		t.Errorf("usernames = %v", names)
	}
	p := target.GetProfile(ctx, "Sam")
	if p == nil || p.XP != 25 || len(p.Badges) != 1 {
		t.Errorf("restored Sam = %+v", p)
	}
}

func TestBackupFile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.login(t, "Alex")
	path := filepath.Join(t.TempDir(), "backup.json")

	if err := NewBackupService(env.repo, logger.NewNop()).Export(ctx, path); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	target := repository.NewProfileRepository(store.NewMemoryStore())
	n, err := NewBackupService(target, logger.NewNop()).Import(ctx, path)
	if err != nil || n != 1 {
		t.Fatalf("Import() = %d, %v", n, err)
	}
	if target.GetProfile(ctx, "Alex") == nil {
		t.Error("Alex missing after import")
	}
}

func TestImportTrimsUsernames(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	backup := `{"version":"1.0","profiles":[{"username":" Alex ","xp":500}]}`

	n, err := NewBackupService(env.repo, logger.NewNop()).ImportFromReader(ctx, strings.NewReader(backup))
	if err != nil || n != 1 {
		t.Fatalf("ImportFromReader() = %d, %v", n, err)
	}
	names, _ := env.repo.ListUsernames(ctx)
	if strings.Join(names, ",") != "Alex" {
		t.Errorf("usernames = %q, want [Alex]", names)
	}

	s := env.login(t, "Alex")
	if got := mustProfile(t, s); got.XP != 500 {
		t.Errorf("xp after login = %d, want 500", got.XP)
	}
}

func TestImportRejectsBadBackups(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "not json",
			input: "{",
		},
		{
			name:  "unknown version",
			input: `{"version":"9.9","profiles":[]}`,
		},
		{
			name:  "blank username",
			input: `{"version":"1.0","profiles":[{"username":"  "}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := repository.NewProfileRepository(store.NewMemoryStore())
			svc := NewBackupService(target, logger.NewNop())
			if _, err := svc.ImportFromReader(context.Background(), strings.NewReader(tt.input)); err == nil {
				t.Fatal("ImportFromReader() expected error")
			}
			if names, _ := target.ListUsernames(context.Background()); len(names) != 0 {
				t.Errorf("rejected backup stored %v", names)
			}
		})
	}
}
