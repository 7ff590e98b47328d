package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"lifeos/internal/logger"
	"lifeos/internal/models"
	"lifeos/internal/repository"
	"lifeos/internal/validation"
)

const backupVersion = "1.0"

// BackupData represents the complete profile backup structure
type BackupData struct {
	Version    string            `json:"version"`
	ExportedAt time.Time         `json:"exported_at"`
	Profiles   []*models.Profile `json:"profiles"`
}

// BackupService handles profile backup and restore operations
type BackupService struct {
	profiles *repository.ProfileRepository
	log      *logger.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(profiles *repository.ProfileRepository, log *logger.Logger) *BackupService {
	return &BackupService{
		profiles: profiles,
		log:      log.With("service", "BackupService"),
	}
}

// Export writes a backup of every persisted profile to a file
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(ctx, file); err != nil {
		return err
	}
	s.log.Info("Profiles exported", "path", outputPath)
	return nil
}

// ExportToWriter writes a backup of every persisted profile to w
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) error {
	profiles, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to export profiles: %w", err)
	}

	backup := &BackupData{
		Version:    backupVersion,
		ExportedAt: time.Now().UTC(),
		Profiles:   profiles,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	s.log.Info("Export complete", "profiles", len(profiles))
	return nil
}

// Import restores profiles from a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string) (int, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()
	return s.ImportFromReader(ctx, file)
}

// ImportFromReader restores profiles from a backup reader. Existing profiles
// with the same username are replaced; others are left alone.
func (s *BackupService) ImportFromReader(ctx context.Context, r io.Reader) (int, error) {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return 0, fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != backupVersion {
		return 0, fmt.Errorf("unsupported backup version %q", backup.Version)
	}
	s.log.Info("Importing backup", "version", backup.Version, "exported_at", backup.ExportedAt, "profiles", len(backup.Profiles))

	profiles := make([]*models.Profile, 0, len(backup.Profiles))
	for i, p := range backup.Profiles {
		if p == nil {
			continue
		}
		if err := validation.ValidateUsername(p.Username); err != nil {
			return 0, fmt.Errorf("profile %d: %w", i, err)
		}
		p.Username = validation.NormalizeUsername(p.Username)
		p.Normalize()
		profiles = append(profiles, p)
	}

	if err := s.profiles.SaveProfiles(ctx, profiles); err != nil {
		return 0, fmt.Errorf("failed to import profiles: %w", err)
	}
	s.log.Info("Import complete", "profiles", len(profiles))
	return len(profiles), nil
}
