package service

import (
	"customs-web/internal/models"
	"customs-web/internal/rates"
	"customs-web/internal/repository"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// RatesService resolves rate snapshots. The active snapshot comes from the
// database when one has been imported, otherwise from the file named by
// RATES_PATH, otherwise from the built-in defaults.
type RatesService struct {
	repo      *repository.RatesRepository
	ratesPath string
	logger    *logrus.Logger
}

func NewRatesService(repo *repository.RatesRepository, ratesPath string, logger *logrus.Logger) *RatesService {
	return &RatesService{repo: repo, ratesPath: ratesPath, logger: logger}
}

// ActiveDocument returns the active snapshot in wire form.
func (s *RatesService) ActiveDocument() (rates.Document, error) {
	record, err := s.repo.GetActive()
	if err == nil {
		return documentFromRecord(record)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return rates.Document{}, fmt.Errorf("failed to load active rate snapshot: %w", err)
	}
	if s.ratesPath != "" {
		s.logger.WithField("path", s.ratesPath).Debug("No imported rate snapshot, loading from file")
		return rates.LoadDocument(s.ratesPath)
	}
	s.logger.Debug("No imported rate snapshot, using built-in defaults")
	return rates.DefaultDocument(), nil
}

// ActiveSnapshot returns the active snapshot converted and validated.
func (s *RatesService) ActiveSnapshot() (*rates.Snapshot, error) {
	doc, err := s.ActiveDocument()
	if err != nil {
		return nil, err
	}
	return rates.FromDocument(doc)
}

// SnapshotByVersion resolves the snapshot a batch was pinned to. Versions
// that never went through an import (file-based or built-in defaults) resolve
// through the active snapshot as long as the version still matches.
func (s *RatesService) SnapshotByVersion(version string) (*rates.Snapshot, error) {
	if version == "" {
		return s.ActiveSnapshot()
	}

	record, err := s.repo.GetByVersion(version)
	if err == nil {
		doc, derr := documentFromRecord(record)
		if derr != nil {
			return nil, derr
		}
		return rates.FromDocument(doc)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to load rate snapshot %q: %w", version, err)
	}

	snap, err := s.ActiveSnapshot()
	if err != nil {
		return nil, err
	}
	if snap.Version != version {
		return nil, fmt.Errorf("rate snapshot version %q not found", version)
	}
	return snap, nil
}

// DocumentByVersion returns a stored version in wire form.
func (s *RatesService) DocumentByVersion(version string) (rates.Document, error) {
	if version == "" {
		return s.ActiveDocument()
	}

	record, err := s.repo.GetByVersion(version)
	if err == nil {
		return documentFromRecord(record)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return rates.Document{}, fmt.Errorf("failed to load rate snapshot %q: %w", version, err)
	}

	doc, err := s.ActiveDocument()
	if err != nil {
		return rates.Document{}, err
	}
	if doc.Version != version {
		return rates.Document{}, fmt.Errorf("rate snapshot version %q not found", version)
	}
	return doc, nil
}

// Import validates a snapshot document and stores it as the only active
// version. The previous active version stays available for pinned batches.
func (s *RatesService) Import(doc rates.Document) (*rates.Snapshot, error) {
	if doc.LastUpdated.IsZero() {
		doc.LastUpdated = time.Now()
	}

	snap, err := rates.FromDocument(doc)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	record := &models.RateSnapshotRecord{
		Version:     doc.Version,
		Payload:     payload,
		IsActive:    true,
		LastUpdated: doc.LastUpdated,
	}
	if err := s.repo.ImportSnapshot(record); err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"version":      snap.Version,
		"last_updated": snap.LastUpdated,
	}).Info("Rate snapshot imported")

	return snap, nil
}

func (s *RatesService) Versions(limit, offset int) ([]models.RateSnapshotRecord, int, error) {
	return s.repo.GetVersions(limit, offset)
}

func documentFromRecord(record *models.RateSnapshotRecord) (rates.Document, error) {
	var doc rates.Document
	if err := json.Unmarshal(record.Payload, &doc); err != nil {
		return doc, fmt.Errorf("stored rate snapshot %q is corrupt: %w", record.Version, err)
	}
	return doc, nil
}
