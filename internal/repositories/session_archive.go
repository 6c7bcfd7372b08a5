package repositories

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/excel-interviewer/internal/models"
)

type SessionArchiveRepository interface {
	Upsert(archive *models.SessionArchive) error
	ReplaceArtifacts(sessionID string, records []models.ArtifactRecord) error
}

type sessionArchiveRepository struct {
	db *gorm.DB
}

func NewSessionArchiveRepository(db *gorm.DB) SessionArchiveRepository {
	return &sessionArchiveRepository{db: db}
}

// Upsert implements SessionArchiveRepository.
func (r *sessionArchiveRepository) Upsert(archive *models.SessionArchive) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(archive).Error
	if err != nil {
		return fmt.Errorf("failed to upsert session archive: %w", err)
	}
	return nil
}

// ReplaceArtifacts implements SessionArchiveRepository. The artifact list for
// a session is rewritten wholesale on every snapshot; artifacts are
// append-only upstream so rows are only ever added.
func (r *sessionArchiveRepository) ReplaceArtifacts(sessionID string, records []models.ArtifactRecord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.ArtifactRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear artifact records: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("failed to insert artifact records: %w", err)
		}
		return nil
	})
}
