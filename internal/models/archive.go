package models

import (
	"time"

	"gorm.io/datatypes"
)

// SessionArchive is the durable snapshot of an interview session, refreshed by
// the background archiver after every recorded turn or artifact submission.
type SessionArchive struct {
	ID               string         `gorm:"type:uuid;primary_key" json:"id"`
	CandidateName    string         `gorm:"type:text" json:"candidate_name"`
	TargetRole       string         `gorm:"type:text" json:"target_role"`
	Scenario         string         `gorm:"type:text" json:"scenario"`
	WorkbookPlatform string         `gorm:"type:text" json:"workbook_platform"`
	State            string         `gorm:"type:text" json:"state"`
	TurnCount        int            `gorm:"not null;default:0" json:"turn_count"`
	Transcript       datatypes.JSON `gorm:"type:jsonb" json:"transcript"`
	RunningScores    datatypes.JSON `gorm:"type:jsonb" json:"running_scores"`
	CreatedAt        time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (SessionArchive) TableName() string {
	return "session_archives"
}

// ArtifactRecord mirrors one SubmissionArtifact row for offline review.
type ArtifactRecord struct {
	ID          string    `gorm:"type:uuid;primary_key" json:"id"`
	SessionID   string    `gorm:"type:uuid;not null;index" json:"session_id"`
	Source      string    `gorm:"type:text;not null" json:"source"`
	Filename    string    `gorm:"type:text" json:"filename"`
	ContentType string    `gorm:"type:text" json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Description string    `gorm:"type:text" json:"description"`
	URL         string    `gorm:"type:text" json:"url"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

func (ArtifactRecord) TableName() string {
	return "artifact_records"
}
