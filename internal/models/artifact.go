package models

import "time"

type ArtifactSource string

const (
	ArtifactSourceFile ArtifactSource = "file"
	ArtifactSourceLink ArtifactSource = "link"
)

// SubmissionArtifact is the metadata for a workbook the candidate uploaded or
// a live spreadsheet link they shared. Raw bytes live in the blob store keyed
// by (session id, artifact id); only metadata travels through the API.
type SubmissionArtifact struct {
	ID          string         `json:"id"`
	Source      ArtifactSource `json:"source"`
	Filename    string         `json:"filename,omitempty"`
	ContentType string         `json:"content_type,omitempty"`
	SizeBytes   int64          `json:"size_bytes,omitempty"`
	UploadedAt  time.Time      `json:"uploaded_at"`
	Description string         `json:"description"`
	URL         string         `json:"url,omitempty"`
}
