package services

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/excel-interviewer/internal/models"
)

// MaxUploadBytes caps candidate workbook uploads at 10 MB.
const MaxUploadBytes = 10 * 1024 * 1024

var allowedArtifactExtensions = map[string]struct{}{
	".xlsx": {},
	".xls":  {},
	".xlsm": {},
	".xlsb": {},
	".csv":  {},
	".tsv":  {},
	".ods":  {},
}

// ArtifactRegistry tracks candidate-submitted workbooks and links per session.
// Artifacts are never mutated or deleted for the lifetime of the session.
type ArtifactRegistry interface {
	AddFile(ctx context.Context, sessionID, filename, contentType string, data []byte, description string) (*models.SubmissionArtifact, error)
	AddLink(ctx context.Context, sessionID, url, description string) (*models.SubmissionArtifact, error)
	List(ctx context.Context, sessionID string) ([]models.SubmissionArtifact, error)
	GetFileBytes(ctx context.Context, sessionID, artifactID string) (*models.SubmissionArtifact, []byte, error)
}

type artifactRegistry struct {
	store    SessionStore
	blobs    BlobStore
	archiver Archiver
	maxBytes int64
	logger   *zap.Logger
}

func NewArtifactRegistry(store SessionStore, blobs BlobStore, archiver Archiver, logger *zap.Logger) ArtifactRegistry {
	return &artifactRegistry{
		store:    store,
		blobs:    blobs,
		archiver: archiver,
		maxBytes: MaxUploadBytes,
		logger:   logger,
	}
}

// AddFile implements ArtifactRegistry.
func (r *artifactRegistry) AddFile(ctx context.Context, sessionID, filename, contentType string, data []byte, description string) (*models.SubmissionArtifact, error) {
	if filename == "" {
		filename = "submission.xlsx"
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedArtifactExtensions[ext]; !ok {
		return nil, ErrUnsupportedFormat
	}
	if int64(len(data)) > r.maxBytes {
		return nil, ErrPayloadTooLarge
	}

	release, err := r.store.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	artifact := models.SubmissionArtifact{
		ID:          uuid.New().String(),
		Source:      models.ArtifactSourceFile,
		Filename:    filepath.Base(filename),
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		UploadedAt:  time.Now().UTC(),
		Description: strings.TrimSpace(description),
	}

	if err := r.blobs.Save(sessionID, artifact.ID+ext, data); err != nil {
		return nil, err
	}
	if err := r.store.AddArtifact(sessionID, artifact); err != nil {
		return nil, err
	}

	r.logger.Info("stored workbook artifact",
		zap.String("session_id", sessionID),
		zap.String("artifact_id", artifact.ID),
		zap.String("filename", artifact.Filename),
		zap.Int64("size_bytes", artifact.SizeBytes))

	r.archiver.Enqueue(sessionID)
	return &artifact, nil
}

// AddLink implements ArtifactRegistry.
func (r *artifactRegistry) AddLink(ctx context.Context, sessionID, url, description string) (*models.SubmissionArtifact, error) {
	cleaned := strings.TrimSpace(url)
	lowered := strings.ToLower(cleaned)
	if cleaned == "" || (!strings.HasPrefix(lowered, "http://") && !strings.HasPrefix(lowered, "https://")) {
		return nil, ErrInvalidURL
	}

	release, err := r.store.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	artifact := models.SubmissionArtifact{
		ID:          uuid.New().String(),
		Source:      models.ArtifactSourceLink,
		UploadedAt:  time.Now().UTC(),
		Description: strings.TrimSpace(description),
		URL:         cleaned,
	}

	if err := r.store.AddArtifact(sessionID, artifact); err != nil {
		return nil, err
	}

	r.logger.Info("recorded link artifact",
		zap.String("session_id", sessionID),
		zap.String("artifact_id", artifact.ID))

	r.archiver.Enqueue(sessionID)
	return &artifact, nil
}

// List implements ArtifactRegistry. Artifacts come back most-recent-first.
func (r *artifactRegistry) List(ctx context.Context, sessionID string) ([]models.SubmissionArtifact, error) {
	release, err := r.store.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	session, err := r.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return session.Artifacts, nil
}

// GetFileBytes implements ArtifactRegistry.
func (r *artifactRegistry) GetFileBytes(ctx context.Context, sessionID, artifactID string) (*models.SubmissionArtifact, []byte, error) {
	release, err := r.store.Acquire(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	artifact, err := r.store.GetArtifact(sessionID, artifactID)
	if err != nil {
		return nil, nil, err
	}
	if artifact.Source != models.ArtifactSourceFile {
		return nil, nil, ErrArtifactNotFound
	}

	ext := strings.ToLower(filepath.Ext(artifact.Filename))
	data, err := r.blobs.Load(sessionID, artifact.ID+ext)
	if err != nil {
		return nil, nil, err
	}
	return artifact, data, nil
}
