package services

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"alfredoptarigan/excel-interviewer/internal/models"
	"alfredoptarigan/excel-interviewer/internal/repositories"
)

// Archiver persists session snapshots in the background so transcripts and
// artifact metadata survive a process restart. The interview path only ever
// enqueues; archiving never blocks or fails a turn.
type Archiver interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(sessionID string)
}

type sessionArchiver struct {
	store       SessionStore
	repo        repositories.SessionArchiveRepository
	queue       chan string
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	logger      *zap.Logger
}

func NewSessionArchiver(
	store SessionStore,
	repo repositories.SessionArchiveRepository,
	concurrency int,
	logger *zap.Logger,
) Archiver {
	return &sessionArchiver{
		store:       store,
		repo:        repo,
		queue:       make(chan string, 100),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
		logger:      logger,
	}
}

// Start implements Archiver.
func (a *sessionArchiver) Start(ctx context.Context) {
	a.logger.Info("starting session archiver", zap.Int("concurrency", a.concurrency))

	for i := 0; i < a.concurrency; i++ {
		a.wg.Add(1)
		go a.drainQueue(ctx, i+1)
	}
}

// Stop implements Archiver.
func (a *sessionArchiver) Stop() {
	close(a.stopChan)
	a.wg.Wait()
	a.logger.Info("session archiver stopped")
}

// Enqueue implements Archiver.
func (a *sessionArchiver) Enqueue(sessionID string) {
	select {
	case a.queue <- sessionID:
	case <-a.stopChan:
		a.logger.Warn("archiver stopped, dropping snapshot request", zap.String("session_id", sessionID))
	}
}

func (a *sessionArchiver) drainQueue(ctx context.Context, workerID int) {
	defer a.wg.Done()

	for {
		select {
		case <-a.stopChan:
			return
		case sessionID := <-a.queue:
			if err := a.snapshot(sessionID); err != nil {
				a.logger.Error("failed to archive session",
					zap.Int("worker", workerID),
					zap.String("session_id", sessionID),
					zap.Error(err))
			}
		}
	}
}

func (a *sessionArchiver) snapshot(sessionID string) error {
	session, err := a.store.Get(sessionID)
	if err != nil {
		return err
	}

	transcript, err := json.Marshal(session.Transcript)
	if err != nil {
		return err
	}
	scores, err := json.Marshal(session.Scores)
	if err != nil {
		return err
	}

	archive := &models.SessionArchive{
		ID:               session.ID,
		CandidateName:    session.Candidate.Name,
		TargetRole:       session.Candidate.TargetRole,
		Scenario:         session.Scenario,
		WorkbookPlatform: string(session.WorkbookPlatform),
		State:            string(session.State),
		TurnCount:        len(session.Transcript),
		Transcript:       transcript,
		RunningScores:    scores,
		CreatedAt:        session.CreatedAt,
		UpdatedAt:        session.UpdatedAt,
	}
	if err := a.repo.Upsert(archive); err != nil {
		return err
	}

	records := make([]models.ArtifactRecord, 0, len(session.Artifacts))
	for _, artifact := range session.Artifacts {
		records = append(records, models.ArtifactRecord{
			ID:          artifact.ID,
			SessionID:   session.ID,
			Source:      string(artifact.Source),
			Filename:    artifact.Filename,
			ContentType: artifact.ContentType,
			SizeBytes:   artifact.SizeBytes,
			Description: artifact.Description,
			URL:         artifact.URL,
			UploadedAt:  artifact.UploadedAt,
		})
	}
	return a.repo.ReplaceArtifacts(session.ID, records)
}

// NoopArchiver satisfies Archiver when no archive database is configured.
type NoopArchiver struct{}

func (NoopArchiver) Start(context.Context) {}
func (NoopArchiver) Stop()                 {}
func (NoopArchiver) Enqueue(string)        {}
