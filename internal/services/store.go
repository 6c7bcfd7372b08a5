package services

import (
	"context"
	"sync"
	"time"

	"alfredoptarigan/excel-interviewer/internal/models"
)

// SessionStore owns all per-session mutable state. Mutations on a single
// session id are serialized through Acquire; different sessions never block
// each other. The interface is deliberately free of in-process types so the
// in-memory implementation can later be swapped for a shared backend without
// touching the orchestrator.
type SessionStore interface {
	Create(session *models.InterviewSession) error
	// Get returns a deep snapshot of the session, safe to read without the
	// session lock.
	Get(id string) (*models.InterviewSession, error)
	// Acquire blocks until the per-session lock is held, the bounded wait
	// elapses (ErrConcurrencyTimeout), or ctx is done. The returned release
	// function must be called on every exit path.
	Acquire(ctx context.Context, id string) (release func(), err error)
	// AppendTurn appends to the transcript and folds the turn's evaluation
	// into the running scores. This is the only place a fold happens, so each
	// evaluation is counted exactly once. Returns the updated scores and the
	// new transcript length. Caller must hold the session lock.
	AppendTurn(id string, turn models.ChatTurn) (models.RunningScores, int, error)
	// AddArtifact prepends the artifact so listings read most-recent-first.
	// Caller must hold the session lock.
	AddArtifact(id string, artifact models.SubmissionArtifact) error
	GetArtifact(id, artifactID string) (*models.SubmissionArtifact, error)
	// MarkSummarized records that a summary has been produced. Summarized is
	// not terminal; later turns flip the session back to in-progress.
	MarkSummarized(id string) error
}

type sessionEntry struct {
	mu      sync.Mutex    // guards the session value
	gate    chan struct{} // serializes whole operations, held across generation calls
	session *models.InterviewSession
}

type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	lockWait time.Duration
}

// NewMemorySessionStore returns the process-local store. lockWait bounds how
// long Acquire waits on a contended session before failing.
func NewMemorySessionStore(lockWait time.Duration) SessionStore {
	return &memorySessionStore{
		sessions: make(map[string]*sessionEntry),
		lockWait: lockWait,
	}
}

func (s *memorySessionStore) Create(session *models.InterviewSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = &sessionEntry{
		gate:    make(chan struct{}, 1),
		session: cloneSession(session),
	}
	return nil
}

func (s *memorySessionStore) entry(id string) (*sessionEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry, nil
}

func (s *memorySessionStore) Get(id string) (*models.InterviewSession, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return cloneSession(entry.session), nil
}

func (s *memorySessionStore) Acquire(ctx context.Context, id string) (func(), error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	timer := time.NewTimer(s.lockWait)
	defer timer.Stop()

	select {
	case entry.gate <- struct{}{}:
		return func() { <-entry.gate }, nil
	case <-timer.C:
		return nil, ErrConcurrencyTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *memorySessionStore) AppendTurn(id string, turn models.ChatTurn) (models.RunningScores, int, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, 0, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	session := entry.session
	session.Transcript = append(session.Transcript, turn)
	if turn.Evaluation != nil {
		session.Scores = FoldScores(session.Scores, turn.Evaluation.RubricScores)
	}
	session.State = models.StateInProgress
	session.UpdatedAt = time.Now().UTC()

	return cloneScores(session.Scores), len(session.Transcript), nil
}

func (s *memorySessionStore) AddArtifact(id string, artifact models.SubmissionArtifact) error {
	entry, err := s.entry(id)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	session := entry.session
	session.Artifacts = append([]models.SubmissionArtifact{artifact}, session.Artifacts...)
	session.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *memorySessionStore) GetArtifact(id, artifactID string) (*models.SubmissionArtifact, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	for _, artifact := range entry.session.Artifacts {
		if artifact.ID == artifactID {
			found := artifact
			return &found, nil
		}
	}
	return nil, ErrArtifactNotFound
}

func (s *memorySessionStore) MarkSummarized(id string) error {
	entry, err := s.entry(id)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.session.State = models.StateSummarized
	entry.session.UpdatedAt = time.Now().UTC()
	return nil
}

func cloneSession(session *models.InterviewSession) *models.InterviewSession {
	clone := *session
	clone.Transcript = append([]models.ChatTurn(nil), session.Transcript...)
	clone.Artifacts = append([]models.SubmissionArtifact(nil), session.Artifacts...)
	clone.Scores = cloneScores(session.Scores)
	return &clone
}

func cloneScores(scores models.RunningScores) models.RunningScores {
	clone := make(models.RunningScores, len(scores))
	for skill, score := range scores {
		clone[skill] = score
	}
	return clone
}
