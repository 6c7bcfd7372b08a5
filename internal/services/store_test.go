package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/excel-interviewer/internal/models"
	"alfredoptarigan/excel-interviewer/internal/services"
)

func newStoreWithSession(t *testing.T, lockWait time.Duration) (services.SessionStore, string) {
	t.Helper()

	store := services.NewMemorySessionStore(lockWait)
	session := &models.InterviewSession{
		ID:               "session-1",
		Candidate:        sampleCandidate(),
		Scenario:         "finance_analyst",
		WorkbookPlatform: models.PlatformMicrosoftExcel,
		State:            models.StateCreated,
		Scores:           models.RunningScores{},
	}
	require.NoError(t, store.Create(session))
	return store, session.ID
}

func interviewerTurn(content string, scores map[string]float64) models.ChatTurn {
	turn := models.ChatTurn{
		InterviewerMessage: models.ChatMessage{
			Role:      models.RoleInterviewer,
			Content:   content,
			CreatedAt: time.Now().UTC(),
		},
	}
	if scores != nil {
		turn.Evaluation = &models.EvaluationSnapshot{
			Summary:      "s",
			Strengths:    []string{},
			Gaps:         []string{},
			RubricScores: scores,
		}
	}
	return turn
}

func TestStoreGetUnknownSession(t *testing.T) {
	store := services.NewMemorySessionStore(time.Second)

	_, err := store.Get("missing")
	assert.ErrorIs(t, err, services.ErrSessionNotFound)

	_, err = store.Acquire(context.Background(), "missing")
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}

func TestStoreGetReturnsSnapshot(t *testing.T) {
	store, id := newStoreWithSession(t, time.Second)
	_, _, err := store.AppendTurn(id, interviewerTurn("q1", map[string]float64{"automation": 2}))
	require.NoError(t, err)

	snapshot, err := store.Get(id)
	require.NoError(t, err)

	// Mutating the snapshot must not leak back into the store.
	snapshot.Scores["automation"] = 5
	snapshot.Transcript[0].InterviewerMessage.Content = "tampered"

	fresh, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 2.0, fresh.Scores["automation"])
	assert.Equal(t, "q1", fresh.Transcript[0].InterviewerMessage.Content)
}

func TestStoreAppendTurnFoldsOnceAndPreservesOrder(t *testing.T) {
	store, id := newStoreWithSession(t, time.Second)

	scores, total, err := store.AppendTurn(id, interviewerTurn("q1", map[string]float64{"excel_functions": 2}))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, 2.0, scores["excel_functions"])

	scores, total, err = store.AppendTurn(id, interviewerTurn("q2", map[string]float64{"excel_functions": 4, "storytelling": 3}))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 4.0, scores["excel_functions"])
	assert.Equal(t, 3.0, scores["storytelling"])

	// A turn without an evaluation leaves the scorecard alone.
	scores, total, err = store.AppendTurn(id, interviewerTurn("q3", nil))
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, scores, 2)

	session, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.StateInProgress, session.State)
	assert.Equal(t, "q1", session.Transcript[0].InterviewerMessage.Content)
	assert.Equal(t, "q2", session.Transcript[1].InterviewerMessage.Content)
	assert.Equal(t, "q3", session.Transcript[2].InterviewerMessage.Content)
}

func TestStoreAddArtifactPrepends(t *testing.T) {
	store, id := newStoreWithSession(t, time.Second)

	require.NoError(t, store.AddArtifact(id, models.SubmissionArtifact{ID: "a1", Source: models.ArtifactSourceFile}))
	require.NoError(t, store.AddArtifact(id, models.SubmissionArtifact{ID: "a2", Source: models.ArtifactSourceLink}))

	session, err := store.Get(id)
	require.NoError(t, err)
	require.Len(t, session.Artifacts, 2)
	assert.Equal(t, "a2", session.Artifacts[0].ID)
	assert.Equal(t, "a1", session.Artifacts[1].ID)

	artifact, err := store.GetArtifact(id, "a1")
	require.NoError(t, err)
	assert.Equal(t, models.ArtifactSourceFile, artifact.Source)

	_, err = store.GetArtifact(id, "nope")
	assert.ErrorIs(t, err, services.ErrArtifactNotFound)
}

func TestStoreMarkSummarizedIsNotTerminal(t *testing.T) {
	store, id := newStoreWithSession(t, time.Second)
	_, _, err := store.AppendTurn(id, interviewerTurn("q1", nil))
	require.NoError(t, err)

	require.NoError(t, store.MarkSummarized(id))
	session, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.StateSummarized, session.State)

	_, _, err = store.AppendTurn(id, interviewerTurn("q2", nil))
	require.NoError(t, err)
	session, err = store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.StateInProgress, session.State)
}

func TestStoreAcquireMutualExclusion(t *testing.T) {
	store, id := newStoreWithSession(t, 50*time.Millisecond)

	release, err := store.Acquire(context.Background(), id)
	require.NoError(t, err)

	_, err = store.Acquire(context.Background(), id)
	assert.ErrorIs(t, err, services.ErrConcurrencyTimeout)

	release()

	release, err = store.Acquire(context.Background(), id)
	require.NoError(t, err)
	release()
}

func TestStoreAcquireHonorsContextCancellation(t *testing.T) {
	store, id := newStoreWithSession(t, time.Minute)

	release, err := store.Acquire(context.Background(), id)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = store.Acquire(ctx, id)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStoreSessionsDoNotBlockEachOther(t *testing.T) {
	store := services.NewMemorySessionStore(100 * time.Millisecond)
	require.NoError(t, store.Create(&models.InterviewSession{ID: "a", Scores: models.RunningScores{}}))
	require.NoError(t, store.Create(&models.InterviewSession{ID: "b", Scores: models.RunningScores{}}))

	releaseA, err := store.Acquire(context.Background(), "a")
	require.NoError(t, err)
	defer releaseA()

	releaseB, err := store.Acquire(context.Background(), "b")
	require.NoError(t, err)
	releaseB()
}
