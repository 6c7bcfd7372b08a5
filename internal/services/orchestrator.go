package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/excel-interviewer/internal/models"
)

// InterviewOrchestrator drives the per-turn interview protocol: it builds the
// instruction for each exchange, invokes the generation service, validates
// the structured reply, and records the turn. Any generation failure leaves
// the session exactly as it was; retries belong to the caller so a retry can
// never duplicate a billable call or a transcript turn.
type InterviewOrchestrator interface {
	StartSession(ctx context.Context, req *models.SessionCreateRequest) (*models.SessionCreateResponse, error)
	SubmitResponse(ctx context.Context, sessionID, message string) (*models.ChatResponse, error)
	Summarize(ctx context.Context, sessionID string) (*models.SummaryResponse, error)
}

type interviewOrchestrator struct {
	store      SessionStore
	generator  GenerationService
	prompts    *PromptBuilder
	archiver   Archiver
	genTimeout time.Duration
	logger     *zap.Logger
}

func NewInterviewOrchestrator(
	store SessionStore,
	generator GenerationService,
	prompts *PromptBuilder,
	archiver Archiver,
	genTimeout time.Duration,
	logger *zap.Logger,
) InterviewOrchestrator {
	return &interviewOrchestrator{
		store:      store,
		generator:  generator,
		prompts:    prompts,
		archiver:   archiver,
		genTimeout: genTimeout,
		logger:     logger,
	}
}

// generateTurn bounds every generation round trip so a hung upstream cannot
// pin the per-session lock forever.
func (o *interviewOrchestrator) generateTurn(ctx context.Context, messages []PromptMessage) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, o.genTimeout)
	defer cancel()
	return o.generator.GenerateStructuredTurn(genCtx, o.prompts.BuildSystemPrompt(), messages)
}

// StartSession implements InterviewOrchestrator. The model opens the
// interview: turn 0 is synthesized from the bootstrap instruction with an
// empty transcript. The session is only published to the store once the
// opening turn exists, so a failed generation leaves nothing behind.
func (o *interviewOrchestrator) StartSession(ctx context.Context, req *models.SessionCreateRequest) (*models.SessionCreateResponse, error) {
	o.logger.Info("creating interview session",
		zap.String("candidate", req.Candidate.Name),
		zap.String("target_role", req.Candidate.TargetRole))

	bootstrap := o.prompts.BuildBootstrapPrompt(req.Candidate, req.Scenario, req.WorkbookPlatform)
	raw, err := o.generateTurn(ctx, []PromptMessage{
		{Role: "user", Content: bootstrap},
	})
	if err != nil {
		return nil, err
	}

	reply, err := o.prompts.ParseTurnReply(raw)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &models.InterviewSession{
		ID:               uuid.New().String(),
		Candidate:        req.Candidate,
		Scenario:         req.Scenario,
		WorkbookPlatform: req.WorkbookPlatform,
		State:            models.StateCreated,
		Scores:           models.RunningScores{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := o.store.Create(session); err != nil {
		return nil, err
	}

	release, err := o.store.Acquire(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	turn := buildTurn(reply, nil)
	if _, _, err := o.store.AppendTurn(session.ID, turn); err != nil {
		return nil, err
	}

	o.logger.Info("session created",
		zap.String("session_id", session.ID),
		zap.Int("focus_areas", len(req.Candidate.FocusAreas)))

	o.archiver.Enqueue(session.ID)
	return &models.SessionCreateResponse{SessionID: session.ID, FirstTurn: turn}, nil
}

// SubmitResponse implements InterviewOrchestrator. The per-session lock is
// held across the generation call so concurrent submissions for the same
// session serialize instead of interleaving; other sessions are unaffected.
func (o *interviewOrchestrator) SubmitResponse(ctx context.Context, sessionID, message string) (*models.ChatResponse, error) {
	release, err := o.store.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	session, err := o.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	o.logger.Info("processing candidate reply",
		zap.String("session_id", sessionID),
		zap.Int("message_length", len(message)))

	messages := o.transcriptMessages(session)
	messages = append(messages, PromptMessage{Role: "user", Content: message})

	raw, err := o.generateTurn(ctx, messages)
	if err != nil {
		return nil, err
	}
	reply, err := o.prompts.ParseTurnReply(raw)
	if err != nil {
		return nil, err
	}

	candidateMsg := &models.ChatMessage{
		Role:      models.RoleCandidate,
		Content:   message,
		CreatedAt: time.Now().UTC(),
	}
	turn := buildTurn(reply, candidateMsg)

	scores, total, err := o.store.AppendTurn(sessionID, turn)
	if err != nil {
		return nil, err
	}

	o.logger.Info("candidate reply processed",
		zap.String("session_id", sessionID),
		zap.Int("total_turns", total),
		zap.Int("scores_tracked", len(scores)))

	o.archiver.Enqueue(sessionID)
	return &models.ChatResponse{Turn: turn, RunningScores: scores, TotalTurns: total}, nil
}

// Summarize implements InterviewOrchestrator. The transcript is never
// mutated; the session is only marked summarized, and later turns may still
// follow.
func (o *interviewOrchestrator) Summarize(ctx context.Context, sessionID string) (*models.SummaryResponse, error) {
	release, err := o.store.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	session, err := o.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if len(session.Transcript) == 0 {
		return nil, ErrEmptyTranscript
	}

	transcriptJSON, err := json.Marshal(session.Transcript)
	if err != nil {
		return nil, err
	}

	prompt := o.prompts.BuildSummaryPrompt(session.Candidate, string(transcriptJSON))
	genCtx, cancel := context.WithTimeout(ctx, o.genTimeout)
	defer cancel()
	raw, err := o.generator.GenerateStructuredSummary(genCtx, o.prompts.BuildSystemPrompt(), prompt)
	if err != nil {
		return nil, err
	}
	reply, err := o.prompts.ParseSummaryReply(raw)
	if err != nil {
		return nil, err
	}

	if err := o.store.MarkSummarized(sessionID); err != nil {
		return nil, err
	}

	o.logger.Info("summary generated",
		zap.String("session_id", sessionID),
		zap.Int("transcript_turns", len(session.Transcript)))

	o.archiver.Enqueue(sessionID)
	return &models.SummaryResponse{
		SessionID:            sessionID,
		Transcript:           session.Transcript,
		FinalSummary:         reply.OverallSummary,
		RecommendedNextSteps: reply.NextSteps,
		// Folding the scorecard over the running scores guarantees coverage of
		// every skill already observed, even if the model omitted one.
		OverallScores: FoldScores(session.Scores, reply.Scorecard),
	}, nil
}

// transcriptMessages rebuilds the conversation context from the stored
// transcript: the bootstrap instruction, then each exchange with the
// interviewer's structured reply re-serialized as the model turn.
func (o *interviewOrchestrator) transcriptMessages(session *models.InterviewSession) []PromptMessage {
	messages := []PromptMessage{
		{Role: "user", Content: o.prompts.BuildBootstrapPrompt(session.Candidate, session.Scenario, session.WorkbookPlatform)},
	}

	for _, turn := range session.Transcript {
		if turn.CandidateMessage != nil {
			messages = append(messages, PromptMessage{Role: "user", Content: turn.CandidateMessage.Content})
		}
		payload, err := json.Marshal(map[string]any{
			"interviewer_message": turn.InterviewerMessage.Content,
			"evaluation":          turn.Evaluation,
			"next_best_action":    turn.NextBestAction,
		})
		if err != nil {
			// Marshalling plain transcript data cannot realistically fail;
			// fall back to the bare message to keep the conversation intact.
			payload = []byte(turn.InterviewerMessage.Content)
		}
		messages = append(messages, PromptMessage{Role: "model", Content: string(payload)})
	}

	return messages
}

func buildTurn(reply *TurnReply, candidateMsg *models.ChatMessage) models.ChatTurn {
	return models.ChatTurn{
		CandidateMessage: candidateMsg,
		InterviewerMessage: models.ChatMessage{
			Role:      models.RoleInterviewer,
			Content:   reply.InterviewerMessage,
			CreatedAt: time.Now().UTC(),
		},
		Evaluation:     reply.Evaluation,
		NextBestAction: reply.NextBestAction,
	}
}
