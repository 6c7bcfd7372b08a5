package models

import "time"

type FocusArea string

const (
	FocusAdvancedFormulas FocusArea = "advanced_formulas"
	FocusDataAnalysis     FocusArea = "data_analysis"
	FocusAutomation       FocusArea = "automation"
	FocusDashboards       FocusArea = "dashboards"
	FocusDataModeling     FocusArea = "data_modeling"
)

type WorkbookPlatform string

const (
	PlatformMicrosoftExcel WorkbookPlatform = "microsoft_excel"
	PlatformGoogleSheets   WorkbookPlatform = "google_sheets"
)

type MessageRole string

const (
	RoleInterviewer MessageRole = "interviewer"
	RoleCandidate   MessageRole = "candidate"
)

type SessionState string

const (
	StateCreated    SessionState = "created"
	StateInProgress SessionState = "in_progress"
	StateSummarized SessionState = "summarized"
)

// CandidateProfile describes the person being interviewed. Immutable once the
// session has been created.
type CandidateProfile struct {
	Name            string      `json:"name"`
	CurrentRole     string      `json:"current_role"`
	YearsExperience float64     `json:"years_experience"`
	TargetRole      string      `json:"target_role"`
	FocusAreas      []FocusArea `json:"focus_areas"`
}

type ChatMessage struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// EvaluationSnapshot is the interviewer's rubric-based assessment for a single
// turn. Produced once when the turn is recorded, never mutated afterwards.
type EvaluationSnapshot struct {
	Summary        string             `json:"summary"`
	Strengths      []string           `json:"strengths"`
	Gaps           []string           `json:"gaps"`
	RubricScores   map[string]float64 `json:"rubric_scores"`
	Recommendation string             `json:"recommendation"`
}

// ChatTurn pairs an optional candidate message with the interviewer's reply
// and the evaluation metadata attached to it.
type ChatTurn struct {
	CandidateMessage   *ChatMessage        `json:"candidate_message,omitempty"`
	InterviewerMessage ChatMessage         `json:"interviewer_message"`
	Evaluation         *EvaluationSnapshot `json:"evaluation,omitempty"`
	NextBestAction     string              `json:"next_best_action,omitempty"`
}

// RunningScores maps rubric skill -> latest score observed for that skill.
type RunningScores map[string]float64

// InterviewSession is the in-memory representation of one interview. The
// transcript is append-only; mutation happens only through the session store.
type InterviewSession struct {
	ID               string               `json:"id"`
	Candidate        CandidateProfile     `json:"candidate"`
	Scenario         string               `json:"scenario"`
	WorkbookPlatform WorkbookPlatform     `json:"workbook_platform"`
	State            SessionState         `json:"state"`
	Transcript       []ChatTurn           `json:"transcript"`
	Scores           RunningScores        `json:"running_scores"`
	Artifacts        []SubmissionArtifact `json:"artifacts"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}
