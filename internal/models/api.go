package models

type SessionCreateRequest struct {
	Candidate        CandidateProfile `json:"candidate"`
	Scenario         string           `json:"scenario"`
	WorkbookPlatform WorkbookPlatform `json:"workbook_platform"`
}

type SessionCreateResponse struct {
	SessionID string   `json:"session_id"`
	FirstTurn ChatTurn `json:"first_turn"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Turn          ChatTurn      `json:"turn"`
	RunningScores RunningScores `json:"running_scores"`
	TotalTurns    int           `json:"total_turns"`
}

type SummaryResponse struct {
	SessionID            string        `json:"session_id"`
	Transcript           []ChatTurn    `json:"transcript"`
	FinalSummary         string        `json:"final_summary"`
	RecommendedNextSteps []string      `json:"recommended_next_steps"`
	OverallScores        RunningScores `json:"overall_scores"`
}

type ArtifactLinkRequest struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

type ArtifactUploadResponse struct {
	Artifact SubmissionArtifact `json:"artifact"`
}

type ArtifactListResponse struct {
	Artifacts []SubmissionArtifact `json:"artifacts"`
}
