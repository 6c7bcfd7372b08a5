package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/excel-interviewer/internal/models"
)

type RubricSkill struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SkillRubric is the fixed scoring vocabulary for the whole service. Scores
// for skills outside this list never reach RunningScores.
var SkillRubric = []RubricSkill{
	{Name: "excel_functions", Description: "Ability to apply advanced formulas (INDEX/MATCH, XLOOKUP, array formulas)."},
	{Name: "data_analysis", Description: "Skill in manipulating, cleaning, and analyzing datasets using tables, pivot tables, and Power Query."},
	{Name: "automation", Description: "Proficiency with macros, VBA, Office Scripts, and process automation within Excel."},
	{Name: "business_acumen", Description: "Ability to translate business problems into analytical Excel solutions and communicate insights."},
	{Name: "storytelling", Description: "Clarity and structure when presenting findings, including dashboards and executive-ready narratives."},
}

func IsRubricSkill(name string) bool {
	for _, skill := range SkillRubric {
		if skill.Name == name {
			return true
		}
	}
	return false
}

type platformGuidance struct {
	label   string
	bullets []string
}

var workbookPlatformGuidance = map[models.WorkbookPlatform]platformGuidance{
	models.PlatformMicrosoftExcel: {
		label: "Microsoft Excel (desktop or web)",
		bullets: []string{
			"Provide .xlsx-style directions with sheet names, tables, and pivot layouts.",
			"Encourage Power Query, Power Pivot, VBA, or Office Scripts when automation adds value.",
			"Reference keyboard shortcuts or formula auditing tools where appropriate.",
			"Explain how to package the workbook for upload (clean tabs, highlight assumptions, include notes).",
		},
	},
	models.PlatformGoogleSheets: {
		label: "Google Sheets (browser-based)",
		bullets: []string{
			"Deliver tasks that leverage collaborative features, FILTER/ARRAYFORMULA functions, and connected Sheets data.",
			"Mention how to access Apps Script or Connected Sheets where automation or BigQuery data is useful.",
			"Highlight browser-friendly steps such as sharing the sheet, protecting ranges, or using Explore insights.",
			"Remind the candidate to grant view access and paste the share link via the submission panel when ready.",
		},
	},
}

// PromptBuilder produces the structured instructions sent to the generation
// service and validates its structured replies.
type PromptBuilder struct {
	logger *zap.Logger
}

func NewPromptBuilder(logger *zap.Logger) *PromptBuilder {
	return &PromptBuilder{logger: logger}
}

// BuildSystemPrompt returns the interviewer persona instruction, including the
// scoring rubric and the strict JSON reply contract.
func (pb *PromptBuilder) BuildSystemPrompt() string {
	var rubricLines []string
	for _, skill := range SkillRubric {
		rubricLines = append(rubricLines, fmt.Sprintf("- %s: %s", skill.Name, skill.Description))
	}

	return fmt.Sprintf(`You are "Apex Excel Interviewer", an experienced hiring panel lead for enterprise Finance, Strategy, and Analytics roles. Your objective is to run a rigorous, conversation-style mock interview that measures advanced spreadsheet mastery, problem-solving depth, and business reasoning. Always operate with a calm, structured, and professional tone that mirrors a top-tier consulting firm.

Interview playbook:
1. Tailor the opening to the candidate's background, target role, and declared focus areas.
2. Present scenario-driven exercises with crystal-clear deliverables. List the data sources, sheet names, key columns, and expected outputs before asking the candidate to begin.
3. Ask one question at a time and pause for the candidate's reply. Escalate difficulty gradually while keeping the storyline grounded in enterprise-scale operations.
4. When referencing datasets, describe how to navigate the workbook (tabs, named ranges, filters) and call out any formulas, pivot tables, or automations they should attempt.
5. Remind the candidate they can upload their workbook or share a spreadsheet link through the submission panel whenever they finish an exercise.
6. After each response, provide a concise evaluation grounded in the rubric below. Highlight exemplary elements that a top-performing answer would showcase and propose the next investigative step.

Scoring rubric (0-5 scale in half-point increments, where 0 = no evidence and 5 = expert):
%s
Only score the skills a response actually exercised.

Response formatting rules:
- Always respond with strictly valid JSON.
- The JSON must contain the keys: "interviewer_message" (string), "evaluation" (object), and "next_best_action" (string).
- The "evaluation" object must include: "summary" (string), "strengths" (array of strings), "gaps" (array of strings), "rubric_scores" (object of skill -> number between 0 and 5), "recommendation" (string).
- When the candidate has not yet responded (e.g., first question), set "strengths" and "gaps" to empty arrays, "rubric_scores" to an empty object, and "recommendation" to "awaiting_candidate".
- Never include markdown, code fences, or explanatory text outside of the JSON structure.`,
		strings.Join(rubricLines, "\n"))
}

// BuildBootstrapPrompt composes the instruction that seeds the first turn of a
// session from the candidate profile, scenario, and workbook platform.
func (pb *PromptBuilder) BuildBootstrapPrompt(candidate models.CandidateProfile, scenario string, platform models.WorkbookPlatform) string {
	focus := "balanced coverage"
	if len(candidate.FocusAreas) > 0 {
		var areas []string
		for _, area := range candidate.FocusAreas {
			areas = append(areas, strings.ReplaceAll(string(area), "_", " "))
		}
		focus = strings.Join(areas, ", ")
	}

	guidance, ok := workbookPlatformGuidance[platform]
	if !ok {
		guidance = workbookPlatformGuidance[models.PlatformMicrosoftExcel]
	}
	var bullets []string
	for _, line := range guidance.bullets {
		bullets = append(bullets, "- "+line)
	}

	return fmt.Sprintf(`Candidate profile:
- Name: %s
- Current role: %s
- Years of experience: %.1f
- Target role: %s

Interview scenario: %s
Priority focus areas: %s
Workbook environment: %s

Instructions:
1. Greet the candidate succinctly and set expectations for a 30-minute technical spreadsheet interview.
2. Introduce a scenario-aligned challenge that spells out the business problem, expected analyses, and the stakeholders awaiting the deliverable.
3. Summarize the dataset they will work with: sheet names, critical columns, row volumes, and any calculated fields they should create.
4. Ask for the candidate's proposed approach and instruct them to narrate formulas, transformations, and quality checks before execution.
5. After each response, critique concisely, link feedback to the rubric, and recommend the next logical probe or stretch objective.
6. Remind the candidate they can upload the workbook or share a spreadsheet link through the submission panel whenever they want you to review their progress.

Spreadsheet delivery checklist:
%s`,
		candidate.Name,
		candidate.CurrentRole,
		candidate.YearsExperience,
		candidate.TargetRole,
		scenario,
		focus,
		guidance.label,
		strings.Join(bullets, "\n"))
}

// BuildSummaryPrompt requests a holistic wrap-up of the interview so far.
// transcriptJSON carries the full serialized transcript.
func (pb *PromptBuilder) BuildSummaryPrompt(candidate models.CandidateProfile, transcriptJSON string) string {
	return fmt.Sprintf(`Provide a final debrief for the spreadsheet mock interview below. Summarize readiness for the target role, quantify the candidate's proficiency per rubric skill, and list concrete next steps to improve.

Candidate: %s applying for %s
Transcript JSON: %s

Respond using valid JSON with keys "overall_summary" (string), "scorecard" (object of skill -> number between 0 and 5), and "next_steps" (array of strings). Keep insights actionable and reference specific behaviors from the conversation.`,
		candidate.Name, candidate.TargetRole, transcriptJSON)
}

// TurnReply is the validated payload of a per-turn structured reply.
type TurnReply struct {
	InterviewerMessage string
	Evaluation         *models.EvaluationSnapshot
	NextBestAction     string
}

// SummaryReply is the validated payload of a summary-mode structured reply.
type SummaryReply struct {
	OverallSummary string
	Scorecard      map[string]float64
	NextSteps      []string
}

type rawTurnReply struct {
	InterviewerMessage *string        `json:"interviewer_message"`
	Evaluation         *rawEvaluation `json:"evaluation"`
	NextBestAction     *string        `json:"next_best_action"`
}

type rawEvaluation struct {
	Summary        *string            `json:"summary"`
	Strengths      *[]string          `json:"strengths"`
	Gaps           *[]string          `json:"gaps"`
	RubricScores   map[string]float64 `json:"rubric_scores"`
	Recommendation *string            `json:"recommendation"`
}

type rawSummaryReply struct {
	OverallSummary *string            `json:"overall_summary"`
	Scorecard      map[string]float64 `json:"scorecard"`
	NextSteps      *[]string          `json:"next_steps"`
}

// ParseTurnReply validates a raw per-turn reply against the contract. Missing
// required fields or out-of-range scores fail with an invalid-reply
// GenerationError; scores are never silently clamped, since unchecked trust
// would corrupt the running scorecard.
func (pb *PromptBuilder) ParseTurnReply(raw string) (*TurnReply, error) {
	var reply rawTurnReply
	if err := json.Unmarshal([]byte(extractJSON(raw)), &reply); err != nil {
		return nil, newGenerationError(GenerationInvalidReply, "reply is not valid JSON: %w", err)
	}

	if reply.InterviewerMessage == nil || strings.TrimSpace(*reply.InterviewerMessage) == "" {
		return nil, newGenerationError(GenerationInvalidReply, "reply is missing interviewer_message")
	}

	parsed := &TurnReply{InterviewerMessage: *reply.InterviewerMessage}
	if reply.NextBestAction != nil {
		parsed.NextBestAction = *reply.NextBestAction
	}

	if reply.Evaluation != nil {
		evaluation, err := pb.validateEvaluation(reply.Evaluation)
		if err != nil {
			return nil, err
		}
		parsed.Evaluation = evaluation
	}

	return parsed, nil
}

func (pb *PromptBuilder) validateEvaluation(raw *rawEvaluation) (*models.EvaluationSnapshot, error) {
	switch {
	case raw.Summary == nil:
		return nil, newGenerationError(GenerationInvalidReply, "evaluation is missing summary")
	case raw.Strengths == nil:
		return nil, newGenerationError(GenerationInvalidReply, "evaluation is missing strengths")
	case raw.Gaps == nil:
		return nil, newGenerationError(GenerationInvalidReply, "evaluation is missing gaps")
	case raw.RubricScores == nil:
		return nil, newGenerationError(GenerationInvalidReply, "evaluation is missing rubric_scores")
	case raw.Recommendation == nil:
		return nil, newGenerationError(GenerationInvalidReply, "evaluation is missing recommendation")
	}

	scores, err := pb.validateScores(raw.RubricScores)
	if err != nil {
		return nil, err
	}

	return &models.EvaluationSnapshot{
		Summary:        *raw.Summary,
		Strengths:      *raw.Strengths,
		Gaps:           *raw.Gaps,
		RubricScores:   scores,
		Recommendation: *raw.Recommendation,
	}, nil
}

// validateScores enforces the 0-5 range and drops skills outside the fixed
// vocabulary so the RunningScores key set stays stable per session.
func (pb *PromptBuilder) validateScores(scores map[string]float64) (map[string]float64, error) {
	valid := make(map[string]float64, len(scores))
	for skill, score := range scores {
		if !IsRubricSkill(skill) {
			pb.logger.Warn("dropping score for unknown rubric skill",
				zap.String("skill", skill),
				zap.Float64("score", score))
			continue
		}
		if score < 0 || score > 5 {
			return nil, newGenerationError(GenerationInvalidReply,
				"score %.2f for skill %q is outside the 0-5 range", score, skill)
		}
		valid[skill] = score
	}
	return valid, nil
}

// ParseSummaryReply validates a raw summary-mode reply against the contract.
func (pb *PromptBuilder) ParseSummaryReply(raw string) (*SummaryReply, error) {
	var reply rawSummaryReply
	if err := json.Unmarshal([]byte(extractJSON(raw)), &reply); err != nil {
		return nil, newGenerationError(GenerationInvalidReply, "summary reply is not valid JSON: %w", err)
	}

	switch {
	case reply.OverallSummary == nil || strings.TrimSpace(*reply.OverallSummary) == "":
		return nil, newGenerationError(GenerationInvalidReply, "summary reply is missing overall_summary")
	case reply.Scorecard == nil:
		return nil, newGenerationError(GenerationInvalidReply, "summary reply is missing scorecard")
	case reply.NextSteps == nil:
		return nil, newGenerationError(GenerationInvalidReply, "summary reply is missing next_steps")
	}

	scorecard, err := pb.validateScores(reply.Scorecard)
	if err != nil {
		return nil, err
	}

	return &SummaryReply{
		OverallSummary: *reply.OverallSummary,
		Scorecard:      scorecard,
		NextSteps:      *reply.NextSteps,
	}, nil
}

// extractJSON strips markdown fences and surrounding prose that models
// sometimes wrap around a JSON payload.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
