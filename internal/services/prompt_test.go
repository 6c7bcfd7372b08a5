package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/excel-interviewer/internal/models"
	"alfredoptarigan/excel-interviewer/internal/services"
)

func newPromptBuilder() *services.PromptBuilder {
	return services.NewPromptBuilder(zap.NewNop())
}

func sampleCandidate() models.CandidateProfile {
	return models.CandidateProfile{
		Name:            "Dana Reyes",
		CurrentRole:     "Financial Analyst",
		YearsExperience: 6,
		TargetRole:      "Senior FP&A Analyst",
		FocusAreas:      []models.FocusArea{models.FocusAdvancedFormulas, models.FocusAutomation},
	}
}

func TestSystemPromptCarriesRubricAndContract(t *testing.T) {
	prompt := newPromptBuilder().BuildSystemPrompt()

	for _, skill := range services.SkillRubric {
		assert.Contains(t, prompt, skill.Name)
	}
	assert.Contains(t, prompt, "0-5 scale")
	assert.Contains(t, prompt, `"interviewer_message"`)
	assert.Contains(t, prompt, `"rubric_scores"`)
	assert.Contains(t, prompt, "awaiting_candidate")
}

func TestBootstrapPromptIncludesCandidateAndScenario(t *testing.T) {
	prompt := newPromptBuilder().BuildBootstrapPrompt(sampleCandidate(), "quarterly variance review", models.PlatformMicrosoftExcel)

	assert.Contains(t, prompt, "Dana Reyes")
	assert.Contains(t, prompt, "Senior FP&A Analyst")
	assert.Contains(t, prompt, "quarterly variance review")
	assert.Contains(t, prompt, "advanced formulas, automation")
}

func TestBootstrapPromptPlatformVocabulary(t *testing.T) {
	pb := newPromptBuilder()

	excel := pb.BuildBootstrapPrompt(sampleCandidate(), "s", models.PlatformMicrosoftExcel)
	sheets := pb.BuildBootstrapPrompt(sampleCandidate(), "s", models.PlatformGoogleSheets)

	assert.Contains(t, excel, "Power Query")
	assert.Contains(t, excel, "VBA")
	assert.NotContains(t, excel, "ARRAYFORMULA")

	assert.Contains(t, sheets, "ARRAYFORMULA")
	assert.Contains(t, sheets, "Apps Script")
	assert.NotContains(t, sheets, "VBA")
}

func TestParseTurnReplyValid(t *testing.T) {
	raw := "```json\n" + `{
		"interviewer_message": "Walk me through your XLOOKUP approach.",
		"evaluation": {
			"summary": "Solid grasp of lookups.",
			"strengths": ["clear structure"],
			"gaps": ["no error handling"],
			"rubric_scores": {"excel_functions": 3.5},
			"recommendation": "probe IFERROR usage"
		},
		"next_best_action": "dive deeper"
	}` + "\n```"

	reply, err := newPromptBuilder().ParseTurnReply(raw)
	require.NoError(t, err)

	assert.Equal(t, "Walk me through your XLOOKUP approach.", reply.InterviewerMessage)
	assert.Equal(t, "dive deeper", reply.NextBestAction)
	require.NotNil(t, reply.Evaluation)
	assert.Equal(t, 3.5, reply.Evaluation.RubricScores["excel_functions"])
}

func TestParseTurnReplyWithoutEvaluation(t *testing.T) {
	reply, err := newPromptBuilder().ParseTurnReply(`{"interviewer_message": "Welcome!"}`)
	require.NoError(t, err)

	assert.Nil(t, reply.Evaluation)
}

func TestParseTurnReplyMissingInterviewerMessage(t *testing.T) {
	_, err := newPromptBuilder().ParseTurnReply(`{"evaluation": null}`)
	require.Error(t, err)

	kind, ok := services.GenerationFailureOf(err)
	require.True(t, ok)
	assert.Equal(t, services.GenerationInvalidReply, kind)
}

func TestParseTurnReplyRejectsOutOfRangeScore(t *testing.T) {
	raw := `{
		"interviewer_message": "Next question.",
		"evaluation": {
			"summary": "s",
			"strengths": [],
			"gaps": [],
			"rubric_scores": {"excel_functions": 7},
			"recommendation": "r"
		}
	}`

	_, err := newPromptBuilder().ParseTurnReply(raw)
	require.Error(t, err)

	kind, ok := services.GenerationFailureOf(err)
	require.True(t, ok)
	assert.Equal(t, services.GenerationInvalidReply, kind)
}

func TestParseTurnReplyDropsUnknownSkills(t *testing.T) {
	raw := `{
		"interviewer_message": "Next question.",
		"evaluation": {
			"summary": "s",
			"strengths": [],
			"gaps": [],
			"rubric_scores": {"excel_functions": 4, "juggling": 5},
			"recommendation": "r"
		}
	}`

	reply, err := newPromptBuilder().ParseTurnReply(raw)
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"excel_functions": 4}, reply.Evaluation.RubricScores)
}

func TestParseTurnReplyIncompleteEvaluation(t *testing.T) {
	raw := `{
		"interviewer_message": "Next question.",
		"evaluation": {"summary": "s", "rubric_scores": {}}
	}`

	_, err := newPromptBuilder().ParseTurnReply(raw)
	require.Error(t, err)

	kind, ok := services.GenerationFailureOf(err)
	require.True(t, ok)
	assert.Equal(t, services.GenerationInvalidReply, kind)
}

func TestParseTurnReplyNotJSON(t *testing.T) {
	_, err := newPromptBuilder().ParseTurnReply("I would rather chat informally.")
	require.Error(t, err)

	kind, ok := services.GenerationFailureOf(err)
	require.True(t, ok)
	assert.Equal(t, services.GenerationInvalidReply, kind)
}

func TestParseSummaryReplyValid(t *testing.T) {
	raw := `{
		"overall_summary": "Strong analyst, needs automation depth.",
		"scorecard": {"excel_functions": 4, "automation": 2.5},
		"next_steps": ["Practice Power Query", "Record a macro"]
	}`

	reply, err := newPromptBuilder().ParseSummaryReply(raw)
	require.NoError(t, err)

	assert.Equal(t, "Strong analyst, needs automation depth.", reply.OverallSummary)
	assert.Len(t, reply.NextSteps, 2)
	assert.Equal(t, 2.5, reply.Scorecard["automation"])
}

func TestParseSummaryReplyMissingFields(t *testing.T) {
	for name, raw := range map[string]string{
		"no summary":   `{"scorecard": {}, "next_steps": []}`,
		"no scorecard": `{"overall_summary": "x", "next_steps": []}`,
		"no steps":     `{"overall_summary": "x", "scorecard": {}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := newPromptBuilder().ParseSummaryReply(raw)
			require.Error(t, err)

			kind, ok := services.GenerationFailureOf(err)
			require.True(t, ok)
			assert.Equal(t, services.GenerationInvalidReply, kind)
		})
	}
}
