package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"alfredoptarigan/excel-interviewer/internal/models"
	"alfredoptarigan/excel-interviewer/internal/services"
)

func TestFoldScoresEmptyIncomingIsIdentity(t *testing.T) {
	current := models.RunningScores{"excel_functions": 3.5, "automation": 2}

	folded := services.FoldScores(current, map[string]float64{})

	assert.Equal(t, current, folded)
}

func TestFoldScoresMostRecentWins(t *testing.T) {
	current := models.RunningScores{"excel_functions": 1, "data_analysis": 4}

	folded := services.FoldScores(current, map[string]float64{"excel_functions": 3})

	assert.Equal(t, 3.0, folded["excel_functions"])
	assert.Equal(t, 4.0, folded["data_analysis"], "unmentioned keys must be untouched")
}

func TestFoldScoresAddsNewSkills(t *testing.T) {
	folded := services.FoldScores(models.RunningScores{}, map[string]float64{"storytelling": 4.5})

	assert.Equal(t, models.RunningScores{"storytelling": 4.5}, folded)
}

func TestFoldScoresDoesNotMutateInputs(t *testing.T) {
	current := models.RunningScores{"automation": 2}
	incoming := map[string]float64{"automation": 5}

	services.FoldScores(current, incoming)

	assert.Equal(t, 2.0, current["automation"])
	assert.Equal(t, 5.0, incoming["automation"])
}
