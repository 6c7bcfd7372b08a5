package services

import "alfredoptarigan/excel-interviewer/internal/models"

// FoldScores merges a turn's rubric scores into the running scorecard.
// Most-recent-wins: every key present in incoming replaces the prior value,
// keys absent from incoming keep their previous score. A turn's evaluation
// only covers the skills it actually exercised, so averaging across turns
// would dilute the latest signal. Neither input map is mutated.
func FoldScores(current models.RunningScores, incoming map[string]float64) models.RunningScores {
	merged := make(models.RunningScores, len(current)+len(incoming))
	for skill, score := range current {
		merged[skill] = score
	}
	for skill, score := range incoming {
		merged[skill] = score
	}
	return merged
}
