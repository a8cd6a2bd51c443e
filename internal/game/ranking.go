package game

import (
	"sort"

	"trivia-game-service/internal/domain"
)

// Rank orders results by points (desc) then total time (asc) and numbers
// them 1..N. Exact ties keep their input order.
func Rank(results []domain.PlayerResult) []domain.LeaderboardEntry {
	sorted := make([]domain.PlayerResult, len(results))
	copy(sorted, results)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Points != sorted[j].Points {
			return sorted[i].Points > sorted[j].Points
		}
		return sorted[i].TotalTime < sorted[j].TotalTime
	})

	entries := make([]domain.LeaderboardEntry, len(sorted))
	for i, res := range sorted {
		entries[i] = domain.LeaderboardEntry{
			Rank:           i + 1,
			UserID:         res.PlayerID,
			Username:       res.Username,
			Points:         res.Points,
			TimeTaken:      res.TotalTime,
			CorrectAnswers: res.CorrectAnswers,
		}
	}
	return entries
}
