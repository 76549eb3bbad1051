package models

// SportEvent is a live sports fixture shown on the sports grid.
type SportEvent struct {
	ID        int64  `json:"id"`
	Sport     string `json:"sport"`
	League    string `json:"league"`
	Team1     string `json:"team1"`
	Team2     string `json:"team2"`
	Team1Logo string `json:"team1Logo"`
	Team2Logo string `json:"team2Logo"`
	Score     string `json:"score"`
	Time      string `json:"time"`
	Icon      string `json:"icon"`
}
