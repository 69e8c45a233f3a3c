package dto

import "github.com/civicux/civicux-api/internal/models"

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type CreateReportRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    int      `json:"severity"`
	Department  string   `json:"department"`
	Location    Location `json:"location"`
	Address     string   `json:"address"`
	ImageURL    string   `json:"imageUrl"`
}

type VoteReportRequest struct {
	Type    string `json:"type"`
	Comment string `json:"comment"`
}

type UpdateReportStatusRequest struct {
	Status string `json:"status"`
}

// ReportItem is a report as listed to a viewer; UserVote is null when the
// viewer is unknown or hasn't voted.
type ReportItem struct {
	models.Report
	UserVote *string `json:"userVote"`
}

type ReportPage struct {
	Items      []ReportItem `json:"items"`
	Page       int          `json:"page"`
	TotalPages int          `json:"totalPages"`
	NextPage   *int         `json:"nextPage"`
	Total      int64        `json:"total"`
}

// ActionResult accompanies a gamified action with what it unlocked.
type ActionResult struct {
	NewAchievements []string `json:"newAchievements"`
}

type CreateReportResponse struct {
	*models.Report
	ActionResult
}

type VoteResponse struct {
	*models.Vote
	ActionResult
}

type AnalyzeImageRequest struct {
	ImageURL string `json:"imageUrl"`
}

type ImageAnalysis struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    int    `json:"severity"`
	Department  string `json:"department"`
}

type UploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

type GeocodeResponse struct {
	Address string `json:"address"`
}
