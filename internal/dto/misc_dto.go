package dto

import (
	"time"

	"github.com/civicux/civicux-api/internal/catalog"
)

type DOUHighlight struct {
	ID      int    `json:"id"`
	Tag     string `json:"tag"`
	Title   string `json:"title"`
	Link    string `json:"link"`
	Summary string `json:"summary"`
	Date    string `json:"date"`
}

type DOUPage struct {
	Items      []DOUHighlight `json:"items"`
	NextPage   *int           `json:"nextPage"`
	TotalPages int            `json:"totalPages"`
}

type SummarizeDOURequest struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type MentorChatRequest struct {
	History []ChatMessage `json:"history"`
	Message string        `json:"message"`
}

type MentorChatResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type RewardCategoryGroup struct {
	ID      string           `json:"id"`
	Title   string           `json:"title"`
	Rewards []catalog.Reward `json:"rewards"`
}

type RewardsResponse struct {
	Categories []RewardCategoryGroup `json:"categories"`
}
