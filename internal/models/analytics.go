package models

import (
	"time"

	"github.com/google/uuid"
)

// GroupCount is one bucket of a grouped count (category, department or
// priority).
type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// TimeBucket is one day of complaint volume.
type TimeBucket struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// StatsOverview is the lightweight admin counters block.
type StatsOverview struct {
	Total       int64        `json:"total"`
	Pending     int64        `json:"pending"`
	InProgress  int64        `json:"in_progress"`
	Resolved    int64        `json:"resolved"`
	Categories  []GroupCount `json:"categories"`
	Departments []GroupCount `json:"departments"`
}

// TopComplaint is one entry in the most-voted ranking.
type TopComplaint struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Category  Category  `json:"category"`
	Status    Status    `json:"status"`
	VoteCount int       `json:"vote_count"`
}

// FeedbackStats summarizes citizen satisfaction.
type FeedbackStats struct {
	AverageRating float64 `json:"average_rating"`
	TotalFeedback int64   `json:"total_feedback"`
}

// AnalyticsOverview is the full analytics payload, computed fresh from
// the complaint store on every request.
type AnalyticsOverview struct {
	Overview              StatsOverview  `json:"overview"`
	Priorities            []GroupCount   `json:"priorities"`
	AverageResolutionDays float64        `json:"average_resolution_days"`
	ComplaintsByTime      []TimeBucket   `json:"complaints_by_time"`
	TopVotedComplaints    []TopComplaint `json:"top_voted_complaints"`
	Feedback              FeedbackStats  `json:"feedback"`
}

// DashboardSummary is the admin landing-page counters.
type DashboardSummary struct {
	Complaints struct {
		Total      int64 `json:"total"`
		Pending    int64 `json:"pending"`
		InProgress int64 `json:"in_progress"`
		Resolved   int64 `json:"resolved"`
		Escalated  int64 `json:"escalated"`
	} `json:"complaints"`
	Users struct {
		Total   int64 `json:"total"`
		Active  int64 `json:"active"`
		Blocked int64 `json:"blocked"`
	} `json:"users"`
}

// ComplaintReport is the per-complaint export for administrators.
type ComplaintReport struct {
	Complaint     Complaint      `json:"complaint"`
	Citizen       *User          `json:"citizen,omitempty"`
	StatusUpdates []StatusUpdate `json:"status_updates"`
	GeneratedAt   time.Time      `json:"generated_at"`
}
