package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/aawaaz/civic-complaints-server/internal/models"
)

// AnalyticsService computes aggregates over the complaint store on
// demand. Nothing is cached: every call costs one pass over the data,
// which is acceptable at municipal scale.
type AnalyticsService struct {
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(db *pgxpool.Pool, logger *zap.SugaredLogger) *AnalyticsService {
	return &AnalyticsService{db: db, logger: logger}
}

// StatsOverview returns the counters block for the admin stats endpoint.
func (s *AnalyticsService) StatsOverview(ctx context.Context) (*models.StatsOverview, error) {
	var overview models.StatsOverview

	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'in_progress'),
			COUNT(*) FILTER (WHERE status = 'resolved')
		FROM complaints
	`
	err := s.db.QueryRow(ctx, query).Scan(
		&overview.Total, &overview.Pending, &overview.InProgress, &overview.Resolved,
	)
	if err != nil {
		return nil, fmt.Errorf("count complaints: %w", err)
	}

	if overview.Categories, err = s.groupCounts(ctx, "category"); err != nil {
		return nil, err
	}
	if overview.Departments, err = s.groupCounts(ctx, "assigned_department"); err != nil {
		return nil, err
	}
	return &overview, nil
}

// Overview returns the full analytics payload for a trailing window of
// periodDays (default 30).
func (s *AnalyticsService) Overview(ctx context.Context, periodDays int) (*models.AnalyticsOverview, error) {
	if periodDays <= 0 {
		periodDays = 30
	}

	stats, err := s.StatsOverview(ctx)
	if err != nil {
		return nil, err
	}

	result := &models.AnalyticsOverview{Overview: *stats}

	if result.Priorities, err = s.groupCounts(ctx, "priority"); err != nil {
		return nil, err
	}

	// Resolution time: creation to last update, averaged in days over
	// resolved complaints.
	err = s.db.QueryRow(ctx, `
		SELECT COALESCE(AVG(EXTRACT(EPOCH FROM updated_at - created_at) / 86400), 0)
		FROM complaints WHERE status = 'resolved'
	`).Scan(&result.AverageResolutionDays)
	if err != nil {
		return nil, fmt.Errorf("average resolution time: %w", err)
	}

	if result.ComplaintsByTime, err = s.timeBuckets(ctx, periodDays); err != nil {
		return nil, err
	}
	if result.TopVotedComplaints, err = s.topVoted(ctx, 10); err != nil {
		return nil, err
	}

	err = s.db.QueryRow(ctx, `
		SELECT COALESCE(AVG(feedback_rating), 0), COUNT(feedback_rating)
		FROM complaints WHERE feedback_rating IS NOT NULL
	`).Scan(&result.Feedback.AverageRating, &result.Feedback.TotalFeedback)
	if err != nil {
		return nil, fmt.Errorf("feedback stats: %w", err)
	}

	return result, nil
}

// DashboardSummary returns the admin landing-page counters.
func (s *AnalyticsService) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	var summary models.DashboardSummary

	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'in_progress'),
			COUNT(*) FILTER (WHERE status = 'resolved'),
			COUNT(*) FILTER (WHERE escalated)
		FROM complaints
	`).Scan(
		&summary.Complaints.Total, &summary.Complaints.Pending,
		&summary.Complaints.InProgress, &summary.Complaints.Resolved,
		&summary.Complaints.Escalated,
	)
	if err != nil {
		return nil, fmt.Errorf("complaint summary: %w", err)
	}

	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE NOT is_active)
		FROM users WHERE role = 'citizen'
	`).Scan(&summary.Users.Total, &summary.Users.Active, &summary.Users.Blocked)
	if err != nil {
		return nil, fmt.Errorf("user summary: %w", err)
	}

	return &summary, nil
}

// groupCounts counts complaints grouped by one whitelisted column.
func (s *AnalyticsService) groupCounts(ctx context.Context, column string) ([]models.GroupCount, error) {
	switch column {
	case "category", "assigned_department", "priority":
	default:
		return nil, fmt.Errorf("unsupported group column %q", column)
	}

	query := fmt.Sprintf(
		"SELECT %s, COUNT(*) FROM complaints GROUP BY %s ORDER BY COUNT(*) DESC",
		column, column,
	)
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("group by %s: %w", column, err)
	}
	defer rows.Close()

	var counts []models.GroupCount
	for rows.Next() {
		var g models.GroupCount
		if err := rows.Scan(&g.Key, &g.Count); err != nil {
			return nil, fmt.Errorf("scan group count: %w", err)
		}
		counts = append(counts, g)
	}
	return counts, rows.Err()
}

func (s *AnalyticsService) timeBuckets(ctx context.Context, days int) ([]models.TimeBucket, error) {
	query := `
		SELECT TO_CHAR(DATE_TRUNC('day', created_at), 'YYYY-MM-DD') AS date, COUNT(*)
		FROM complaints
		WHERE created_at > NOW() - INTERVAL '1 day' * $1
		GROUP BY DATE_TRUNC('day', created_at)
		ORDER BY date ASC
	`
	rows, err := s.db.Query(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("time buckets: %w", err)
	}
	defer rows.Close()

	var buckets []models.TimeBucket
	for rows.Next() {
		var b models.TimeBucket
		if err := rows.Scan(&b.Date, &b.Count); err != nil {
			return nil, fmt.Errorf("scan time bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func (s *AnalyticsService) topVoted(ctx context.Context, limit int) ([]models.TopComplaint, error) {
	query := `
		SELECT id, title, category, status, vote_count
		FROM complaints
		ORDER BY vote_count DESC, created_at DESC
		LIMIT $1
	`
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("top voted: %w", err)
	}
	defer rows.Close()

	var top []models.TopComplaint
	for rows.Next() {
		var t models.TopComplaint
		if err := rows.Scan(&t.ID, &t.Title, &t.Category, &t.Status, &t.VoteCount); err != nil {
			return nil, fmt.Errorf("scan top complaint: %w", err)
		}
		top = append(top, t)
	}
	return top, rows.Err()
}
