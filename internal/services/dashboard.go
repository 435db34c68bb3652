package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/ideabox-backend/internal/data/repos"
	types "github.com/yungbote/ideabox-backend/internal/domain"
	"github.com/yungbote/ideabox-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/ideabox-backend/internal/pkg/errors"
	"github.com/yungbote/ideabox-backend/internal/platform/logger"
)

const RecentIdeasLimit = 3

type MonthPoint struct {
	Month string `json:"month"`
	Value int64  `json:"value"`
}

type MonthlySeries struct {
	Created    []MonthPoint `json:"created"`
	InProgress []MonthPoint `json:"in_progress"`
	Completed  []MonthPoint `json:"completed"`
}

type Change struct {
	Percentage float64 `json:"percentage"`
	IsPositive bool    `json:"is_positive"`
}

type Changes struct {
	Created    Change `json:"created"`
	InProgress Change `json:"in_progress"`
	Completed  Change `json:"completed"`
}

type DashboardStats struct {
	TotalCount      int64         `json:"total_count"`
	InProgressCount int64         `json:"in_progress_count"`
	CompletedCount  int64         `json:"completed_count"`
	RecentIdeas     []*types.Idea `json:"recent_ideas"`
	Monthly         MonthlySeries `json:"monthly"`
	Changes         Changes       `json:"changes"`
}

// DashboardService recomputes the aggregate view from current rows on
// every call. Nothing is cached server-side.
type DashboardService interface {
	Aggregate(ctx context.Context, ownerID uuid.UUID) (*DashboardStats, error)
}

type dashboardService struct {
	log      *logger.Logger
	ideaRepo repos.IdeaRepo
}

func NewDashboardService(log *logger.Logger, ideaRepo repos.IdeaRepo) DashboardService {
	return &dashboardService{log: log.With("service", "DashboardService"), ideaRepo: ideaRepo}
}

func (s *dashboardService) Aggregate(ctx context.Context, ownerID uuid.UUID) (*DashboardStats, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)

	counts, err := s.ideaRepo.CountByStatus(dbc, ownerID)
	if err != nil {
		return nil, s.fail("dashboard.counts", ownerID, err)
	}
	recent, err := s.ideaRepo.ListRecentCreated(dbc, ownerID, RecentIdeasLimit)
	if err != nil {
		return nil, s.fail("dashboard.recent", ownerID, err)
	}
	timeline, err := s.ideaRepo.ListTimeline(dbc, ownerID)
	if err != nil {
		return nil, s.fail("dashboard.timeline", ownerID, err)
	}

	stats := &DashboardStats{
		InProgressCount: counts[types.StatusInProgress],
		CompletedCount:  counts[types.StatusCompleted],
		RecentIdeas:     recent,
		Monthly:         BucketMonthly(timeline),
	}
	for _, n := range counts {
		stats.TotalCount += n
	}
	stats.Changes = Changes{
		Created:    ChangePercentage(stats.Monthly.Created),
		InProgress: ChangePercentage(stats.Monthly.InProgress),
		Completed:  ChangePercentage(stats.Monthly.Completed),
	}
	return stats, nil
}

func (s *dashboardService) fail(op string, ownerID uuid.UUID, err error) error {
	s.log.Error("dashboard store failure", "op", op, "owner_id", ownerID, "error", err)
	return apperrors.Upstream(op, err)
}

func monthKey(t time.Time) string { return t.UTC().Format("2006-01") }

// BucketMonthly groups rows into YYYY-MM buckets. Created counts every row by
// created_at; in-progress and completed count rows currently in that status
// by updated_at, the closest available proxy for when they entered it.
// Only months with data appear, oldest first.
func BucketMonthly(rows []repos.IdeaTimelineRow) MonthlySeries {
	created := map[string]int64{}
	inProgress := map[string]int64{}
	completed := map[string]int64{}
	for _, r := range rows {
		created[monthKey(r.CreatedAt)]++
		switch r.Status {
		case types.StatusInProgress:
			inProgress[monthKey(r.UpdatedAt)]++
		case types.StatusCompleted:
			completed[monthKey(r.UpdatedAt)]++
		}
	}
	return MonthlySeries{
		Created:    toSeries(created),
		InProgress: toSeries(inProgress),
		Completed:  toSeries(completed),
	}
}

func toSeries(m map[string]int64) []MonthPoint {
	out := make([]MonthPoint, 0, len(m))
	for k, v := range m {
		out = append(out, MonthPoint{Month: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// ChangePercentage compares the last two points of a series. A missing
// previous point counts as zero; a zero previous yields 100 (or 0 when the
// current point is zero too).
func ChangePercentage(series []MonthPoint) Change {
	if len(series) == 0 {
		return Change{Percentage: 0, IsPositive: true}
	}
	current := float64(series[len(series)-1].Value)
	previous := 0.0
	if len(series) > 1 {
		previous = float64(series[len(series)-2].Value)
	}
	var pct float64
	switch {
	case previous == 0 && current == 0:
		pct = 0
	case previous == 0:
		pct = 100
	default:
		pct = (current - previous) / previous * 100
	}
	return Change{Percentage: pct, IsPositive: pct >= 0}
}
