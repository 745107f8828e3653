package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/hackathon-hub/models"
	"github.com/Dosada05/hackathon-hub/repositories"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
)

type AnalyticsService interface {
	GetAnalytics(ctx context.Context, now time.Time) (models.Analytics, error)
}

type analyticsService struct {
	userRepo     repositories.UserRepository
	eventRepo    repositories.EventRepository
	proposalRepo repositories.ProposalRepository
}

func NewAnalyticsService(
	userRepo repositories.UserRepository,
	eventRepo repositories.EventRepository,
	proposalRepo repositories.ProposalRepository,
) AnalyticsService {
	return &analyticsService{
		userRepo:     userRepo,
		eventRepo:    eventRepo,
		proposalRepo: proposalRepo,
	}
}

func (s *analyticsService) GetAnalytics(ctx context.Context, now time.Time) (models.Analytics, error) {
	var (
		a                              models.Analytics
		usersThisWeek, usersPrevWeek   int
		teamsThisWeek, teamsPrevWeek   int
		weekAgo, twoWeeksAgo, monthAgo = now.Add(-week), now.Add(-2 * week), now.Add(-month)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { a.UsersTotal, err = s.userRepo.Count(gctx); return })
	g.Go(func() (err error) { a.TeamsTotal, err = s.proposalRepo.Count(gctx); return })
	g.Go(func() (err error) { a.EventsTotal, err = s.eventRepo.Count(gctx, false); return })
	g.Go(func() (err error) { a.ActiveEvents, err = s.eventRepo.Count(gctx, true); return })
	g.Go(func() (err error) { a.ProposalStatus, err = s.proposalRepo.CountByStatus(gctx); return })
	g.Go(func() (err error) {
		a.NewUsersLast30, err = s.userRepo.CountCreatedBetween(gctx, monthAgo, now)
		return
	})
	g.Go(func() (err error) {
		a.NewTeamsLast30, err = s.proposalRepo.CountCreatedBetween(gctx, monthAgo, now)
		return
	})
	g.Go(func() (err error) { usersThisWeek, err = s.userRepo.CountCreatedBetween(gctx, weekAgo, now); return })
	g.Go(func() (err error) {
		usersPrevWeek, err = s.userRepo.CountCreatedBetween(gctx, twoWeeksAgo, weekAgo)
		return
	})
	g.Go(func() (err error) {
		teamsThisWeek, err = s.proposalRepo.CountCreatedBetween(gctx, weekAgo, now)
		return
	})
	g.Go(func() (err error) {
		teamsPrevWeek, err = s.proposalRepo.CountCreatedBetween(gctx, twoWeeksAgo, weekAgo)
		return
	})
	if err := g.Wait(); err != nil {
		return models.Analytics{}, fmt.Errorf("failed to load analytics: %w", err)
	}

	a.UserGrowthWeekly = growth(usersThisWeek, usersPrevWeek)
	a.TeamGrowthWeekly = growth(teamsThisWeek, teamsPrevWeek)
	return a, nil
}

// growth reports 100% when the previous window was empty and the current one is not.
func growth(current, previous int) models.GrowthWindow {
	w := models.GrowthWindow{Current: current, Previous: previous}
	switch {
	case previous == 0 && current == 0:
		w.GrowthPercent = 0
	case previous == 0:
		w.GrowthPercent = 100
	default:
		pct := float64(current-previous) / float64(previous) * 100
		w.GrowthPercent = math.Round(pct*10) / 10
	}
	return w
}
