package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"chitfund-backend/internal/models"
)

// overdueSweeper is the part of the ledger the scheduler drives
type overdueSweeper interface {
	SweepOverdue(ctx context.Context) ([]models.OverdueMember, error)
}

// SchedulerService runs the overdue sweep on a cron schedule
type SchedulerService struct {
	ledger  overdueSweeper
	log     *zap.SugaredLogger
	cron    *cron.Cron
	timeout time.Duration
}

// NewSchedulerService creates a scheduler evaluating cron expressions in loc
func NewSchedulerService(ledger overdueSweeper, loc *time.Location, log *zap.SugaredLogger) *SchedulerService {
	if loc == nil {
		loc = time.UTC
	}
	return &SchedulerService{
		ledger:  ledger,
		log:     log,
		cron:    cron.New(cron.WithLocation(loc)),
		timeout: time.Minute,
	}
}

// Start schedules the sweep and begins running it
func (s *SchedulerService) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.RunSweep); err != nil {
		return fmt.Errorf("unable to schedule overdue sweep: %w", err)
	}

	s.cron.Start()
	s.log.Infow("⏰ Overdue sweep scheduled", "schedule", schedule)
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (s *SchedulerService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Scheduler stopped")
}

// RunSweep re-evaluates every committee and logs the members overdue on their current month
func (s *SchedulerService) RunSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	overdue, err := s.ledger.SweepOverdue(ctx)
	if err != nil {
		s.log.Errorw("❌ Overdue sweep failed", "error", err)
		return
	}

	for _, m := range overdue {
		s.log.Warnw("⚠️ Member overdue", "committeeId", m.CommitteeID, "member", m.MemberName,
			"month", m.Month, "daysLate", m.DaysLate, "accruedFee", m.AccruedFee)
	}
	s.log.Infow("✅ Overdue sweep finished", "overdueMembers", len(overdue))
}
