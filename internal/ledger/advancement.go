package ledger

import (
	"time"

	"chitfund-backend/internal/models"
)

// Decision is the outcome of evaluating the cycle state machine against a snapshot
type Decision struct {
	FromMonth    int
	CurrentMonth int
	Status       models.CommitteeStatus
	CompletedAt  *time.Time
	// ClosedMonths lists every month that became fully paid during this evaluation
	ClosedMonths []int
	Changed      bool
}

// Evaluate decides whether the committee stays on its month, moves forward or completes.
// Active(m) moves to Active(m+1) once every member has paid m, and to Completed once the last
// month is paid or every cycle has been withdrawn. Evaluation runs to a fixpoint so calling it
// again on the result is a no-op. The month pointer never moves backward.
func Evaluate(c *models.Committee, payments []models.Payment, settings models.LateFeeSettings, now time.Time) Decision {
	current := CurrentMonth(c, now)
	d := Decision{
		FromMonth:    current,
		CurrentMonth: current,
		Status:       c.Status,
		CompletedAt:  c.CompletedAt,
	}
	if d.Status == "" {
		d.Status = models.CommitteeStatusActive
	}
	if c.CurrentMonth != current {
		// pointer was missing or out of range; persist the resolved value
		d.Changed = true
	}

	if d.Status == models.CommitteeStatusCompleted || d.CompletedAt != nil {
		if d.Status != models.CommitteeStatusCompleted || d.CompletedAt == nil {
			d.complete(now)
		}
		return d
	}

	if c.Duration > 0 && len(c.MonthlyCycles) >= c.Duration {
		d.complete(now)
		return d
	}

	if c.MemberCount() == 0 {
		return d
	}

	snapshot := *c
	for {
		snapshot.CurrentMonth = d.CurrentMonth
		statuses := Statuses(&snapshot, payments, settings, now)
		if PaidCount(statuses) != c.MemberCount() {
			break
		}

		d.ClosedMonths = append(d.ClosedMonths, d.CurrentMonth)
		d.Changed = true
		if d.CurrentMonth >= c.Duration {
			d.complete(now)
			break
		}
		d.CurrentMonth++
	}

	return d
}

func (d *Decision) complete(now time.Time) {
	d.Status = models.CommitteeStatusCompleted
	if d.CompletedAt == nil {
		completedAt := now
		d.CompletedAt = &completedAt
	}
	d.Changed = true
}

// Apply writes the decision onto the committee
func (d Decision) Apply(c *models.Committee) {
	c.CurrentMonth = d.CurrentMonth
	c.Status = d.Status
	c.CompletedAt = d.CompletedAt
}
