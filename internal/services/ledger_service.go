package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chitfund-backend/internal/ledger"
	"chitfund-backend/internal/models"
	"chitfund-backend/internal/store"
	"chitfund-backend/internal/utils"
)

const committeeIndexLock = "lock:committees"

// LedgerService handles committee ledger business logic. Every mutation runs as one
// read-modify-write under the committee's lock against a freshly loaded snapshot.
type LedgerService struct {
	repo     *store.Repository
	locker   store.Locker
	defaults models.LateFeeSettings
	lockWait time.Duration
	log      *zap.SugaredLogger
	now      func() time.Time
}

// snapshot is the state of one committee as loaded from the store
type snapshot struct {
	committee *models.Committee
	payments  []models.Payment
	settings  models.LateFeeSettings
}

// NewLedgerService creates a new ledger service
func NewLedgerService(ledgerStore store.LedgerStore, locker store.Locker, defaults models.LateFeeSettings, log *zap.SugaredLogger) *LedgerService {
	if locker == nil {
		locker = store.NewLocalLocker()
	}
	return &LedgerService{
		repo:     store.NewRepository(ledgerStore),
		locker:   locker,
		defaults: defaults,
		lockWait: 5 * time.Second,
		log:      log,
		now:      utils.Now,
	}
}

// SetClock replaces the time source
func (s *LedgerService) SetClock(now func() time.Time) {
	s.now = now
}

// SetLockWait bounds how long a mutation waits for the committee lock
func (s *LedgerService) SetLockWait(d time.Duration) {
	if d > 0 {
		s.lockWait = d
	}
}

func (s *LedgerService) lock(ctx context.Context, key string) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()

	unlock, err := s.locker.Lock(lockCtx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", key, err)
	}
	return unlock, nil
}

func (s *LedgerService) load(ctx context.Context, committeeID string) (*snapshot, error) {
	committee, err := s.repo.Committee(ctx, committeeID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrCommitteeNotFound, committeeID)
	}
	if err != nil {
		return nil, err
	}

	payments, err := s.repo.Payments(ctx, committeeID)
	if err != nil {
		return nil, err
	}

	settings, err := s.repo.LateFeeSettings(ctx, committeeID, s.defaults)
	if err != nil {
		return nil, err
	}

	return &snapshot{committee: committee, payments: payments, settings: settings}, nil
}

// mutate runs fn against a fresh snapshot while holding the committee lock
func (s *LedgerService) mutate(ctx context.Context, committeeID string, fn func(snap *snapshot) error) error {
	unlock, err := s.lock(ctx, store.LockKey(committeeID))
	if err != nil {
		return err
	}
	defer unlock()

	snap, err := s.load(ctx, committeeID)
	if err != nil {
		return err
	}
	return fn(snap)
}

// reevaluate runs the cycle state machine and persists the committee when it moved
func (s *LedgerService) reevaluate(ctx context.Context, snap *snapshot) error {
	c := snap.committee
	decision := ledger.Evaluate(c, snap.payments, snap.settings, s.now())
	if !decision.Changed {
		return nil
	}

	decision.Apply(c)
	c.UpdatedAt = s.now()
	if err := s.repo.SaveCommittee(ctx, c); err != nil {
		return fmt.Errorf("failed to save committee: %w", err)
	}

	if decision.Status == models.CommitteeStatusCompleted {
		s.log.Infow("🏁 Committee completed", "committeeId", c.ID, "closedMonths", decision.ClosedMonths)
	} else if decision.CurrentMonth != decision.FromMonth {
		s.log.Infow("✅ Committee advanced", "committeeId", c.ID, "from", decision.FromMonth, "to", decision.CurrentMonth)
	}
	return nil
}

// CreateCommittee creates a new active committee at month 1
func (s *LedgerService) CreateCommittee(ctx context.Context, creation *models.CommitteeCreation) (*models.Committee, error) {
	if err := validateCommittee(creation); err != nil {
		return nil, err
	}

	now := s.now()
	committee := &models.Committee{
		ID:                         uuid.New().String(),
		Name:                       creation.Name,
		MemberList:                 creation.MemberList,
		MonthlyAmount:              creation.MonthlyAmount,
		Duration:                   creation.Duration,
		StartDate:                  creation.StartDate,
		CommitteeHeadRef:           creation.CommitteeHeadRef,
		GovernmentDeductionPercent: creation.GovernmentDeductionPercent,
		Status:                     models.CommitteeStatusActive,
		CurrentMonth:               1,
		MonthlyCycles:              []models.MonthlyCycle{},
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}

	unlock, err := s.lock(ctx, committeeIndexLock)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.repo.SaveCommittee(ctx, committee); err != nil {
		return nil, fmt.Errorf("failed to create committee: %w", err)
	}
	if err := s.repo.SavePayments(ctx, committee.ID, []models.Payment{}); err != nil {
		return nil, fmt.Errorf("failed to create payment ledger: %w", err)
	}
	if err := s.repo.AddCommitteeID(ctx, committee.ID); err != nil {
		return nil, fmt.Errorf("failed to index committee: %w", err)
	}

	s.log.Infow("🆕 Committee created", "committeeId", committee.ID, "name", committee.Name,
		"members", committee.MemberCount(), "monthlyAmount", utils.FormatCurrency(committee.MonthlyAmount))
	return committee, nil
}

// fieldErrors names the ledger error reported when a request field fails its binding rules
var fieldErrors = map[string]error{
	"Amount":        ledger.ErrInvalidAmount,
	"MonthlyAmount": ledger.ErrInvalidAmount,
	"PaymentMode":   ledger.ErrInvalidPaymentMode,
	"PaymentMonth":  ledger.ErrInvalidMonth,
	"Month":         ledger.ErrInvalidMonth,
}

// validateRequest applies the request's binding rules. Failures on a field listed in
// fieldErrors wrap that error, anything else wraps fallback.
func validateRequest(in interface{}, fallback error) error {
	err := utils.ValidateStruct(in)
	if err == nil {
		return nil
	}

	var verrs utils.ValidationErrors
	if errors.As(err, &verrs) {
		for _, v := range verrs {
			if kind, ok := fieldErrors[v.Field]; ok {
				return fmt.Errorf("%w: %v", kind, err)
			}
		}
	}
	return fmt.Errorf("%w: %v", fallback, err)
}

// finite rejects the NaN and infinite amounts JSON cannot carry but Go callers can
func finite(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: %v", ledger.ErrInvalidAmount, amount)
	}
	return nil
}

func validateCommittee(creation *models.CommitteeCreation) error {
	if err := validateRequest(creation, ledger.ErrInvalidCommittee); err != nil {
		return err
	}
	if err := finite(creation.MonthlyAmount); err != nil {
		return err
	}

	seen := make(map[string]bool, len(creation.MemberList))
	for _, m := range creation.MemberList {
		if seen[m.Name] {
			return fmt.Errorf("%w: duplicate member %q", ledger.ErrInvalidCommittee, m.Name)
		}
		seen[m.Name] = true
	}
	if !seen[creation.CommitteeHeadRef] {
		return fmt.Errorf("%w: committee head %q is not a member", ledger.ErrInvalidCommittee, creation.CommitteeHeadRef)
	}
	return nil
}

// GetCommittee retrieves a committee by ID
func (s *LedgerService) GetCommittee(ctx context.Context, committeeID string) (*models.Committee, error) {
	committee, err := s.repo.Committee(ctx, committeeID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrCommitteeNotFound, committeeID)
	}
	return committee, err
}

// ListCommittees retrieves every committee in creation order
func (s *LedgerService) ListCommittees(ctx context.Context) ([]*models.Committee, error) {
	ids, err := s.repo.CommitteeIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list committees: %w", err)
	}

	committees := make([]*models.Committee, 0, len(ids))
	for _, id := range ids {
		committee, err := s.repo.Committee(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			s.log.Warnw("⚠️ Indexed committee is missing", "committeeId", id)
			continue
		}
		if err != nil {
			return nil, err
		}
		committees = append(committees, committee)
	}
	return committees, nil
}

// GetLateFeeSettings returns the committee's late fee settings or the configured defaults
func (s *LedgerService) GetLateFeeSettings(ctx context.Context, committeeID string) (models.LateFeeSettings, error) {
	if _, err := s.GetCommittee(ctx, committeeID); err != nil {
		return models.LateFeeSettings{}, err
	}
	return s.repo.LateFeeSettings(ctx, committeeID, s.defaults)
}

// SetLateFeeSettings stores the committee's late fee settings
func (s *LedgerService) SetLateFeeSettings(ctx context.Context, committeeID string, settings models.LateFeeSettings) error {
	if err := ledger.ValidateSettings(settings); err != nil {
		return err
	}

	return s.mutate(ctx, committeeID, func(snap *snapshot) error {
		if err := s.repo.SaveLateFeeSettings(ctx, committeeID, settings); err != nil {
			return fmt.Errorf("failed to save late fee settings: %w", err)
		}
		s.log.Infow("⚙️ Late fee settings updated", "committeeId", committeeID,
			"dailyRate", settings.DailyRate, "gracePeriodDays", settings.GracePeriodDays, "maxLateFee", settings.MaxLateFee)
		return nil
	})
}

// ListPayments returns the full payment history, superseded records included
func (s *LedgerService) ListPayments(ctx context.Context, committeeID string) ([]models.Payment, error) {
	if _, err := s.GetCommittee(ctx, committeeID); err != nil {
		return nil, err
	}
	return s.repo.Payments(ctx, committeeID)
}

// newPayment validates a payment request against the snapshot and builds the record
func (s *LedgerService) newPayment(snap *snapshot, in *models.PaymentCreation) (*models.Payment, error) {
	if err := validateRequest(in, ledger.ErrInvalidRequest); err != nil {
		return nil, err
	}
	if err := finite(in.Amount); err != nil {
		return nil, err
	}

	c := snap.committee
	if c.IsCompleted() {
		return nil, ledger.ErrCommitteeCompleted
	}
	if !c.HasMember(in.MemberName) {
		return nil, fmt.Errorf("%w: %q", ledger.ErrUnknownMember, in.MemberName)
	}
	if in.PaymentMonth < 1 || in.PaymentMonth > c.Duration {
		return nil, fmt.Errorf("%w: %d not in 1..%d", ledger.ErrInvalidMonth, in.PaymentMonth, c.Duration)
	}

	now := s.now()
	paymentDate := in.PaymentDate
	if paymentDate == nil {
		paymentDate = &now
	}
	dueDate := in.DueDate
	if dueDate == nil {
		due := c.DueDate(in.PaymentMonth)
		dueDate = &due
	}

	return &models.Payment{
		ID:           uuid.New().String(),
		MemberName:   in.MemberName,
		Amount:       in.Amount,
		LateFees:     ledger.LateFee(dueDate, paymentDate, snap.settings),
		PaymentMode:  in.PaymentMode,
		PaymentDate:  paymentDate,
		DueDate:      dueDate,
		PaymentMonth: in.PaymentMonth,
		Status:       models.PaymentStatusPaid,
		Remarks:      in.Remarks,
		CreatedAt:    now,
	}, nil
}

func (s *LedgerService) appendPayment(ctx context.Context, snap *snapshot, payment *models.Payment) error {
	snap.payments = append(snap.payments, *payment)
	if err := s.repo.SavePayments(ctx, snap.committee.ID, snap.payments); err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}
	// a failed committee write is repaired by the next evaluation, which runs to a fixpoint
	return s.reevaluate(ctx, snap)
}

// RecordPayment appends a paid contribution and advances the committee when the month is fully paid
func (s *LedgerService) RecordPayment(ctx context.Context, committeeID string, in *models.PaymentCreation) (*models.Payment, error) {
	var payment *models.Payment
	err := s.mutate(ctx, committeeID, func(snap *snapshot) error {
		var err error
		payment, err = s.newPayment(snap, in)
		if err != nil {
			return err
		}
		if err := s.appendPayment(ctx, snap, payment); err != nil {
			return err
		}

		s.log.Infow("💰 Payment recorded", "committeeId", committeeID, "member", payment.MemberName,
			"month", payment.PaymentMonth, "amount", utils.FormatCurrency(payment.Amount), "lateFees", payment.LateFees)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func findEffective(payments []models.Payment, paymentID string) (*models.Payment, bool) {
	for _, p := range ledger.EffectivePayments(payments) {
		if p.ID == paymentID {
			return &p, true
		}
	}
	return nil, false
}

// SupersedePayment records a corrected payment that replaces an earlier one
func (s *LedgerService) SupersedePayment(ctx context.Context, committeeID, paymentID string, in *models.PaymentCreation) (*models.Payment, error) {
	var payment *models.Payment
	err := s.mutate(ctx, committeeID, func(snap *snapshot) error {
		if _, ok := findEffective(snap.payments, paymentID); !ok {
			return fmt.Errorf("%w: %s", ledger.ErrPaymentNotFound, paymentID)
		}

		var err error
		payment, err = s.newPayment(snap, in)
		if err != nil {
			return err
		}
		payment.Supersedes = paymentID
		if err := s.appendPayment(ctx, snap, payment); err != nil {
			return err
		}

		s.log.Infow("✏️ Payment superseded", "committeeId", committeeID, "replaced", paymentID, "by", payment.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// VoidPayment cancels a payment by appending a zero-amount pending record that supersedes it.
// Allowed on completed committees; the month pointer is never moved back.
func (s *LedgerService) VoidPayment(ctx context.Context, committeeID, paymentID, reason string) (*models.Payment, error) {
	if err := validateRequest(&models.PaymentVoid{Reason: reason}, ledger.ErrInvalidRequest); err != nil {
		return nil, err
	}

	var void *models.Payment
	err := s.mutate(ctx, committeeID, func(snap *snapshot) error {
		target, ok := findEffective(snap.payments, paymentID)
		if !ok {
			return fmt.Errorf("%w: %s", ledger.ErrPaymentNotFound, paymentID)
		}

		void = &models.Payment{
			ID:           uuid.New().String(),
			MemberName:   target.MemberName,
			PaymentMode:  target.PaymentMode,
			DueDate:      target.DueDate,
			PaymentMonth: target.PaymentMonth,
			Status:       models.PaymentStatusPending,
			Remarks:      "void: " + reason,
			Supersedes:   paymentID,
			CreatedAt:    s.now(),
		}
		snap.payments = append(snap.payments, *void)
		if err := s.repo.SavePayments(ctx, committeeID, snap.payments); err != nil {
			return fmt.Errorf("failed to save void: %w", err)
		}

		s.log.Infow("🗑️ Payment voided", "committeeId", committeeID, "paymentId", paymentID, "reason", reason)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return void, nil
}

// RecordWithdrawal settles the month's withdrawal and completes the committee after its last cycle
func (s *LedgerService) RecordWithdrawal(ctx context.Context, committeeID string, in *models.WithdrawalCreation) (*models.MonthlyCycle, error) {
	if err := validateRequest(in, ledger.ErrInvalidRequest); err != nil {
		return nil, err
	}

	var cycle *models.MonthlyCycle
	err := s.mutate(ctx, committeeID, func(snap *snapshot) error {
		c := snap.committee
		if c.IsCompleted() {
			return ledger.ErrCommitteeCompleted
		}

		date := in.Date
		if date.IsZero() {
			date = s.now()
		}

		var err error
		cycle, err = ledger.Settle(c, in.Month, in.WithdrawerName, in.Amount, date)
		if err != nil {
			return err
		}

		c.MonthlyCycles = append(c.MonthlyCycles, *cycle)
		c.UpdatedAt = s.now()
		ledger.Evaluate(c, snap.payments, snap.settings, s.now()).Apply(c)
		if err := s.repo.SaveCommittee(ctx, c); err != nil {
			return fmt.Errorf("failed to save withdrawal: %w", err)
		}

		s.log.Infow("🏦 Withdrawal recorded", "committeeId", committeeID, "month", cycle.Month,
			"withdrawer", cycle.WithdrawerName, "amount", utils.FormatCurrency(cycle.WithdrawAmount),
			"lossPercentage", cycle.LossPercentage, "status", c.Status)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cycle, nil
}

// DeleteMonthlyCycle removes a recorded cycle from history. Completion is not reverted.
func (s *LedgerService) DeleteMonthlyCycle(ctx context.Context, committeeID string, month int) error {
	return s.mutate(ctx, committeeID, func(snap *snapshot) error {
		c := snap.committee
		index := -1
		for i, cycle := range c.MonthlyCycles {
			if cycle.Month == month {
				index = i
				break
			}
		}
		if index < 0 {
			return fmt.Errorf("%w: month %d", ledger.ErrCycleNotFound, month)
		}

		if c.IsCompleted() && c.CompletedAt == nil {
			// keep the committee completed once the cycle that completed it is gone
			completedAt := s.now()
			c.CompletedAt = &completedAt
			c.Status = models.CommitteeStatusCompleted
		}
		c.MonthlyCycles = append(c.MonthlyCycles[:index], c.MonthlyCycles[index+1:]...)
		c.UpdatedAt = s.now()
		if err := s.repo.SaveCommittee(ctx, c); err != nil {
			return fmt.Errorf("failed to delete cycle: %w", err)
		}

		s.log.Warnw("🗑️ Monthly cycle deleted", "committeeId", committeeID, "month", month)
		return nil
	})
}

// GetMemberStatuses derives every member's payment status for the current month
func (s *LedgerService) GetMemberStatuses(ctx context.Context, committeeID string) ([]models.MemberPaymentStatus, error) {
	snap, err := s.load(ctx, committeeID)
	if err != nil {
		return nil, err
	}
	return ledger.Statuses(snap.committee, snap.payments, snap.settings, s.now()), nil
}

// GetCommitteeSummary aggregates collection figures for a committee
func (s *LedgerService) GetCommitteeSummary(ctx context.Context, committeeID string) (*models.CommitteeSummary, error) {
	snap, err := s.load(ctx, committeeID)
	if err != nil {
		return nil, err
	}
	statuses := ledger.Statuses(snap.committee, snap.payments, snap.settings, s.now())
	summary := ledger.Summarize(snap.committee, snap.payments, statuses)
	return &summary, nil
}

// ComputeLateFee computes a late fee for explicit settings
func (s *LedgerService) ComputeLateFee(dueDate, paymentDate *time.Time, settings models.LateFeeSettings) float64 {
	return ledger.LateFee(dueDate, paymentDate, settings)
}

// ComputeCommitteeLateFee computes a late fee with the committee's stored settings
func (s *LedgerService) ComputeCommitteeLateFee(ctx context.Context, committeeID string, dueDate, paymentDate *time.Time) (float64, error) {
	settings, err := s.GetLateFeeSettings(ctx, committeeID)
	if err != nil {
		return 0, err
	}
	return ledger.LateFee(dueDate, paymentDate, settings), nil
}

// DefaultLateFeeSettings returns the settings applied to committees without their own
func (s *LedgerService) DefaultLateFeeSettings() models.LateFeeSettings {
	return s.defaults
}

// Reevaluate re-runs the cycle state machine for one committee
func (s *LedgerService) Reevaluate(ctx context.Context, committeeID string) (*models.Committee, error) {
	var committee *models.Committee
	err := s.mutate(ctx, committeeID, func(snap *snapshot) error {
		committee = snap.committee
		return s.reevaluate(ctx, snap)
	})
	return committee, err
}

// SweepOverdue re-evaluates every active committee and lists members overdue on their current month
func (s *LedgerService) SweepOverdue(ctx context.Context) ([]models.OverdueMember, error) {
	ids, err := s.repo.CommitteeIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list committees: %w", err)
	}

	overdue := []models.OverdueMember{}
	for _, id := range ids {
		committee, err := s.Reevaluate(ctx, id)
		if errors.Is(err, ledger.ErrCommitteeNotFound) {
			continue
		}
		if err != nil {
			s.log.Errorw("❌ Failed to re-evaluate committee", "committeeId", id, "error", err)
			continue
		}
		if committee.IsCompleted() {
			continue
		}

		snap, err := s.load(ctx, id)
		if err != nil {
			s.log.Errorw("❌ Failed to load committee for overdue sweep", "committeeId", id, "error", err)
			continue
		}
		now := s.now()
		statuses := ledger.Statuses(snap.committee, snap.payments, snap.settings, now)
		overdue = append(overdue, ledger.OverdueMembers(snap.committee, statuses, snap.settings, now)...)
	}

	return overdue, nil
}
