package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"chitfund-backend/internal/models"
)

// Repository reads and writes ledger records as JSON on top of a LedgerStore
type Repository struct {
	store LedgerStore
}

// NewRepository creates a repository over store
func NewRepository(store LedgerStore) *Repository {
	return &Repository{store: store}
}

func (r *Repository) getJSON(ctx context.Context, key string, v interface{}) error {
	data, err := r.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (r *Repository) putJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return r.store.Put(ctx, key, data)
}

// Committee loads a committee record
func (r *Repository) Committee(ctx context.Context, id string) (*models.Committee, error) {
	var committee models.Committee
	if err := r.getJSON(ctx, CommitteeKey(id), &committee); err != nil {
		return nil, err
	}
	if committee.MonthlyCycles == nil {
		committee.MonthlyCycles = []models.MonthlyCycle{}
	}
	return &committee, nil
}

// SaveCommittee writes a committee record
func (r *Repository) SaveCommittee(ctx context.Context, committee *models.Committee) error {
	return r.putJSON(ctx, CommitteeKey(committee.ID), committee)
}

// Payments loads the payment ledger of a committee. A committee without payments yields an empty list.
func (r *Repository) Payments(ctx context.Context, committeeID string) ([]models.Payment, error) {
	payments := []models.Payment{}
	err := r.getJSON(ctx, PaymentsKey(committeeID), &payments)
	if errors.Is(err, ErrNotFound) {
		return []models.Payment{}, nil
	}
	return payments, err
}

// SavePayments writes the full payment ledger of a committee
func (r *Repository) SavePayments(ctx context.Context, committeeID string, payments []models.Payment) error {
	return r.putJSON(ctx, PaymentsKey(committeeID), payments)
}

// LateFeeSettings loads the committee's settings, falling back to defaults when none are stored
func (r *Repository) LateFeeSettings(ctx context.Context, committeeID string, defaults models.LateFeeSettings) (models.LateFeeSettings, error) {
	var settings models.LateFeeSettings
	err := r.getJSON(ctx, LateFeeSettingsKey(committeeID), &settings)
	if errors.Is(err, ErrNotFound) {
		return defaults, nil
	}
	if err != nil {
		return models.LateFeeSettings{}, err
	}
	return settings, nil
}

// SaveLateFeeSettings writes the committee's settings
func (r *Repository) SaveLateFeeSettings(ctx context.Context, committeeID string, settings models.LateFeeSettings) error {
	return r.putJSON(ctx, LateFeeSettingsKey(committeeID), settings)
}

// CommitteeIDs lists every known committee id in creation order
func (r *Repository) CommitteeIDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	err := r.getJSON(ctx, CommitteeIndexKey, &ids)
	if errors.Is(err, ErrNotFound) {
		return []string{}, nil
	}
	return ids, err
}

// AddCommitteeID appends id to the committee index. Callers hold the index lock.
func (r *Repository) AddCommitteeID(ctx context.Context, id string) error {
	ids, err := r.CommitteeIDs(ctx)
	if err != nil {
		return err
	}
	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}
	return r.putJSON(ctx, CommitteeIndexKey, append(ids, id))
}
