package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitfund-backend/internal/ledger"
	"chitfund-backend/internal/logger"
	"chitfund-backend/internal/models"
	"chitfund-backend/internal/store"
)

const committeeYAML = `
committees:
  - name: Shree Ganesh Chit
    monthlyAmount: 1000
    duration: 3
    startDate: 2026-01-05T00:00:00Z
    committeeHeadRef: Asha
    members:
      - name: Asha
        mobile: "9876543210"
      - name: Bhavesh
        email: bhavesh@example.com
      - name: Chitra
    lateFeeSettings:
      dailyRate: 20
      gracePeriodDays: 5
      maxLateFee: 300
  - name: Office Chit
    monthlyAmount: 500
    duration: 2
    startDate: 2026-02-01T00:00:00Z
    committeeHeadRef: Dev
    members:
      - name: Dev
      - name: Esha
`

func TestParseCommittees(t *testing.T) {
	seeds, err := ParseCommittees([]byte(committeeYAML))
	require.NoError(t, err)
	require.Len(t, seeds, 2)

	first := seeds[0]
	assert.Equal(t, "Shree Ganesh Chit", first.Name)
	assert.Equal(t, 1000.0, first.MonthlyAmount)
	assert.True(t, first.StartDate.Equal(time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, first.LateFeeSettings)
	assert.Equal(t, models.LateFeeSettings{DailyRate: 20, GracePeriodDays: 5, MaxLateFee: 300}, *first.LateFeeSettings)

	creation := first.Creation()
	require.Len(t, creation.MemberList, 3)
	assert.Equal(t, "bhavesh@example.com", creation.MemberList[1].Email)
	assert.Nil(t, seeds[1].LateFeeSettings)
}

func TestParseCommitteesRejectsBadYAML(t *testing.T) {
	_, err := ParseCommittees([]byte("committees: [unterminated"))
	assert.Error(t, err)
}

func TestImportCommittees(t *testing.T) {
	path := filepath.Join(t.TempDir(), "committees.yaml")
	require.NoError(t, os.WriteFile(path, []byte(committeeYAML), 0o600))

	seeds, err := LoadCommitteeFile(path)
	require.NoError(t, err)

	service := NewLedgerService(store.NewMemoryStore(), store.NewLocalLocker(), models.LateFeeSettings{DailyRate: 10, GracePeriodDays: 7, MaxLateFee: 500}, logger.Nop())
	ctx := context.Background()

	created, err := service.ImportCommittees(ctx, seeds)
	require.NoError(t, err)
	require.Len(t, created, 2)

	settings, err := service.GetLateFeeSettings(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, settings.DailyRate)

	settings, err = service.GetLateFeeSettings(ctx, created[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, settings.DailyRate)
}

func TestImportCommitteesStopsAtInvalidSeed(t *testing.T) {
	seeds, err := ParseCommittees([]byte(committeeYAML))
	require.NoError(t, err)
	seeds[1].CommitteeHeadRef = "Nobody"

	service := NewLedgerService(store.NewMemoryStore(), nil, models.LateFeeSettings{}, logger.Nop())
	created, err := service.ImportCommittees(context.Background(), seeds)
	assert.ErrorIs(t, err, ledger.ErrInvalidCommittee)
	assert.Len(t, created, 1)
}
