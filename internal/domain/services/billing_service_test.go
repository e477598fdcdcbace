package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentscale/internal/domain/models"
	"contentscale/internal/infrastructure/memory"
)

func TestListPackages(t *testing.T) {
	store := memory.New()
	ledger := NewLedgerService(store, store, nil, testLogger())
	svc := NewStripeBillingService(store, ledger, testLogger())

	packages := svc.ListPackages()
	require.Len(t, packages, 3)
	assert.Equal(t, int64(25), packages[0].Credits)
	assert.Equal(t, float64(50), packages[0].PriceUSD)
	assert.Equal(t, int64(100), packages[2].Credits)
	assert.Equal(t, float64(160), packages[2].PriceUSD)
}

func TestPackageForCredits(t *testing.T) {
	pkg, err := packageForCredits(50)
	require.NoError(t, err)
	assert.Equal(t, float64(90), pkg.PriceUSD)

	_, err = packageForCredits(33)
	assert.ErrorIs(t, err, models.ErrInvalidAmount)
}
