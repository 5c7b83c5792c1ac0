package vault

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testOperator = common.HexToAddress("0x00000000000000000000000000000000000000ad")
	testUser     = common.HexToAddress("0x0000000000000000000000000000000000000001")
)

func newTestParamStore(t *testing.T) *ParamStore {
	t.Helper()
	guard := &StaticGuard{Operator: testOperator}
	store, err := NewParamStore(guard, testParams(2, big.NewInt(0), big.NewInt(0)))
	require.NoError(t, err)
	return store
}

func TestNewParamStoreRejectsZeroLotCount(t *testing.T) {
	guard := &StaticGuard{Operator: testOperator}
	_, err := NewParamStore(guard, testParams(0, big.NewInt(0), big.NewInt(0)))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSetUnitsPerLotZeroRejected(t *testing.T) {
	store := newTestParamStore(t)
	assert.ErrorIs(t, store.SetUnitsPerLot(testOperator, 0), ErrInvalidParameter)

	require.NoError(t, store.SetUnitsPerLot(testOperator, 7))
	assert.Equal(t, uint64(7), store.Snapshot().UnitsPerLot)
}

func TestSettersRequireOperator(t *testing.T) {
	store := newTestParamStore(t)

	assert.ErrorIs(t, store.SetUnitsPerLot(testUser, 3), ErrUnauthorized)
	assert.ErrorIs(t, store.SetAdminFee(testUser, big.NewInt(1)), ErrUnauthorized)
	assert.ErrorIs(t, store.SetBuffer(testUser, big.NewInt(1)), ErrUnauthorized)
	assert.ErrorIs(t, store.SetRefundFeesOnWithdraw(testUser, true), ErrUnauthorized)
}

func TestSettersRejectedWhenPaused(t *testing.T) {
	guard := &StaticGuard{Operator: testOperator, Paused: true}
	store, err := NewParamStore(guard, testParams(2, big.NewInt(0), big.NewInt(0)))
	require.NoError(t, err)

	assert.ErrorIs(t, store.SetUnitsPerLot(testOperator, 3), ErrPaused)
}

func TestNegativeParameterValuesRejected(t *testing.T) {
	store := newTestParamStore(t)
	assert.ErrorIs(t, store.SetAdminFee(testOperator, big.NewInt(-1)), ErrInvalidParameter)
	assert.ErrorIs(t, store.SetBuffer(testOperator, big.NewInt(-1)), ErrInvalidParameter)
}

func TestSnapshotIsACopy(t *testing.T) {
	store := newTestParamStore(t)
	require.NoError(t, store.SetAdminFee(testOperator, big.NewInt(5)))

	snap := store.Snapshot()
	snap.AdminFee.SetInt64(999)
	snap.UnitsPerLot = 42

	fresh := store.Snapshot()
	assert.Equal(t, 0, fresh.AdminFee.Cmp(big.NewInt(5)))
	assert.Equal(t, uint64(2), fresh.UnitsPerLot)
}

func TestLotUnitCostIncludesFee(t *testing.T) {
	p := testParams(1, eth(1), big.NewInt(0))
	assert.Equal(t, 0, p.LotUnitCost().Cmp(eth(33)))
}
