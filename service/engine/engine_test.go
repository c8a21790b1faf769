package engine

import (
	"context"
	"testing"
	"time"

	"lendpool/core"
	"lendpool/pkg/fixedpoint"
	accountz "lendpool/service/account"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	custodian  = "pool"
	lender     = "4b189a0e-dab9-4d70-a290-7a0030bcd4c0"
	borrower   = "e3a9c9f8-11cd-47b6-973f-7cbebbb67ecf"
	liquidator = "8d37b0ba-c0ee-4393-b414-dbbd0bf375cf"
)

type testEnv struct {
	engine     *Engine
	underlying *fakeLedger
	collateral *fakeLedger
	shares     *fakeShareToken
	oracle     *fakeOracle
	poolStore  *fakePoolStore
	clock      *time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	now := time.Unix(1_600_000_000, 0)

	underlying := newFakeLedger(custodian)
	underlying.set(lender, amountOf(10_000))
	underlying.set(borrower, amountOf(1_000))
	underlying.set(liquidator, amountOf(1_000))

	collateral := newFakeLedger(custodian)
	collateral.set(borrower, amountOf(5_000))

	// $1 at 8 oracle decimals
	oracle := &fakeOracle{price: uint256.NewInt(100_000_000), decimals: 8}

	cfg := &core.Config{}
	cfg.App.Custodian = custodian
	cfg.App.Genesis = now.Unix()

	poolStore := &fakePoolStore{}
	shares := newFakeShareToken()

	eng := New(
		cfg,
		poolStore,
		newFakeAccountStore(),
		&fakeTransactionStore{},
		accountz.New(oracle),
		underlying,
		collateral,
		shares,
	).WithClock(func() time.Time { return now })

	require.NoError(t, eng.Init(context.Background()))

	return &testEnv{
		engine:     eng,
		underlying: underlying,
		collateral: collateral,
		shares:     shares,
		oracle:     oracle,
		poolStore:  poolStore,
		clock:      &now,
	}
}

func (env *testEnv) advance(d time.Duration) {
	*env.clock = env.clock.Add(d)
}

func TestLendingScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// LP deposits 1000 underlying at share price 1.0
	shares, err := env.engine.LPDeposit(ctx, lender, amountOf(1_000), amountOf(1_000))
	require.NoError(t, err)
	assert.True(t, shares.Eq(amountOf(1_000)))

	minted, err := env.shares.BalanceOf(ctx, lender)
	require.NoError(t, err)
	assert.True(t, minted.Eq(shares))
	assert.True(t, env.underlying.balance(custodian).Eq(amountOf(1_000)))

	// borrower posts 2000 collateral worth $1 each and draws 500
	require.NoError(t, env.engine.DepositCollateral(ctx, borrower, amountOf(2_000)))
	require.NoError(t, env.engine.Borrow(ctx, borrower, amountOf(500)))

	pool, err := env.engine.Pool(ctx)
	require.NoError(t, err)
	assert.True(t, pool.TotalBorrowed.Eq(amountOf(500)))
	assert.Equal(t, "500000000000000000", mustUtilization(t, pool).Dec())

	account, err := env.engine.Account(ctx, borrower)
	require.NoError(t, err)
	ratio, err := accountz.New(env.oracle).CollateralizationRatio(ctx, account, pool)
	require.NoError(t, err)
	assert.Equal(t, "4000000000000000000", ratio.Dec())

	assert.True(t, env.underlying.balance(borrower).Eq(amountOf(1_500)))
}

func TestLPDepositSlippage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.engine.LPDeposit(ctx, lender, amountOf(1_000), amountOf(1_001))
	assert.Equal(t, core.ErrSlippage, err)

	pool, err := env.engine.Pool(ctx)
	require.NoError(t, err)
	assert.True(t, pool.TotalDeposited.IsZero())
	assert.True(t, env.underlying.balance(lender).Eq(amountOf(10_000)))
}

func TestLPRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	deposit := amountOf(1_000)
	shares, err := env.engine.LPDeposit(ctx, lender, deposit, nil)
	require.NoError(t, err)

	// no time elapsed: the round trip is exact at share price 1.0
	amount, err := env.engine.LPRedeem(ctx, lender, shares, deposit)
	require.NoError(t, err)
	assert.True(t, amount.Eq(deposit))
	assert.True(t, env.underlying.balance(lender).Eq(amountOf(10_000)))

	pool, err := env.engine.Pool(ctx)
	require.NoError(t, err)
	assert.True(t, pool.TotalDeposited.IsZero())
}

func TestLPRedeemInsufficientLiquidity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	shares, err := env.engine.LPDeposit(ctx, lender, amountOf(1_000), nil)
	require.NoError(t, err)
	require.NoError(t, env.engine.DepositCollateral(ctx, borrower, amountOf(2_000)))
	require.NoError(t, env.engine.Borrow(ctx, borrower, amountOf(500)))

	before, err := env.engine.Pool(ctx)
	require.NoError(t, err)

	// all shares are worth 1000 but only 500 is undeployed
	_, err = env.engine.LPRedeem(ctx, lender, shares, nil)
	assert.Equal(t, core.ErrInsufficientLiquidity, err)

	after, err := env.engine.Pool(ctx)
	require.NoError(t, err)
	assert.True(t, after.TotalDeposited.Eq(before.TotalDeposited))
	assert.True(t, after.TotalBorrowed.Eq(before.TotalBorrowed))

	balance, err := env.shares.BalanceOf(ctx, lender)
	require.NoError(t, err)
	assert.True(t, balance.Eq(shares))
}

func TestWithdrawCollateralGuards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.engine.LPDeposit(ctx, lender, amountOf(1_000), nil)
	require.NoError(t, err)
	require.NoError(t, env.engine.DepositCollateral(ctx, borrower, amountOf(2_000)))
	require.NoError(t, env.engine.Borrow(ctx, borrower, amountOf(500)))

	err = env.engine.WithdrawCollateral(ctx, borrower, amountOf(3_000))
	assert.Equal(t, core.ErrInsufficientCollateral, err)

	// dropping to 600 collateral against 500 debt breaks the 150% floor
	err = env.engine.WithdrawCollateral(ctx, borrower, amountOf(1_400))
	assert.Equal(t, core.ErrMinCollateralization, err)

	account, err := env.engine.Account(ctx, borrower)
	require.NoError(t, err)
	assert.True(t, account.CollateralAmount.Eq(amountOf(2_000)))

	// 1000 collateral against 500 debt sits exactly on 200%, fine
	require.NoError(t, env.engine.WithdrawCollateral(ctx, borrower, amountOf(1_000)))
	assert.True(t, env.collateral.balance(borrower).Eq(amountOf(4_000)))
}

func TestBorrowGuards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.engine.LPDeposit(ctx, lender, amountOf(1_000), nil)
	require.NoError(t, err)
	require.NoError(t, env.engine.DepositCollateral(ctx, borrower, amountOf(2_000)))

	err = env.engine.Borrow(ctx, borrower, amountOf(1_001))
	assert.Equal(t, core.ErrInsufficientLiquidity, err)

	// 2000 collateral supports at most 1333 debt at the 150% floor
	err = env.engine.Borrow(ctx, borrower, amountOf(1_000))
	require.NoError(t, err)

	err = env.engine.Borrow(ctx, borrower, amountOf(1))
	assert.Equal(t, core.ErrInsufficientLiquidity, err)

	pool, err := env.engine.Pool(ctx)
	require.NoError(t, err)
	assert.True(t, pool.TotalBorrowed.Eq(amountOf(1_000)))
}

func TestBorrowMinCollateralizationRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.engine.LPDeposit(ctx, lender, amountOf(5_000), nil)
	require.NoError(t, err)
	require.NoError(t, env.engine.DepositCollateral(ctx, borrower, amountOf(2_000)))

	// 2000/1500 = 133% < 150%
	err = env.engine.Borrow(ctx, borrower, amountOf(1_500))
	assert.Equal(t, core.ErrMinCollateralization, err)

	pool, err := env.engine.Pool(ctx)
	require.NoError(t, err)
	assert.True(t, pool.TotalBorrowed.IsZero())

	account, err := env.engine.Account(ctx, borrower)
	require.NoError(t, err)
	assert.True(t, account.BorrowerShares.IsZero())
	assert.True(t, env.underlying.balance(borrower).Eq(amountOf(1_000)))
}

func TestRepayClampsToOutstandingDebt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.engine.LPDeposit(ctx, lender, amountOf(1_000), nil)
	require.NoError(t, err)
	require.NoError(t, env.engine.DepositCollateral(ctx, borrower, amountOf(2_000)))
	require.NoError(t, env.engine.Borrow(ctx, borrower, amountOf(500)))

	before := env.underlying.balance(borrower)

	// over-repaying pulls only the 500 owed
	burned, err := env.engine.Repay(ctx, borrower, amountOf(800), nil)
	require.NoError(t, err)
	assert.True(t, burned.Eq(amountOf(500)))

	paid := new(uint256.Int).Sub(before, env.underlying.balance(borrower))
	assert.True(t, paid.Eq(amountOf(500)))

	pool, err := env.engine.Pool(ctx)
	require.NoError(t, err)
	assert.True(t, pool.TotalBorrowed.IsZero())

	account, err := env.engine.Account(ctx, borrower)
	require.NoError(t, err)
	assert.True(t, account.BorrowerShares.IsZero())
}

func TestRepaySlippage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.engine.LPDeposit(ctx, lender, amountOf(1_000), nil)
	require.NoError(t, err)
	require.NoError(t, env.engine.DepositCollateral(ctx, borrower, amountOf(2_000)))
	require.NoError(t, env.engine.Borrow(ctx, borrower, amountOf(500)))

	_, err = env.engine.Repay(ctx, borrower, amountOf(100), amountOf(101))
	assert.Equal(t, core.ErrSlippage, err)

	_, err = env.engine.Repay(ctx, "unknown", amountOf(100), nil)
	assert.Equal(t, core.ErrAccountNotFound, err)
}

func TestLiquidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.engine.LPDeposit(ctx, lender, amountOf(1_000), nil)
	require.NoError(t, err)
	require.NoError(t, env.engine.DepositCollateral(ctx, borrower, amountOf(2_000)))
	require.NoError(t, env.engine.Borrow(ctx, borrower, amountOf(500)))

	// healthy account cannot be seized
	_, err = env.engine.Liquidate(ctx, liquidator, borrower)
	assert.Equal(t, core.ErrHealthyAccount, err)

	// collateral price collapses to $0.25: value 500 vs debt 500, 100% < 110%
	env.oracle.price = uint256.NewInt(25_000_000)

	seized, err := env.engine.Liquidate(ctx, liquidator, borrower)
	require.NoError(t, err)
	assert.True(t, seized.Eq(amountOf(2_000)))
	assert.True(t, env.collateral.balance(liquidator).Eq(amountOf(2_000)))
	assert.True(t, env.underlying.balance(liquidator).Eq(amountOf(500)))

	account, err := env.engine.Account(ctx, borrower)
	require.NoError(t, err)
	assert.True(t, account.BorrowerShares.IsZero())
	assert.True(t, account.CollateralAmount.IsZero())

	pool, err := env.engine.Pool(ctx)
	require.NoError(t, err)
	assert.True(t, pool.TotalBorrowed.IsZero())

	_, err = env.engine.Liquidate(ctx, liquidator, "unknown")
	assert.Equal(t, core.ErrAccountNotFound, err)
}

func TestLiquidationLeavesOthersUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	other := "a2a26ee4-9adb-4f4a-9ac4-66b74d97e04c"
	env.collateral.set(other, amountOf(1_000))
	env.underlying.set(other, amountOf(100))

	_, err := env.engine.LPDeposit(ctx, lender, amountOf(1_000), nil)
	require.NoError(t, err)
	require.NoError(t, env.engine.DepositCollateral(ctx, borrower, amountOf(2_000)))
	require.NoError(t, env.engine.Borrow(ctx, borrower, amountOf(500)))
	require.NoError(t, env.engine.DepositCollateral(ctx, other, amountOf(1_000)))
	require.NoError(t, env.engine.Borrow(ctx, other, amountOf(100)))

	env.oracle.price = uint256.NewInt(25_000_000)

	_, err = env.engine.Liquidate(ctx, liquidator, borrower)
	require.NoError(t, err)

	account, err := env.engine.Account(ctx, other)
	require.NoError(t, err)
	assert.True(t, account.CollateralAmount.Eq(amountOf(1_000)))
	assert.False(t, account.BorrowerShares.IsZero())
}

func TestTransferFailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.underlying.failNext = true
	_, err := env.engine.LPDeposit(ctx, lender, amountOf(1_000), nil)
	require.Error(t, err)

	pool, err := env.engine.Pool(ctx)
	require.NoError(t, err)
	assert.True(t, pool.TotalDeposited.IsZero())

	stored, err := env.poolStore.Find(ctx)
	require.NoError(t, err)
	assert.True(t, stored.TotalDeposited.IsZero())

	// engine stays usable after a rejected operation
	_, err = env.engine.LPDeposit(ctx, lender, amountOf(1_000), nil)
	require.NoError(t, err)
}

func TestAccrualGrowsDebt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.engine.LPDeposit(ctx, lender, amountOf(1_000), nil)
	require.NoError(t, err)
	require.NoError(t, env.engine.DepositCollateral(ctx, borrower, amountOf(2_000)))
	require.NoError(t, env.engine.Borrow(ctx, borrower, amountOf(500)))

	env.advance(180 * 24 * time.Hour)
	require.NoError(t, env.engine.Accrue(ctx, *env.clock))

	pool, err := env.engine.Pool(ctx)
	require.NoError(t, err)
	assert.True(t, pool.BorrowerSharePrice.Gt(fixedpoint.One))
	assert.True(t, pool.LPSharePrice.Gt(fixedpoint.One))
	assert.False(t, pool.TotalBorrowed.Gt(pool.TotalDeposited))

	// repaying the full expanded debt needs more than the principal
	account, err := env.engine.Account(ctx, borrower)
	require.NoError(t, err)
	debt, err := fixedpoint.Mul(account.BorrowerShares, pool.BorrowerSharePrice)
	require.NoError(t, err)
	assert.True(t, debt.Gt(amountOf(500)))

	burned, err := env.engine.Repay(ctx, borrower, amountOf(1_000), nil)
	require.NoError(t, err)
	assert.True(t, burned.Eq(account.BorrowerShares))

	after, err := env.engine.Pool(ctx)
	require.NoError(t, err)
	assert.False(t, after.TotalBorrowed.Gt(after.TotalDeposited))
}

func mustUtilization(t *testing.T, pool *core.Pool) *uint256.Int {
	u, err := fixedpoint.Div(pool.TotalBorrowed, pool.TotalDeposited)
	require.NoError(t, err)
	return u
}
