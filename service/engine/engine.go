package engine

import (
	"context"
	"sync"
	"time"

	"lendpool/core"
	"lendpool/internal/lendpool"
	"lendpool/pkg/fixedpoint"

	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
)

// Engine serialized lending pool engine
//
// The engine exclusively owns the pool ledger and the borrower account map.
// Mutating operations run one at a time under the write lock with a strict
// phase order: accrue, compute and validate on clones, commit and persist,
// external transfers last. A failed transfer triggers an explicit rollback
// of both the in-memory state and the persisted rows.
type Engine struct {
	mu       sync.RWMutex
	pool     *core.Pool
	accounts map[string]*core.BorrowerAccount
	undo     undoLog

	cfg              *core.Config
	poolStore        core.IPoolStore
	accountStore     core.IAccountStore
	transactionStore core.ITransactionStore
	accountz         core.IAccountService
	underlying       core.IAssetLedger
	collateral       core.IAssetLedger
	shares           core.IShareToken

	now func() time.Time
}

// New new lending engine
func New(
	cfg *core.Config,
	poolStore core.IPoolStore,
	accountStore core.IAccountStore,
	transactionStore core.ITransactionStore,
	accountz core.IAccountService,
	underlying core.IAssetLedger,
	collateral core.IAssetLedger,
	shares core.IShareToken,
) *Engine {
	return &Engine{
		accounts:         make(map[string]*core.BorrowerAccount),
		cfg:              cfg,
		poolStore:        poolStore,
		accountStore:     accountStore,
		transactionStore: transactionStore,
		accountz:         accountz,
		underlying:       underlying,
		collateral:       collateral,
		shares:           shares,
		now:              time.Now,
	}
}

// WithClock override the engine clock
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Init load the durable ledger state, creating the genesis pool on first run
func (e *Engine) Init(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	pool, err := e.poolStore.Find(ctx)
	if err != nil {
		return err
	}

	if pool == nil {
		genesis := e.now()
		if e.cfg.App.Genesis > 0 {
			genesis = time.Unix(e.cfg.App.Genesis, 0)
		}

		pool = &core.Pool{
			TotalDeposited:     fixedpoint.Zero(),
			TotalBorrowed:      fixedpoint.Zero(),
			LPSharePrice:       new(uint256.Int).Set(fixedpoint.One),
			BorrowerSharePrice: new(uint256.Int).Set(fixedpoint.One),
			LastUpdateTime:     genesis,
		}

		if err := e.poolStore.Save(ctx, pool); err != nil {
			return err
		}
	}

	accounts, err := e.accountStore.All(ctx)
	if err != nil {
		return err
	}

	e.pool = pool
	for _, account := range accounts {
		e.accounts[account.Address] = account
	}

	return nil
}

// Accrue advance both share prices to now
func (e *Engine) Accrue(ctx context.Context, now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !now.After(e.pool.LastUpdateTime) {
		return nil
	}

	pool := e.pool.Clone()
	if err := lendpool.Accrue(pool, now); err != nil {
		return mapErr(err)
	}

	if err := e.poolStore.Save(ctx, pool); err != nil {
		return err
	}

	e.pool = pool
	return nil
}

// Pool consistent snapshot of the pool ledger
func (e *Engine) Pool(ctx context.Context) (*core.Pool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.pool.Clone(), nil
}

// Account snapshot of one borrower account
func (e *Engine) Account(ctx context.Context, address string) (*core.BorrowerAccount, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if account, ok := e.accounts[address]; ok {
		return account.Clone(), nil
	}

	return newAccount(address), nil
}

// LPDeposit mint lp shares for underlying at the current share price
func (e *Engine) LPDeposit(ctx context.Context, lender string, amount, minSharesOut *uint256.Int) (*uint256.Int, error) {
	if !positive(amount) {
		return nil, core.ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	pool := e.pool.Clone()
	if err := lendpool.Accrue(pool, e.now()); err != nil {
		return nil, mapErr(err)
	}

	shares, err := fixedpoint.Div(amount, pool.LPSharePrice)
	if err != nil {
		return nil, mapErr(err)
	}

	if minSharesOut != nil && shares.Lt(minSharesOut) {
		return nil, core.ErrSlippage
	}

	deposited, err := fixedpoint.Add(pool.TotalDeposited, amount)
	if err != nil {
		return nil, mapErr(err)
	}
	pool.TotalDeposited = deposited

	if err := e.commit(ctx, pool, nil); err != nil {
		return nil, err
	}

	if err := e.underlying.TransferFrom(ctx, lender, e.cfg.App.Custodian, amount); err != nil {
		e.rollback(ctx)
		return nil, err
	}

	if err := e.shares.Mint(ctx, lender, shares); err != nil {
		e.refund(ctx, e.underlying, lender, amount)
		e.rollback(ctx)
		return nil, err
	}

	e.journal(ctx, core.ActionTypeLPDeposit, lender, amount, shares)
	return shares, nil
}

// LPRedeem burn lp shares for underlying at the current share price
func (e *Engine) LPRedeem(ctx context.Context, lender string, shares, minAmountOut *uint256.Int) (*uint256.Int, error) {
	if !positive(shares) {
		return nil, core.ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	pool := e.pool.Clone()
	if err := lendpool.Accrue(pool, e.now()); err != nil {
		return nil, mapErr(err)
	}

	amount, err := fixedpoint.Mul(shares, pool.LPSharePrice)
	if err != nil {
		return nil, mapErr(err)
	}

	if minAmountOut != nil && amount.Lt(minAmountOut) {
		return nil, core.ErrSlippage
	}

	if amount.Gt(freeLiquidity(pool)) {
		return nil, core.ErrInsufficientLiquidity
	}

	pool.TotalDeposited = fixedpoint.SubFloorZero(pool.TotalDeposited, amount)

	if err := e.commit(ctx, pool, nil); err != nil {
		return nil, err
	}

	if err := e.shares.Burn(ctx, lender, shares); err != nil {
		e.rollback(ctx)
		return nil, err
	}

	if err := e.underlying.Transfer(ctx, lender, amount); err != nil {
		if err := e.shares.Mint(ctx, lender, shares); err != nil {
			logger.FromContext(ctx).WithError(err).Errorln("engine: remint shares")
		}
		e.rollback(ctx)
		return nil, err
	}

	e.journal(ctx, core.ActionTypeLPRedeem, lender, amount, shares)
	return amount, nil
}

// DepositCollateral pull collateral and credit the borrower account.
// No share-price conversion happens here, so no accrual is needed.
func (e *Engine) DepositCollateral(ctx context.Context, borrower string, amount *uint256.Int) error {
	if !positive(amount) {
		return core.ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	account := e.cloneAccount(borrower)
	balance, err := fixedpoint.Add(account.CollateralAmount, amount)
	if err != nil {
		return mapErr(err)
	}
	account.CollateralAmount = balance

	if err := e.commit(ctx, nil, account); err != nil {
		return err
	}

	if err := e.collateral.TransferFrom(ctx, borrower, e.cfg.App.Custodian, amount); err != nil {
		e.rollback(ctx)
		return err
	}

	e.journal(ctx, core.ActionTypeDepositCollateral, borrower, amount, nil)
	return nil
}

// WithdrawCollateral release collateral as long as the account stays above
// the minimum collateralization ratio
func (e *Engine) WithdrawCollateral(ctx context.Context, borrower string, amount *uint256.Int) error {
	if !positive(amount) {
		return core.ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	pool := e.pool.Clone()
	if err := lendpool.Accrue(pool, e.now()); err != nil {
		return mapErr(err)
	}

	account := e.cloneAccount(borrower)
	if account.CollateralAmount.Lt(amount) {
		return core.ErrInsufficientCollateral
	}

	account.CollateralAmount = new(uint256.Int).Sub(account.CollateralAmount, amount)

	if err := e.requireCollateralized(ctx, account, pool); err != nil {
		return err
	}

	if err := e.commit(ctx, pool, account); err != nil {
		return err
	}

	if err := e.collateral.Transfer(ctx, borrower, amount); err != nil {
		e.rollback(ctx)
		return err
	}

	e.journal(ctx, core.ActionTypeWithdrawCollateral, borrower, amount, nil)
	return nil
}

// Borrow draw underlying against posted collateral
func (e *Engine) Borrow(ctx context.Context, borrower string, amount *uint256.Int) error {
	if !positive(amount) {
		return core.ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	pool := e.pool.Clone()
	if err := lendpool.Accrue(pool, e.now()); err != nil {
		return mapErr(err)
	}

	if amount.Gt(freeLiquidity(pool)) {
		return core.ErrInsufficientLiquidity
	}

	shares, err := fixedpoint.Div(amount, pool.BorrowerSharePrice)
	if err != nil {
		return mapErr(err)
	}

	account := e.cloneAccount(borrower)
	owed, err := fixedpoint.Add(account.BorrowerShares, shares)
	if err != nil {
		return mapErr(err)
	}
	account.BorrowerShares = owed

	borrowed, err := fixedpoint.Add(pool.TotalBorrowed, amount)
	if err != nil {
		return mapErr(err)
	}
	pool.TotalBorrowed = borrowed

	if err := e.requireCollateralized(ctx, account, pool); err != nil {
		return err
	}

	if err := e.commit(ctx, pool, account); err != nil {
		return err
	}

	if err := e.underlying.Transfer(ctx, borrower, amount); err != nil {
		e.rollback(ctx)
		return err
	}

	e.journal(ctx, core.ActionTypeBorrow, borrower, amount, shares)
	return nil
}

// Repay settle debt. When the requested amount exceeds the outstanding
// debt, shares are clamped to the balance and only the debt-covering
// amount is pulled; slippage is judged on the unclamped share count.
func (e *Engine) Repay(ctx context.Context, borrower string, amount, minSharesBurned *uint256.Int) (*uint256.Int, error) {
	if !positive(amount) {
		return nil, core.ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.accounts[borrower]
	if !ok || current.BorrowerShares.IsZero() {
		return nil, core.ErrAccountNotFound
	}

	pool := e.pool.Clone()
	if err := lendpool.Accrue(pool, e.now()); err != nil {
		return nil, mapErr(err)
	}

	unclamped, err := fixedpoint.Div(amount, pool.BorrowerSharePrice)
	if err != nil {
		return nil, mapErr(err)
	}

	if minSharesBurned != nil && unclamped.Lt(minSharesBurned) {
		return nil, core.ErrSlippage
	}

	account := current.Clone()
	burned := unclamped
	pulled := amount
	if burned.Gt(account.BorrowerShares) {
		burned = new(uint256.Int).Set(account.BorrowerShares)
		pulled, err = fixedpoint.Mul(burned, pool.BorrowerSharePrice)
		if err != nil {
			return nil, mapErr(err)
		}
	}

	account.BorrowerShares = fixedpoint.SubFloorZero(account.BorrowerShares, burned)
	pool.TotalBorrowed = fixedpoint.SubFloorZero(pool.TotalBorrowed, pulled)

	if err := e.commit(ctx, pool, account); err != nil {
		return nil, err
	}

	if err := e.underlying.TransferFrom(ctx, borrower, e.cfg.App.Custodian, pulled); err != nil {
		e.rollback(ctx)
		return nil, err
	}

	e.journal(ctx, core.ActionTypeRepay, borrower, pulled, burned)
	return burned, nil
}

// Liquidate seize an undercollateralized account: the liquidator fronts
// the full debt and receives the entire collateral balance, whether or not
// it covers the debt. The account ends at zero shares and zero collateral.
func (e *Engine) Liquidate(ctx context.Context, liquidator, borrower string) (*uint256.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.accounts[borrower]
	if !ok {
		return nil, core.ErrAccountNotFound
	}

	pool := e.pool.Clone()
	if err := lendpool.Accrue(pool, e.now()); err != nil {
		return nil, mapErr(err)
	}

	account := current.Clone()
	liquidatable, err := e.accountz.CanLiquidate(ctx, account, pool)
	if err != nil {
		return nil, err
	}

	if !liquidatable {
		return nil, core.ErrHealthyAccount
	}

	debtAmount, err := fixedpoint.Mul(account.BorrowerShares, pool.BorrowerSharePrice)
	if err != nil {
		return nil, mapErr(err)
	}

	seized := new(uint256.Int).Set(account.CollateralAmount)
	account.BorrowerShares = fixedpoint.Zero()
	account.CollateralAmount = fixedpoint.Zero()
	pool.TotalBorrowed = fixedpoint.SubFloorZero(pool.TotalBorrowed, debtAmount)

	if err := e.commit(ctx, pool, account); err != nil {
		return nil, err
	}

	if err := e.underlying.TransferFrom(ctx, liquidator, e.cfg.App.Custodian, debtAmount); err != nil {
		e.rollback(ctx)
		return nil, err
	}

	if err := e.collateral.Transfer(ctx, liquidator, seized); err != nil {
		e.refund(ctx, e.underlying, liquidator, debtAmount)
		e.rollback(ctx)
		return nil, err
	}

	e.journal(ctx, core.ActionTypeLiquidate, borrower, debtAmount, seized)
	return seized, nil
}
