package engine

import (
	"context"
	"errors"

	"lendpool/core"
	"lendpool/internal/lendpool"
	"lendpool/pkg/fixedpoint"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/uuid"
	"github.com/holiman/uint256"
)

// undoLog previous state captured by commit, consumed by rollback when an
// external transfer fails after the ledger was persisted
type undoLog struct {
	pool    *core.Pool
	account *core.BorrowerAccount
	address string
}

// commit persists the mutated clones and swaps them into the engine state.
// A persistence failure restores any row already written and leaves the
// in-memory state untouched.
func (e *Engine) commit(ctx context.Context, pool *core.Pool, account *core.BorrowerAccount) error {
	var undo undoLog
	if pool != nil {
		undo.pool = e.pool
	}
	if account != nil {
		undo.address = account.Address
		if prev, ok := e.accounts[account.Address]; ok {
			undo.account = prev
		} else {
			undo.account = newAccount(account.Address)
		}
	}

	if pool != nil {
		if err := e.poolStore.Save(ctx, pool); err != nil {
			return err
		}
	}

	if account != nil {
		if err := e.accountStore.Save(ctx, account); err != nil {
			if pool != nil {
				if err := e.poolStore.Save(ctx, e.pool); err != nil {
					logger.FromContext(ctx).WithError(err).Errorln("engine: restore pool row")
				}
			}
			return err
		}
	}

	if pool != nil {
		e.pool = pool
	}
	if account != nil {
		e.accounts[account.Address] = account
	}

	e.undo = undo
	return nil
}

// rollback restores the state captured by the last commit, in memory and
// in the stores
func (e *Engine) rollback(ctx context.Context) {
	log := logger.FromContext(ctx)

	if e.undo.pool != nil {
		e.pool = e.undo.pool
		if err := e.poolStore.Save(ctx, e.undo.pool); err != nil {
			log.WithError(err).Errorln("engine: rollback pool row")
		}
	}

	if e.undo.address != "" {
		e.accounts[e.undo.address] = e.undo.account
		if err := e.accountStore.Save(ctx, e.undo.account); err != nil {
			log.WithError(err).Errorln("engine: rollback account row")
		}
	}

	e.undo = undoLog{}
}

func (e *Engine) refund(ctx context.Context, ledger core.IAssetLedger, to string, amount *uint256.Int) {
	if err := ledger.Transfer(ctx, to, amount); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("engine: refund transfer")
	}
}

func (e *Engine) requireCollateralized(ctx context.Context, account *core.BorrowerAccount, pool *core.Pool) error {
	if account.BorrowerShares.IsZero() {
		return nil
	}

	ratio, err := e.accountz.CollateralizationRatio(ctx, account, pool)
	if err != nil {
		return err
	}

	if ratio.Lt(lendpool.MinCollateralizationRatio) {
		return core.ErrMinCollateralization
	}

	return nil
}

// journal records a committed operation. Journal failures are logged, not
// propagated: the ledger transition already settled.
func (e *Engine) journal(ctx context.Context, action core.ActionType, address string, amount, shares *uint256.Int) {
	if amount == nil {
		amount = fixedpoint.Zero()
	}
	if shares == nil {
		shares = fixedpoint.Zero()
	}

	transaction := &core.Transaction{
		TraceID: uuid.New(),
		Action:  action,
		Address: address,
		Amount:  amount,
		Shares:  shares,
	}

	if err := e.transactionStore.Create(ctx, transaction); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("engine: journal write")
	}
}

func (e *Engine) cloneAccount(address string) *core.BorrowerAccount {
	if account, ok := e.accounts[address]; ok {
		return account.Clone()
	}

	return newAccount(address)
}

func newAccount(address string) *core.BorrowerAccount {
	return &core.BorrowerAccount{
		Address:          address,
		BorrowerShares:   fixedpoint.Zero(),
		CollateralAmount: fixedpoint.Zero(),
	}
}

func freeLiquidity(pool *core.Pool) *uint256.Int {
	return fixedpoint.SubFloorZero(pool.TotalDeposited, pool.TotalBorrowed)
}

func positive(x *uint256.Int) bool {
	return x != nil && !x.IsZero()
}

func mapErr(err error) error {
	if errors.Is(err, fixedpoint.ErrOverflow) ||
		errors.Is(err, fixedpoint.ErrDivisionByZero) ||
		errors.Is(err, fixedpoint.ErrNegative) {
		return core.ErrOverflow
	}

	return err
}
