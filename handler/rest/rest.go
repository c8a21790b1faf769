package rest

import (
	"errors"
	"net/http"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
	"lendpool/handler/views"
	"lendpool/internal/lendpool"
	"lendpool/pkg/fixedpoint"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Handle read only pool api
func Handle(
	engine core.ILendingEngine,
	poolz core.IPoolService,
	accountz core.IAccountService,
	transactions core.ITransactionStore,
) http.Handler {
	r := chi.NewRouter()

	r.Get("/pool", getPool(engine, poolz))
	r.Get("/accounts/{address}", getAccount(engine, accountz))
	r.Get("/transactions", listTransactions(transactions))

	return r
}

func handleError(w http.ResponseWriter, err error) {
	var code core.ErrorCode
	if errors.As(err, &code) {
		render.Error(w, http.StatusBadRequest, int(code), err)
		return
	}

	render.BadRequest(w, err)
}

func getPool(engine core.ILendingEngine, poolz core.IPoolService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		pool, err := engine.Pool(ctx)
		if err != nil {
			handleError(w, err)
			return
		}

		utilization, err := poolz.CurUtilization(ctx, pool)
		if err != nil {
			handleError(w, err)
			return
		}

		borrowRate, lenderRate, err := poolz.CurRates(ctx, pool)
		if err != nil {
			handleError(w, err)
			return
		}

		render.JSON(w, render.H{
			"pool": views.Pool{
				TotalDeposited:     fixedpoint.ToDecimal(pool.TotalDeposited),
				TotalBorrowed:      fixedpoint.ToDecimal(pool.TotalBorrowed),
				LPSharePrice:       fixedpoint.ToDecimal(pool.LPSharePrice),
				BorrowerSharePrice: fixedpoint.ToDecimal(pool.BorrowerSharePrice),
				Utilization:        fixedpoint.ToDecimal(utilization),
				BorrowAPY:          annualize(borrowRate),
				LenderAPY:          annualize(lenderRate),
				LastUpdateTime:     pool.LastUpdateTime,
			},
		})
	}
}

// annualize scales a per second rate back to a yearly one for display
func annualize(ratePerSecond *uint256.Int) decimal.Decimal {
	if ratePerSecond == nil {
		return decimal.Zero
	}

	year := new(uint256.Int).Mul(ratePerSecond, lendpool.SecondsPerYear)
	return fixedpoint.ToDecimal(year)
}

func getAccount(engine core.ILendingEngine, accountz core.IAccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		address := chi.URLParam(r, "address")
		if !govalidator.IsUUID(address) {
			render.BadRequest(w, errors.New("invalid address"))
			return
		}

		account, err := engine.Account(ctx, address)
		if err != nil {
			handleError(w, err)
			return
		}

		pool, err := engine.Pool(ctx)
		if err != nil {
			handleError(w, err)
			return
		}

		collateralValue, err := accountz.CollateralValue(ctx, account)
		if err != nil {
			handleError(w, err)
			return
		}

		debtValue, err := accountz.DebtValue(ctx, account, pool)
		if err != nil {
			handleError(w, err)
			return
		}

		view := views.Account{
			Address:          account.Address,
			BorrowerShares:   fixedpoint.ToDecimal(account.BorrowerShares),
			CollateralAmount: fixedpoint.ToDecimal(account.CollateralAmount),
			CollateralValue:  fixedpoint.ToDecimal(collateralValue),
			DebtValue:        fixedpoint.ToDecimal(debtValue),
		}

		if !debtValue.IsZero() {
			ratio, err := accountz.CollateralizationRatio(ctx, account, pool)
			if err != nil {
				handleError(w, err)
				return
			}

			d := fixedpoint.ToDecimal(ratio)
			view.CollateralizationRatio = &d

			liquidatable, err := accountz.CanLiquidate(ctx, account, pool)
			if err != nil {
				handleError(w, err)
				return
			}

			view.Liquidatable = liquidatable
		}

		render.JSON(w, render.H{"account": view})
	}
}

func listTransactions(transactions core.ITransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			FromID uint64 `json:"from"`
			Limit  int    `json:"limit"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		list, err := transactions.List(ctx, params.FromID, params.Limit)
		if err != nil {
			handleError(w, err)
			return
		}

		items := make([]views.Transaction, 0, len(list))
		for _, t := range list {
			items = append(items, views.Transaction{
				ID:        t.ID,
				TraceID:   t.TraceID,
				Action:    t.Action.String(),
				Address:   t.Address,
				Amount:    fixedpoint.ToDecimal(t.Amount),
				Shares:    fixedpoint.ToDecimal(t.Shares),
				CreatedAt: t.CreatedAt,
			})
		}

		render.JSON(w, render.H{"transactions": items})
	}
}
