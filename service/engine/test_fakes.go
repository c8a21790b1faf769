package engine

import (
	"context"
	"errors"
	"sync"

	"lendpool/core"
	"lendpool/pkg/fixedpoint"

	"github.com/holiman/uint256"
)

// In-memory collaborators for engine tests.

var errInsufficientBalance = errors.New("ledger: insufficient balance")

type fakeLedger struct {
	mu        sync.Mutex
	custodian string
	balances  map[string]*uint256.Int
	failNext  bool
}

func newFakeLedger(custodian string) *fakeLedger {
	return &fakeLedger{
		custodian: custodian,
		balances:  make(map[string]*uint256.Int),
	}
}

func (l *fakeLedger) set(address string, amount *uint256.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[address] = new(uint256.Int).Set(amount)
}

func (l *fakeLedger) balance(address string) *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.balances[address]; ok {
		return new(uint256.Int).Set(b)
	}
	return new(uint256.Int)
}

func (l *fakeLedger) move(from, to string, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.failNext {
		l.failNext = false
		return errors.New("ledger: transfer rejected")
	}

	src, ok := l.balances[from]
	if !ok || src.Lt(amount) {
		return errInsufficientBalance
	}

	l.balances[from] = new(uint256.Int).Sub(src, amount)
	dst, ok := l.balances[to]
	if !ok {
		dst = new(uint256.Int)
	}
	l.balances[to] = new(uint256.Int).Add(dst, amount)
	return nil
}

func (l *fakeLedger) Transfer(ctx context.Context, to string, amount *uint256.Int) error {
	return l.move(l.custodian, to, amount)
}

func (l *fakeLedger) TransferFrom(ctx context.Context, from, to string, amount *uint256.Int) error {
	return l.move(from, to, amount)
}

func (l *fakeLedger) BalanceOf(ctx context.Context, address string) (*uint256.Int, error) {
	return l.balance(address), nil
}

type fakeShareToken struct {
	mu       sync.Mutex
	balances map[string]*uint256.Int
}

func newFakeShareToken() *fakeShareToken {
	return &fakeShareToken{balances: make(map[string]*uint256.Int)}
}

func (t *fakeShareToken) Mint(ctx context.Context, to string, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.balances[to]
	if !ok {
		b = new(uint256.Int)
	}
	t.balances[to] = new(uint256.Int).Add(b, amount)
	return nil
}

func (t *fakeShareToken) Burn(ctx context.Context, from string, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.balances[from]
	if !ok || b.Lt(amount) {
		return errInsufficientBalance
	}
	t.balances[from] = new(uint256.Int).Sub(b, amount)
	return nil
}

func (t *fakeShareToken) BalanceOf(ctx context.Context, address string) (*uint256.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if b, ok := t.balances[address]; ok {
		return new(uint256.Int).Set(b), nil
	}
	return new(uint256.Int), nil
}

type fakeOracle struct {
	price    *uint256.Int
	decimals int32
	err      error
}

func (o *fakeOracle) LatestPrice(ctx context.Context) (*uint256.Int, int32, error) {
	if o.err != nil {
		return nil, 0, o.err
	}
	return new(uint256.Int).Set(o.price), o.decimals, nil
}

type fakePoolStore struct {
	pool *core.Pool
}

func (s *fakePoolStore) Save(ctx context.Context, pool *core.Pool) error {
	s.pool = pool.Clone()
	return nil
}

func (s *fakePoolStore) Find(ctx context.Context) (*core.Pool, error) {
	if s.pool == nil {
		return nil, nil
	}
	return s.pool.Clone(), nil
}

type fakeAccountStore struct {
	accounts map[string]*core.BorrowerAccount
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: make(map[string]*core.BorrowerAccount)}
}

func (s *fakeAccountStore) Save(ctx context.Context, account *core.BorrowerAccount) error {
	s.accounts[account.Address] = account.Clone()
	return nil
}

func (s *fakeAccountStore) Find(ctx context.Context, address string) (*core.BorrowerAccount, error) {
	if account, ok := s.accounts[address]; ok {
		return account.Clone(), nil
	}
	return nil, nil
}

func (s *fakeAccountStore) All(ctx context.Context) ([]*core.BorrowerAccount, error) {
	accounts := make([]*core.BorrowerAccount, 0, len(s.accounts))
	for _, account := range s.accounts {
		accounts = append(accounts, account.Clone())
	}
	return accounts, nil
}

type fakeTransactionStore struct {
	transactions []*core.Transaction
}

func (s *fakeTransactionStore) Create(ctx context.Context, transaction *core.Transaction) error {
	s.transactions = append(s.transactions, transaction)
	return nil
}

func (s *fakeTransactionStore) List(ctx context.Context, fromID uint64, limit int) ([]*core.Transaction, error) {
	if limit <= 0 || limit > len(s.transactions) {
		limit = len(s.transactions)
	}
	return s.transactions[:limit], nil
}

func amountOf(units uint64) *uint256.Int {
	return new(uint256.Int).Mul(fixedpoint.One, uint256.NewInt(units))
}
