package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/solwatch/wallet-pnl/internal/domain/entities"
	"github.com/solwatch/wallet-pnl/internal/domain/repositories"
)

// MockWalletRepository is a mock implementation of WalletRepository
type MockWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]entities.SmartWallet

	// Function hooks for custom behavior
	GetByAddressFunc    func(ctx context.Context, address string) (*entities.SmartWallet, error)
	ListFunc            func(ctx context.Context) ([]entities.SmartWallet, error)
	TouchLastActiveFunc func(ctx context.Context, address string) error

	// Call tracking
	Calls []MockCall
}

type MockCall struct {
	Method string
	Args   []interface{}
}

func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]entities.SmartWallet),
		Calls:   make([]MockCall, 0),
	}
}

// AddWallet seeds the in-memory registry
func (m *MockWalletRepository) AddWallet(w entities.SmartWallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[w.Address] = w
}

func (m *MockWalletRepository) GetByAddress(ctx context.Context, address string) (*entities.SmartWallet, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "GetByAddress", Args: []interface{}{address}})
	m.mu.Unlock()

	if m.GetByAddressFunc != nil {
		return m.GetByAddressFunc(ctx, address)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.wallets[address]; ok {
		return &w, nil
	}
	return nil, repositories.ErrWalletNotFound
}

func (m *MockWalletRepository) List(ctx context.Context) ([]entities.SmartWallet, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "List"})
	m.mu.Unlock()

	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]entities.SmartWallet, 0, len(m.wallets))
	for _, w := range m.wallets {
		out = append(out, w)
	}
	return out, nil
}

func (m *MockWalletRepository) TouchLastActive(ctx context.Context, address string) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "TouchLastActive", Args: []interface{}{address}})
	m.mu.Unlock()

	if m.TouchLastActiveFunc != nil {
		return m.TouchLastActiveFunc(ctx, address)
	}
	return nil
}

// CallCount returns how many times a method was called
func (m *MockWalletRepository) CallCount(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, c := range m.Calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// MockHoldingRepository is a mock implementation of HoldingRepository
type MockHoldingRepository struct {
	mu       sync.RWMutex
	holdings []entities.WalletHolding

	DistinctMintsAcquiredFunc func(ctx context.Context, walletAddress string, since time.Time) ([]string, error)
	GetByWalletFunc           func(ctx context.Context, walletAddress string, since time.Time) ([]entities.WalletHolding, error)
	RecordFunc                func(ctx context.Context, holding entities.WalletHolding) error

	Calls []MockCall
}

func NewMockHoldingRepository() *MockHoldingRepository {
	return &MockHoldingRepository{
		holdings: make([]entities.WalletHolding, 0),
		Calls:    make([]MockCall, 0),
	}
}

// AddHolding seeds the in-memory holdings log
func (m *MockHoldingRepository) AddHolding(h entities.WalletHolding) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holdings = append(m.holdings, h)
}

func (m *MockHoldingRepository) DistinctMintsAcquired(ctx context.Context, walletAddress string, since time.Time) ([]string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "DistinctMintsAcquired", Args: []interface{}{walletAddress, since}})
	m.mu.Unlock()

	if m.DistinctMintsAcquiredFunc != nil {
		return m.DistinctMintsAcquiredFunc(ctx, walletAddress, since)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	mints := make([]string, 0)
	for _, h := range m.holdings {
		if h.WalletAddress != walletAddress || h.FirstSeen.Before(since) {
			continue
		}
		if !seen[h.TokenMint] {
			seen[h.TokenMint] = true
			mints = append(mints, h.TokenMint)
		}
	}
	return mints, nil
}

func (m *MockHoldingRepository) GetByWallet(ctx context.Context, walletAddress string, since time.Time) ([]entities.WalletHolding, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "GetByWallet", Args: []interface{}{walletAddress, since}})
	m.mu.Unlock()

	if m.GetByWalletFunc != nil {
		return m.GetByWalletFunc(ctx, walletAddress, since)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]entities.WalletHolding, 0)
	for _, h := range m.holdings {
		if h.WalletAddress == walletAddress && !h.FirstSeen.Before(since) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *MockHoldingRepository) Record(ctx context.Context, holding entities.WalletHolding) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "Record", Args: []interface{}{holding}})
	m.mu.Unlock()

	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, holding)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, h := range m.holdings {
		if h.WalletAddress == holding.WalletAddress && h.TokenMint == holding.TokenMint {
			if holding.FirstSeen.Before(h.FirstSeen) {
				m.holdings[i].FirstSeen = holding.FirstSeen
			}
			return nil
		}
	}
	m.holdings = append(m.holdings, holding)
	return nil
}

// Holdings returns a copy of the recorded rows
func (m *MockHoldingRepository) Holdings() []entities.WalletHolding {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]entities.WalletHolding, len(m.holdings))
	copy(out, m.holdings)
	return out
}

// MockTokenRepository is a mock implementation of TokenRepository
type MockTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]entities.Token

	GetByMintFunc func(ctx context.Context, mint string) (*entities.Token, error)
	UpsertFunc    func(ctx context.Context, token *entities.Token) error

	Calls []MockCall
}

func NewMockTokenRepository() *MockTokenRepository {
	return &MockTokenRepository{
		tokens: make(map[string]entities.Token),
		Calls:  make([]MockCall, 0),
	}
}

func (m *MockTokenRepository) AddToken(t entities.Token) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[t.Mint] = t
}

func (m *MockTokenRepository) GetByMint(ctx context.Context, mint string) (*entities.Token, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "GetByMint", Args: []interface{}{mint}})
	m.mu.Unlock()

	if m.GetByMintFunc != nil {
		return m.GetByMintFunc(ctx, mint)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.tokens[mint]; ok {
		return &t, nil
	}
	return nil, nil
}

func (m *MockTokenRepository) Upsert(ctx context.Context, token *entities.Token) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "Upsert", Args: []interface{}{token.Mint}})
	m.mu.Unlock()

	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token.Mint] = *token
	return nil
}

// MockCursorRepository is a mock implementation of CursorRepository
type MockCursorRepository struct {
	mu      sync.RWMutex
	cursors map[string]entities.WalletCursor

	GetFunc    func(ctx context.Context, walletAddress string) (*entities.WalletCursor, error)
	UpsertFunc func(ctx context.Context, walletAddress string, lastSeenAt time.Time) error

	Calls []MockCall
}

func NewMockCursorRepository() *MockCursorRepository {
	return &MockCursorRepository{
		cursors: make(map[string]entities.WalletCursor),
		Calls:   make([]MockCall, 0),
	}
}

func (m *MockCursorRepository) SetCursor(walletAddress string, lastSeenAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursors[walletAddress] = entities.WalletCursor{
		WalletAddress: walletAddress,
		LastSeenAt:    lastSeenAt,
		UpdatedAt:     time.Now(),
	}
}

func (m *MockCursorRepository) Get(ctx context.Context, walletAddress string) (*entities.WalletCursor, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "Get", Args: []interface{}{walletAddress}})
	m.mu.Unlock()

	if m.GetFunc != nil {
		return m.GetFunc(ctx, walletAddress)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.cursors[walletAddress]; ok {
		return &c, nil
	}
	return nil, nil
}

func (m *MockCursorRepository) Upsert(ctx context.Context, walletAddress string, lastSeenAt time.Time) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "Upsert", Args: []interface{}{walletAddress, lastSeenAt}})
	m.mu.Unlock()

	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, walletAddress, lastSeenAt)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursors[walletAddress] = entities.WalletCursor{
		WalletAddress: walletAddress,
		LastSeenAt:    lastSeenAt,
		UpdatedAt:     time.Now(),
	}
	return nil
}

// MockTransactionSource is a mock transaction history source
type MockTransactionSource struct {
	mu           sync.RWMutex
	transactions map[string][]entities.RawTransaction

	GetWalletTransactionsFunc func(ctx context.Context, walletAddress string, days int) ([]entities.RawTransaction, error)

	Calls []MockCall
}

func NewMockTransactionSource() *MockTransactionSource {
	return &MockTransactionSource{
		transactions: make(map[string][]entities.RawTransaction),
		Calls:        make([]MockCall, 0),
	}
}

// SetTransactions sets the canned history for a wallet
func (m *MockTransactionSource) SetTransactions(walletAddress string, txs []entities.RawTransaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[walletAddress] = txs
}

func (m *MockTransactionSource) GetWalletTransactions(ctx context.Context, walletAddress string, days int) ([]entities.RawTransaction, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "GetWalletTransactions", Args: []interface{}{walletAddress, days}})
	m.mu.Unlock()

	if m.GetWalletTransactionsFunc != nil {
		return m.GetWalletTransactionsFunc(ctx, walletAddress, days)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transactions[walletAddress], nil
}

// CallCount returns how many times GetWalletTransactions was called
func (m *MockTransactionSource) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Calls)
}

// MockMetadataSource is a mock token metadata source
type MockMetadataSource struct {
	mu     sync.RWMutex
	tokens map[string]entities.Token

	GetTokenMetadataFunc func(ctx context.Context, mints []string) (map[string]entities.Token, error)

	Calls []MockCall
}

func NewMockMetadataSource() *MockMetadataSource {
	return &MockMetadataSource{
		tokens: make(map[string]entities.Token),
		Calls:  make([]MockCall, 0),
	}
}

func (m *MockMetadataSource) AddToken(t entities.Token) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[t.Mint] = t
}

func (m *MockMetadataSource) GetTokenMetadata(ctx context.Context, mints []string) (map[string]entities.Token, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "GetTokenMetadata", Args: []interface{}{mints}})
	m.mu.Unlock()

	if m.GetTokenMetadataFunc != nil {
		return m.GetTokenMetadataFunc(ctx, mints)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]entities.Token)
	for _, mint := range mints {
		if t, ok := m.tokens[mint]; ok {
			out[mint] = t
		}
	}
	return out, nil
}

// MockHealthChecker is a mock health checker for handler tests
type MockHealthChecker struct {
	healthy bool

	HealthCheckFunc func(ctx context.Context) error
}

func NewMockHealthChecker(healthy bool) *MockHealthChecker {
	return &MockHealthChecker{healthy: healthy}
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	if m.HealthCheckFunc != nil {
		return m.HealthCheckFunc(ctx)
	}
	if !m.healthy {
		return errors.New("health check failed")
	}
	return nil
}
