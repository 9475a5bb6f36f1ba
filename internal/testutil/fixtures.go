package testutil

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solwatch/wallet-pnl/internal/domain/entities"
)

// Common test addresses and mints
const (
	TestWallet      = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
	OtherWallet     = "9yQNdPZUvCgSE85fqv58oTYLFv6qUvtvxgsGos5sBbXH"
	PoolAddress     = "5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1"
	BonkMint        = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
	WifMint         = "EKpQGSJtjMFqKZ9KQanSqYXRcF8fBopzLHYxdM65zcjm"
	UsdcMint        = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	UnknownTestMint = "8wXtPeU6557ETkp9WHFY1n1EcU6NxDvbAggHGsMYiHsB"
)

// BaseTimestamp anchors fixture transactions at a fixed point in time
var BaseTimestamp = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).Unix()

// CreateTestTransaction creates a swap transaction with default values
func CreateTestTransaction(opts ...TransactionOption) entities.RawTransaction {
	tx := entities.RawTransaction{
		Signature:      "sig-default",
		Timestamp:      BaseTimestamp,
		Type:           "SWAP",
		TokenTransfers: nil,
	}

	for _, opt := range opts {
		opt(&tx)
	}

	return tx
}

type TransactionOption func(*entities.RawTransaction)

func WithSignature(sig string) TransactionOption {
	return func(tx *entities.RawTransaction) {
		tx.Signature = sig
	}
}

func WithTimestamp(ts int64) TransactionOption {
	return func(tx *entities.RawTransaction) {
		tx.Timestamp = ts
	}
}

func WithType(txType string) TransactionOption {
	return func(tx *entities.RawTransaction) {
		tx.Type = txType
	}
}

func WithTransfer(mint, from, to string, amount float64) TransactionOption {
	return func(tx *entities.RawTransaction) {
		tx.TokenTransfers = append(tx.TokenTransfers, entities.TransferRecord{
			Mint:            mint,
			FromUserAccount: from,
			ToUserAccount:   to,
			TokenAmount:     decimal.NewFromFloat(amount),
		})
	}
}

// BuyTransaction builds a swap where the wallet receives tokens and pays SOL
func BuyTransaction(wallet, mint string, tokenAmount, solAmount float64, opts ...TransactionOption) entities.RawTransaction {
	base := []TransactionOption{
		WithSignature(fmt.Sprintf("buy-%s-%v", mint[:8], tokenAmount)),
		WithTransfer(mint, PoolAddress, wallet, tokenAmount),
		WithTransfer(entities.WrappedSolMint, wallet, PoolAddress, solAmount),
	}
	return CreateTestTransaction(append(base, opts...)...)
}

// SellTransaction builds a swap where the wallet sends tokens and receives SOL
func SellTransaction(wallet, mint string, tokenAmount, solAmount float64, opts ...TransactionOption) entities.RawTransaction {
	base := []TransactionOption{
		WithSignature(fmt.Sprintf("sell-%s-%v", mint[:8], tokenAmount)),
		WithTransfer(mint, wallet, PoolAddress, tokenAmount),
		WithTransfer(entities.WrappedSolMint, PoolAddress, wallet, solAmount),
	}
	return CreateTestTransaction(append(base, opts...)...)
}

// DirectSwapTransaction builds a token-to-token swap with no SOL leg: the
// wallet sends the target mint out and receives some other token back
func DirectSwapTransaction(wallet, mint string, tokenAmount float64, otherMint string, otherAmount float64, opts ...TransactionOption) entities.RawTransaction {
	base := []TransactionOption{
		WithSignature(fmt.Sprintf("swap-%s-%v", mint[:8], tokenAmount)),
		WithTransfer(mint, wallet, PoolAddress, tokenAmount),
		WithTransfer(otherMint, PoolAddress, wallet, otherAmount),
	}
	return CreateTestTransaction(append(base, opts...)...)
}

// CreateTestWallet creates a registry wallet with default values
func CreateTestWallet(opts ...WalletOption) entities.SmartWallet {
	w := entities.SmartWallet{
		ID:          1,
		Address:     TestWallet,
		Name:        "alpha-hunter",
		FirstSeen:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		LastActive:  time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
		ProfitRate:  decimal.NewFromFloat(0.42),
		TotalTrades: 128,
	}

	for _, opt := range opts {
		opt(&w)
	}

	return w
}

type WalletOption func(*entities.SmartWallet)

func WalletWithID(id int64) WalletOption {
	return func(w *entities.SmartWallet) {
		w.ID = id
	}
}

func WalletWithAddress(addr string) WalletOption {
	return func(w *entities.SmartWallet) {
		w.Address = addr
	}
}

func WalletWithName(name string) WalletOption {
	return func(w *entities.SmartWallet) {
		w.Name = name
	}
}

// CreateTestToken creates a token with default values
func CreateTestToken(opts ...TokenOption) entities.Token {
	tok := entities.Token{
		Mint:      BonkMint,
		Symbol:    "BONK",
		Name:      "Bonk",
		Decimals:  5,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	for _, opt := range opts {
		opt(&tok)
	}

	return tok
}

type TokenOption func(*entities.Token)

func TokenWithMint(mint string) TokenOption {
	return func(t *entities.Token) {
		t.Mint = mint
	}
}

func TokenWithSymbol(symbol string) TokenOption {
	return func(t *entities.Token) {
		t.Symbol = symbol
	}
}

func TokenWithName(name string) TokenOption {
	return func(t *entities.Token) {
		t.Name = name
	}
}

// CreateTestHolding creates a holdings-log row with default values
func CreateTestHolding(opts ...HoldingOption) entities.WalletHolding {
	h := entities.WalletHolding{
		WalletAddress: TestWallet,
		TokenMint:     BonkMint,
		FirstSeen:     time.Unix(BaseTimestamp, 0).UTC(),
	}

	for _, opt := range opts {
		opt(&h)
	}

	return h
}

type HoldingOption func(*entities.WalletHolding)

func HoldingWithWallet(addr string) HoldingOption {
	return func(h *entities.WalletHolding) {
		h.WalletAddress = addr
	}
}

func HoldingWithMint(mint string) HoldingOption {
	return func(h *entities.WalletHolding) {
		h.TokenMint = mint
	}
}

func HoldingWithFirstSeen(ts time.Time) HoldingOption {
	return func(h *entities.WalletHolding) {
		h.FirstSeen = ts
	}
}
