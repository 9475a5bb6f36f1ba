package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// SmartWallet is a tracked wallet in the registry
type SmartWallet struct {
	ID          int64           `db:"id" json:"id"`
	Address     string          `db:"address" json:"address"`
	Name        string          `db:"name" json:"name"`
	FirstSeen   time.Time       `db:"first_seen" json:"first_seen"`
	LastActive  time.Time       `db:"last_active" json:"last_active"`
	ProfitRate  decimal.Decimal `db:"profit_rate" json:"profit_rate"`
	TotalTrades int64           `db:"total_trades" json:"total_trades"`
}

// WalletHolding is one row of the holdings-history log: the first time a
// wallet was seen holding a mint. The (wallet, mint) pair is unique; the
// earliest first-seen timestamp wins.
type WalletHolding struct {
	WalletAddress string    `db:"wallet_address" json:"wallet_address"`
	TokenMint     string    `db:"token_mint" json:"token_mint"`
	FirstSeen     time.Time `db:"first_seen" json:"first_seen"`
}

// WalletCursor is the holdings monitor's per-wallet checkpoint: the
// timestamp of the newest transaction already processed.
type WalletCursor struct {
	WalletAddress string    `db:"wallet_address"`
	LastSeenAt    time.Time `db:"last_seen_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
