package entities

import (
	"github.com/shopspring/decimal"
)

// TokenPnL is the realized profit-and-loss record for one wallet, one token
// mint and one lookback window. All quote amounts are in SOL; volumes are in
// the token's own units.
type TokenPnL struct {
	TokenMint           string          `json:"token_mint"`
	Invested            decimal.Decimal `json:"invested"`
	RemainingInvestment decimal.Decimal `json:"remaining_investment"`
	RealizedPnl         decimal.Decimal `json:"realized_pnl"`
	ProfitPercentage    decimal.Decimal `json:"profit_percentage"`
	BuyVolume           decimal.Decimal `json:"buy_volume"`
	SellVolume          decimal.Decimal `json:"sell_volume"`

	// RemainingTokens is buy volume minus sell volume. It can go negative
	// when the window clips buys that happened before it; reported as-is.
	RemainingTokens decimal.Decimal `json:"remaining_tokens"`

	AvgBuyPrice       decimal.Decimal `json:"avg_buy_price"`
	AvgSellPrice      decimal.Decimal `json:"avg_sell_price"`
	BuyTransactions   int             `json:"buy_transactions"`
	SellTransactions  int             `json:"sell_transactions"`
	TotalTransactions int             `json:"total_transactions"`
}

// ZeroTokenPnL returns an all-zero record for a mint, used when there is no
// usable transaction history for it.
func ZeroTokenPnL(mint string) TokenPnL {
	return TokenPnL{TokenMint: mint}
}

// WalletPnL is the wallet-level PNL summary for one lookback window,
// computed fresh per request and never persisted.
type WalletPnL struct {
	WalletAddress            string          `json:"wallet_address"`
	WalletName               string          `json:"wallet_name"`
	PeriodDays               int             `json:"period_days"`
	TotalInvested            decimal.Decimal `json:"total_invested"`
	TotalRemainingInvestment decimal.Decimal `json:"total_remaining_investment"`
	TotalRealizedPnl         decimal.Decimal `json:"total_realized_pnl"`
	OverallProfitPercentage  decimal.Decimal `json:"overall_profit_percentage"`
	TotalBuyTransactions     int             `json:"total_buy_transactions"`
	TotalSellTransactions    int             `json:"total_sell_transactions"`
	TotalTransactions        int             `json:"total_transactions"`
	TokenPnls                []TokenPnL      `json:"token_pnls"`
}
