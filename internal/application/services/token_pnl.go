package services

import (
	"github.com/shopspring/decimal"

	"github.com/solwatch/wallet-pnl/internal/domain/entities"
)

var oneHundred = decimal.NewFromInt(100)

// splitTransfers partitions a transaction's transfer list into transfers of
// the target mint and transfers of wrapped SOL. Transfers of any other mint
// are ignored here.
func splitTransfers(tx entities.RawTransaction, tokenMint string) (target, quote []entities.TransferRecord) {
	return tx.TransfersForMint(tokenMint), tx.TransfersForMint(entities.WrappedSolMint)
}

// computeTokenPnl computes realized PNL for one wallet and one mint from a
// transaction slice, using the average-cost method.
//
// The computation is two ordered passes: buys first, to fix the
// volume-weighted average buy price, then sells valued against that fixed
// price. A transaction with target-mint transfers in both directions is not
// counted as a buy but still counts as a sell if an out-flow exists; the two
// passes are kept separate so that stays true.
func computeTokenPnl(walletAddress, tokenMint string, txs []entities.RawTransaction) entities.TokenPnL {
	buyVolume := decimal.Zero
	sellVolume := decimal.Zero
	buyValueSol := decimal.Zero
	sellValueSol := decimal.Zero
	buyTransactions := 0
	sellTransactions := 0

	// Pass 1: buys. A buy only contributes cost basis when SOL actually left
	// the wallet in the same transaction; tokens received for some other
	// asset are excluded.
	for _, tx := range txs {
		if len(tx.TokenTransfers) == 0 {
			continue
		}

		target, quote := splitTransfers(tx, tokenMint)
		if len(target) == 0 {
			continue
		}

		var isBuying, isSelling bool
		tokenAmount := decimal.Zero
		for _, tr := range target {
			if tr.ToUserAccount == walletAddress {
				isBuying = true
				tokenAmount = tokenAmount.Add(tr.TokenAmount)
			} else if tr.FromUserAccount == walletAddress {
				isSelling = true
				tokenAmount = tokenAmount.Add(tr.TokenAmount)
			}
		}

		if !isBuying || isSelling {
			continue
		}

		solOut := decimal.Zero
		for _, tr := range quote {
			if tr.FromUserAccount == walletAddress {
				solOut = solOut.Add(tr.TokenAmount)
			}
		}

		if tokenAmount.IsPositive() && solOut.IsPositive() {
			buyVolume = buyVolume.Add(tokenAmount)
			buyValueSol = buyValueSol.Add(solOut)
			buyTransactions++
		}
	}

	avgBuyPrice := decimal.Zero
	if buyVolume.IsPositive() {
		avgBuyPrice = buyValueSol.Div(buyVolume)
	}

	// Pass 2: sells, valued against the now-fixed average buy price.
	for _, tx := range txs {
		if len(tx.TokenTransfers) == 0 {
			continue
		}

		target, quote := splitTransfers(tx, tokenMint)
		if len(target) == 0 {
			continue
		}

		isSelling := false
		tokenAmount := decimal.Zero
		for _, tr := range target {
			if tr.FromUserAccount == walletAddress {
				isSelling = true
				tokenAmount = tokenAmount.Add(tr.TokenAmount)
			}
		}

		if !isSelling {
			continue
		}

		solIn := decimal.Zero
		for _, tr := range quote {
			if tr.ToUserAccount == walletAddress {
				solIn = solIn.Add(tr.TokenAmount)
			}
		}

		// No SOL received: the target was swapped directly into another
		// token. There is no price feed for that token, so estimate the
		// proceeds at the target's own average buy price, once per received
		// transfer.
		if solIn.IsZero() {
			for _, tr := range tx.TokenTransfers {
				if tr.Mint == tokenMint || tr.Mint == entities.WrappedSolMint {
					continue
				}
				if tr.ToUserAccount != walletAddress {
					continue
				}
				if avgBuyPrice.IsPositive() {
					solIn = solIn.Add(avgBuyPrice.Mul(tokenAmount))
				}
			}
		}

		if tokenAmount.IsPositive() {
			sellVolume = sellVolume.Add(tokenAmount)
			sellValueSol = sellValueSol.Add(solIn)
			sellTransactions++
		}
	}

	avgSellPrice := decimal.Zero
	realizedPnl := decimal.Zero
	profitPercentage := decimal.Zero
	if sellVolume.IsPositive() {
		avgSellPrice = sellValueSol.Div(sellVolume)
		costOfSold := avgBuyPrice.Mul(sellVolume)
		realizedPnl = sellValueSol.Sub(costOfSold)
		if avgBuyPrice.IsPositive() {
			profitPercentage = realizedPnl.Div(costOfSold).Mul(oneHundred)
		}
	}

	remainingInvestment := decimal.Zero
	if buyVolume.GreaterThan(sellVolume) {
		remainingInvestment = avgBuyPrice.Mul(buyVolume.Sub(sellVolume))
	}

	return entities.TokenPnL{
		TokenMint:           tokenMint,
		Invested:            buyValueSol,
		RemainingInvestment: remainingInvestment,
		RealizedPnl:         realizedPnl,
		ProfitPercentage:    profitPercentage,
		BuyVolume:           buyVolume,
		SellVolume:          sellVolume,
		RemainingTokens:     buyVolume.Sub(sellVolume),
		AvgBuyPrice:         avgBuyPrice,
		AvgSellPrice:        avgSellPrice,
		BuyTransactions:     buyTransactions,
		SellTransactions:    sellTransactions,
		TotalTransactions:   buyTransactions + sellTransactions,
	}
}
