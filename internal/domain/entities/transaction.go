package entities

import (
	"github.com/shopspring/decimal"
)

// WrappedSolMint is the mint address of wrapped SOL, the quote currency for
// all PNL pricing.
const WrappedSolMint = "So11111111111111111111111111111111111111112"

// TransferRecord is one token movement inside a transaction, as reported by
// the Helius enhanced-transactions API. Amounts are human-scaled token units,
// not lamports.
type TransferRecord struct {
	Mint            string          `json:"mint"`
	FromUserAccount string          `json:"fromUserAccount"`
	ToUserAccount   string          `json:"toUserAccount"`
	TokenAmount     decimal.Decimal `json:"tokenAmount"`
}

// RawTransaction is an indexer-provided record of one on-chain transaction
// involving a tracked wallet. The transfer list may be empty; consumers must
// tolerate that.
type RawTransaction struct {
	Signature      string           `json:"signature"`
	Timestamp      int64            `json:"timestamp"`
	Type           string           `json:"type"`
	TokenTransfers []TransferRecord `json:"tokenTransfers"`
}

// TransfersForMint returns the subset of transfers for the given mint.
func (t *RawTransaction) TransfersForMint(mint string) []TransferRecord {
	var out []TransferRecord
	for _, tr := range t.TokenTransfers {
		if tr.Mint == mint {
			out = append(out, tr)
		}
	}
	return out
}
