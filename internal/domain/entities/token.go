package entities

import (
	"time"
)

// Token is display metadata for a mint. Never consulted by the PNL math.
type Token struct {
	Mint      string    `db:"mint" json:"mint"`
	Symbol    string    `db:"symbol" json:"symbol"`
	Name      string    `db:"name" json:"name"`
	Decimals  int       `db:"decimals" json:"decimals"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
