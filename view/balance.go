package view

import (
	"math/big"

	"github.com/M-QiiQ/TMU-AI-DAO/utils"
)

// BalanceString is the exact decimal form of b at any magnitude.
func BalanceString(b *big.Int) string {
	if b == nil {
		return "0"
	}
	return b.String()
}

// BalanceInt64 is for callers bound to a fixed width. ok is false when b does not fit.
func BalanceInt64(b *big.Int) (int64, bool) {
	return utils.BigIntToInt64(b)
}
