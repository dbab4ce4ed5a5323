// Package utils
package utils

import (
	"math/big"
	"strconv"
	"strings"
)

func StrToUint64(data string) uint64 {
	i, _ := strconv.ParseUint(data, 10, 64)
	return i
}

// StrToBigInt parses a base 10 integer of any size.
func StrToBigInt(data string) (*big.Int, bool) {
	return new(big.Int).SetString(strings.TrimSpace(data), 10)
}

// BigIntToInt64 reports ok=false when v is nil or does not fit in an int64.
func BigIntToInt64(v *big.Int) (int64, bool) {
	if v == nil || !v.IsInt64() {
		return 0, false
	}
	return v.Int64(), true
}
