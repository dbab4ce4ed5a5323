// Package utils
package utils

import (
	"math/big"
	"time"
)

var nanosPerMilli = big.NewInt(int64(time.Millisecond))

// NanosToMillis truncates a nanosecond timestamp to milliseconds. ok is false when the
// result does not fit in an int64.
func NanosToMillis(ns *big.Int) (int64, bool) {
	if ns == nil {
		return 0, false
	}
	return BigIntToInt64(new(big.Int).Quo(ns, nanosPerMilli))
}
