// Package view renders dashboard snapshots for the browser and the terminal. It only
// reads state; every write goes through the dashboard controller.
package view

import (
	"math/big"
	"time"

	"github.com/M-QiiQ/TMU-AI-DAO/utils"
)

// DeadlineLayout mirrors the en-US locale date-time form, e.g. 1/1/1970, 12:01:00 AM.
const DeadlineLayout = "1/2/2006, 3:04:05 PM"

// maxDeadlineMillis bounds the renderable range to 100,000,000 days either side of the epoch.
const maxDeadlineMillis = 8640000000000000

// FmtDeadline renders a nanosecond deadline in the local timezone.
func FmtDeadline(ns *big.Int) string {
	return FmtDeadlineIn(ns, time.Local)
}

// FmtDeadlineIn truncates ns to milliseconds and renders it in loc. A value that cannot
// be converted, or lies outside the renderable date range, is rendered as its decimal text.
func FmtDeadlineIn(ns *big.Int, loc *time.Location) string {
	if ns == nil {
		return ""
	}
	ms, ok := utils.NanosToMillis(ns)
	if !ok || ms > maxDeadlineMillis || ms < -maxDeadlineMillis {
		return ns.String()
	}
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc).Format(DeadlineLayout)
}

// FmtDeadlineString parses raw as a decimal nanosecond count. Input that is not a number
// is returned unchanged.
func FmtDeadlineString(raw string) string {
	return FmtDeadlineStringIn(raw, time.Local)
}

func FmtDeadlineStringIn(raw string, loc *time.Location) string {
	ns, ok := utils.StrToBigInt(raw)
	if !ok {
		return raw
	}
	return FmtDeadlineIn(ns, loc)
}
