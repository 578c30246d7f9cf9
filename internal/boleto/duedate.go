package boleto

import (
	"strconv"
	"time"
)

// The maturity-factor space was reset by Febraban on 2025-02-22, restarting
// the counter at 1000. Factors above 5000 still belong to the legacy epoch.
var (
	legacyEpoch = time.Date(1997, time.October, 7, 0, 0, 0, 0, time.UTC)
	resetEpoch  = time.Date(2025, time.February, 22, 0, 0, 0, 0, time.UTC)
)

// DueDateFromFactor converts a 4-digit maturity factor into a calendar
// date. A non-numeric factor yields (nil, true): the invalid-date sentinel,
// never an error.
func DueDateFromFactor(factor string) (due *time.Time, invalid bool) {
	n, err := strconv.Atoi(factor)
	if err != nil {
		return nil, true
	}
	var d time.Time
	if n > 5000 {
		d = legacyEpoch.AddDate(0, 0, n)
	} else {
		d = resetEpoch.AddDate(0, 0, n-1000)
	}
	return &d, false
}
