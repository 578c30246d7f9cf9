// Package analytics aggregates committed scan history for display and
// export consumers.
package analytics

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"boleto-tracker/internal/entity"
)

// Period restricts aggregation to a trailing window ending now.
type Period string

const (
	PeriodAll    Period = "all"
	Period30Days Period = "30d"
	Period90Days Period = "90d"
	PeriodYear   Period = "year"
)

// Filter selects which history records enter a summary. An empty BankCode
// (or "all") keeps every bank.
type Filter struct {
	Period   Period
	BankCode string
}

// Summary holds aggregated totals in integer cents.
type Summary struct {
	Count            int
	TotalAmountCents int64
	// ByBank keys on the slip's bank code.
	ByBank map[string]int64
	// ByBeneficiary keys on the bank-name prefix of the persisted
	// beneficiary value (the part before " - "), falling back to the full
	// value.
	ByBeneficiary map[string]int64
	// ByMonth keys on "M/YYYY" of the due date, falling back to the read
	// date.
	ByMonth map[string]int64
}

// TotalAmount returns the grand total in reais.
func (s Summary) TotalAmount() float64 {
	return float64(s.TotalAmountCents) / 100
}

// MonthKeys returns ByMonth's keys in chronological order.
func (s Summary) MonthKeys() []string {
	keys := make([]string, 0, len(s.ByMonth))
	for key := range s.ByMonth {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		mi, yi := splitMonthKey(keys[i])
		mj, yj := splitMonthKey(keys[j])
		if yi != yj {
			return yi < yj
		}
		return mi < mj
	})
	return keys
}

func splitMonthKey(key string) (month, year int) {
	fmt.Sscanf(key, "%d/%d", &month, &year)
	return month, year
}

// Summarize folds history records into a Summary. Only boleto records with
// a parsed amount contribute; records outside the filter window (judged by
// due date, falling back to read date) are skipped.
func Summarize(records []entity.HistoryRecord, filter Filter, now time.Time) Summary {
	summary := Summary{
		ByBank:        make(map[string]int64),
		ByBeneficiary: make(map[string]int64),
		ByMonth:       make(map[string]int64),
	}

	cutoff, bounded := cutoffFor(filter.Period, now)
	for _, rec := range records {
		b := rec.Boleto
		if !rec.IsBoleto || b == nil || !b.HasAmount() {
			continue
		}
		if filter.BankCode != "" && filter.BankCode != "all" && b.BankCode != filter.BankCode {
			continue
		}
		date := recordDate(b, rec.Timestamp)
		if bounded && date.Before(cutoff) {
			continue
		}

		cents := *b.AmountCents
		summary.Count++
		summary.TotalAmountCents += cents
		summary.ByBank[b.BankCode] += cents
		if b.BeneficiaryCode != "" {
			summary.ByBeneficiary[beneficiaryKey(b.BeneficiaryCode)] += cents
		}
		summary.ByMonth[fmt.Sprintf("%d/%d", int(date.Month()), date.Year())] += cents
	}
	return summary
}

// Render writes a summary as plain text: grand totals, then per-bank and
// per-beneficiary amounts largest first, then per-month amounts in
// chronological order.
func Render(w io.Writer, s Summary) error {
	if _, err := fmt.Fprintf(w, "Boletos: %d\nTotal: R$ %.2f\n", s.Count, s.TotalAmount()); err != nil {
		return err
	}
	if err := renderGroup(w, "Por banco", s.ByBank); err != nil {
		return err
	}
	if err := renderGroup(w, "Por beneficiário", s.ByBeneficiary); err != nil {
		return err
	}
	if len(s.ByMonth) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\nPor mês:\n"); err != nil {
		return err
	}
	for _, key := range s.MonthKeys() {
		if _, err := fmt.Fprintf(w, "  %s\tR$ %.2f\n", key, float64(s.ByMonth[key])/100); err != nil {
			return err
		}
	}
	return nil
}

func renderGroup(w io.Writer, title string, group map[string]int64) error {
	if len(group) == 0 {
		return nil
	}
	keys := make([]string, 0, len(group))
	for key := range group {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if group[keys[i]] != group[keys[j]] {
			return group[keys[i]] > group[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if _, err := fmt.Fprintf(w, "\n%s:\n", title); err != nil {
		return err
	}
	for _, key := range keys {
		if _, err := fmt.Fprintf(w, "  %s\tR$ %.2f\n", key, float64(group[key])/100); err != nil {
			return err
		}
	}
	return nil
}

func cutoffFor(period Period, now time.Time) (time.Time, bool) {
	switch period {
	case Period30Days:
		return now.AddDate(0, 0, -30), true
	case Period90Days:
		return now.AddDate(0, 0, -90), true
	case PeriodYear:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

// recordDate prefers the due date, matching how the aggregation views a
// slip's month; unset or invalid due dates fall back to the read time.
func recordDate(b *entity.Boleto, fallback time.Time) time.Time {
	if b.DueDate != nil && !b.DueDateInvalid {
		return *b.DueDate
	}
	if !b.ReadAt.IsZero() {
		return b.ReadAt
	}
	return fallback
}

// beneficiaryKey recovers the bank-name prefix from the composed persisted
// beneficiary value.
func beneficiaryKey(value string) string {
	if prefix, _, found := strings.Cut(value, " - "); found && prefix != "" {
		return prefix
	}
	return value
}
