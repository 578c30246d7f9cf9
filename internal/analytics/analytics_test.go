package analytics

import (
	"bytes"
	"testing"
	"time"

	"boleto-tracker/internal/entity"
)

func cents(v int64) *int64 { return &v }

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func record(id, bank, beneficiary string, amountCents int64, due *time.Time, readAt time.Time) entity.HistoryRecord {
	return entity.HistoryRecord{
		ID:        id,
		IsBoleto:  true,
		Timestamp: readAt,
		Boleto: &entity.Boleto{
			BankCode:        bank,
			BeneficiaryCode: beneficiary,
			AmountCents:     cents(amountCents),
			DueDate:         due,
			ReadAt:          readAt,
		},
	}
}

func TestSummarizeTotals(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	readAt := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	records := []entity.HistoryRecord{
		record("1", "341", "Itaú - 678901", 10000, date(2025, time.May, 10), readAt),
		record("2", "341", "Itaú - 678901", 5000, date(2025, time.May, 25), readAt),
		record("3", "237", "Bradesco - 1234567", 2500, date(2025, time.April, 2), readAt),
		// No due date: falls back to the read date for the month bucket.
		record("4", "Governo", "", 7500, nil, readAt),
		// Not a boleto and amount-less records never contribute.
		{ID: "5", IsBoleto: false, Timestamp: readAt},
		record("6", "104", "", 0, date(2025, time.May, 1), readAt),
	}
	records[5].Boleto.AmountCents = nil

	summary := Summarize(records, Filter{Period: PeriodAll}, now)

	if summary.Count != 4 {
		t.Fatalf("count: got %d, want 4", summary.Count)
	}
	if summary.TotalAmountCents != 25000 {
		t.Errorf("total: got %d, want 25000", summary.TotalAmountCents)
	}
	if summary.TotalAmount() != 250.00 {
		t.Errorf("total reais: got %f, want 250.00", summary.TotalAmount())
	}
	if got := summary.ByBank["341"]; got != 15000 {
		t.Errorf("ByBank[341]: got %d, want 15000", got)
	}
	if got := summary.ByBank["Governo"]; got != 7500 {
		t.Errorf("ByBank[Governo]: got %d, want 7500", got)
	}
	// The beneficiary key is the bank-name prefix of the composed value.
	if got := summary.ByBeneficiary["Itaú"]; got != 15000 {
		t.Errorf("ByBeneficiary[Itaú]: got %d, want 15000", got)
	}
	if got := summary.ByBeneficiary["Bradesco"]; got != 2500 {
		t.Errorf("ByBeneficiary[Bradesco]: got %d, want 2500", got)
	}
	if got := summary.ByMonth["5/2025"]; got != 22500 {
		t.Errorf("ByMonth[5/2025]: got %d, want 22500", got)
	}
	if got := summary.ByMonth["4/2025"]; got != 2500 {
		t.Errorf("ByMonth[4/2025]: got %d, want 2500", got)
	}
}

func TestSummarizeFilters(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	readAt := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	records := []entity.HistoryRecord{
		record("1", "341", "", 10000, date(2025, time.May, 10), readAt),
		record("2", "237", "", 5000, date(2024, time.January, 15), readAt),
	}

	byBank := Summarize(records, Filter{Period: PeriodAll, BankCode: "341"}, now)
	if byBank.Count != 1 || byBank.TotalAmountCents != 10000 {
		t.Errorf("bank filter: got count=%d total=%d, want 1/10000", byBank.Count, byBank.TotalAmountCents)
	}

	// The January 2024 due date is outside every trailing window.
	for _, period := range []Period{Period30Days, Period90Days, PeriodYear} {
		summary := Summarize(records, Filter{Period: period}, now)
		if summary.Count != 1 {
			t.Errorf("period %s: got count=%d, want 1", period, summary.Count)
		}
	}

	all := Summarize(records, Filter{Period: PeriodAll, BankCode: "all"}, now)
	if all.Count != 2 {
		t.Errorf("all: got count=%d, want 2", all.Count)
	}
}

func TestRender(t *testing.T) {
	summary := Summary{
		Count:            3,
		TotalAmountCents: 45000,
		ByBank:           map[string]int64{"341": 30000, "237": 15000},
		ByBeneficiary:    map[string]int64{"Itaú": 30000, "Bradesco": 15000},
		ByMonth:          map[string]int64{"2/2025": 30000, "12/2024": 15000},
	}

	var buf bytes.Buffer
	if err := Render(&buf, summary); err != nil {
		t.Fatalf("render: %v", err)
	}

	want := "Boletos: 3\n" +
		"Total: R$ 450.00\n" +
		"\nPor banco:\n" +
		"  341\tR$ 300.00\n" +
		"  237\tR$ 150.00\n" +
		"\nPor beneficiário:\n" +
		"  Itaú\tR$ 300.00\n" +
		"  Bradesco\tR$ 150.00\n" +
		"\nPor mês:\n" +
		"  12/2024\tR$ 150.00\n" +
		"  2/2025\tR$ 300.00\n"
	if got := buf.String(); got != want {
		t.Errorf("render output:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderEmptySummary(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, Summary{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "Boletos: 0\nTotal: R$ 0.00\n"
	if got := buf.String(); got != want {
		t.Errorf("render output: got %q, want %q", got, want)
	}
}

func TestMonthKeysChronological(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	readAt := now
	records := []entity.HistoryRecord{
		record("1", "341", "", 100, date(2025, time.February, 1), readAt),
		record("2", "341", "", 100, date(2024, time.December, 1), readAt),
		record("3", "341", "", 100, date(2025, time.January, 1), readAt),
	}

	summary := Summarize(records, Filter{Period: PeriodAll}, now)
	keys := summary.MonthKeys()
	want := []string{"12/2024", "1/2025", "2/2025"}
	if len(keys) != len(want) {
		t.Fatalf("keys: got %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d]: got %q, want %q", i, keys[i], want[i])
		}
	}
}
