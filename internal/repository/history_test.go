package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"boleto-tracker/internal/entity"
	"boleto-tracker/internal/repository/kv"
)

func historyRecord(id, barcode, line string) entity.HistoryRecord {
	return entity.HistoryRecord{
		ID:        id,
		IsBoleto:  true,
		RawType:   "itf",
		RawData:   barcode,
		Timestamp: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Boleto: &entity.Boleto{
			BankCode:      "237",
			BarcodeDigits: barcode,
			DigitableLine: line,
			CodeType:      entity.CodeTypeBarcode,
		},
	}
}

func TestHistoryRepositoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	history := NewHistoryRepository(kv.NewMemory(), 10, testLogger())

	for i := 0; i < 3; i++ {
		rec := historyRecord(fmt.Sprintf("id-%d", i), fmt.Sprintf("barcode-%d", i), "")
		if err := history.Append(ctx, rec); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	records, err := history.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len: got %d, want 3", len(records))
	}
	if records[0].ID != "id-2" || records[2].ID != "id-0" {
		t.Errorf("ordering: got [%s %s %s], want newest first", records[0].ID, records[1].ID, records[2].ID)
	}
}

func TestHistoryRepositoryCap(t *testing.T) {
	ctx := context.Background()
	history := NewHistoryRepository(kv.NewMemory(), 3, testLogger())

	for i := 0; i < 5; i++ {
		rec := historyRecord(fmt.Sprintf("id-%d", i), fmt.Sprintf("barcode-%d", i), "")
		if err := history.Append(ctx, rec); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	records, err := history.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len: got %d, want cap 3", len(records))
	}
	// Oldest entries are silently dropped.
	if records[0].ID != "id-4" || records[2].ID != "id-2" {
		t.Errorf("kept records: got [%s %s %s], want id-4..id-2", records[0].ID, records[1].ID, records[2].ID)
	}
}

func TestHistoryRepositoryContainsDuplicate(t *testing.T) {
	ctx := context.Background()
	history := NewHistoryRepository(kv.NewMemory(), 10, testLogger())

	if err := history.Append(ctx, historyRecord("id-1", "barcode-a", "line-a")); err != nil {
		t.Fatalf("append: %v", err)
	}

	tests := []struct {
		name     string
		barcode  string
		line     string
		expected bool
	}{
		{"barcode match", "barcode-a", "", true},
		{"line match", "", "line-a", true},
		{"either is sufficient", "barcode-a", "line-other", true},
		{"no match", "barcode-b", "line-b", false},
		{"empty fields never match", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := history.ContainsDuplicate(ctx, tt.barcode, tt.line)
			if err != nil {
				t.Fatalf("containsDuplicate: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ContainsDuplicate(%q, %q): got %v, want %v", tt.barcode, tt.line, got, tt.expected)
			}
		})
	}
}

func TestHistoryRepositoryClear(t *testing.T) {
	ctx := context.Background()
	history := NewHistoryRepository(kv.NewMemory(), 10, testLogger())

	if err := history.Append(ctx, historyRecord("id-1", "barcode-a", "")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := history.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	records, err := history.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len after clear: got %d, want 0", len(records))
	}
}
