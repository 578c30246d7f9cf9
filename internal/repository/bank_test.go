package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"boleto-tracker/internal/repository/kv"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBankRepositoryInitializeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	banks := NewBankRepository(kv.NewMemory(), testLogger())

	seeded, err := banks.Initialize(ctx)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if len(seeded) != 12 {
		t.Fatalf("seed count: got %d, want 12", len(seeded))
	}

	if err := banks.Register(ctx, "999", "Banco Novo"); err != nil {
		t.Fatalf("register: %v", err)
	}

	again, err := banks.Initialize(ctx)
	if err != nil {
		t.Fatalf("second initialize: %v", err)
	}
	if len(again) != 13 {
		t.Fatalf("second initialize must not reset the registry: got %d entries, want 13", len(again))
	}
}

func TestBankRepositoryRegister(t *testing.T) {
	ctx := context.Background()
	banks := NewBankRepository(kv.NewMemory(), testLogger())
	if _, err := banks.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	tests := []struct {
		name     string
		code     string
		bankName string
		wantCode codes.Code
	}{
		{"new code", "212", "Banco Original", codes.OK},
		{"duplicate seeded code", "341", "Outro Itaú", codes.AlreadyExists},
		{"duplicate registered code", "212", "Banco Original", codes.AlreadyExists},
		{"non-numeric code", "ab1", "Banco X", codes.InvalidArgument},
		{"short code", "12", "Banco X", codes.InvalidArgument},
		{"empty name", "213", "", codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := banks.Register(ctx, tt.code, tt.bankName)
			if got := status.Code(err); got != tt.wantCode {
				t.Errorf("Register(%q, %q): got code %v, want %v (err=%v)", tt.code, tt.bankName, got, tt.wantCode, err)
			}
		})
	}

	// The failed registrations must not have corrupted the registry.
	name, err := banks.NameOf(ctx, "341")
	if err != nil {
		t.Fatalf("nameOf: %v", err)
	}
	if name != "Itaú" {
		t.Errorf("NameOf(341) after duplicate register: got %q, want %q", name, "Itaú")
	}
}

func TestBankRepositoryLookups(t *testing.T) {
	ctx := context.Background()
	banks := NewBankRepository(kv.NewMemory(), testLogger())
	if _, err := banks.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	known, err := banks.IsKnown(ctx, "033")
	if err != nil || !known {
		t.Errorf("IsKnown(033): got %v, %v, want true", known, err)
	}
	known, err = banks.IsKnown(ctx, "999")
	if err != nil || known {
		t.Errorf("IsKnown(999): got %v, %v, want false", known, err)
	}

	// Missing codes resolve to an empty name, never an error.
	name, err := banks.NameOf(ctx, "999")
	if err != nil {
		t.Fatalf("nameOf: %v", err)
	}
	if name != "" {
		t.Errorf("NameOf(999): got %q, want empty", name)
	}
}

func TestBankRepositoryRemove(t *testing.T) {
	ctx := context.Background()
	banks := NewBankRepository(kv.NewMemory(), testLogger())
	if _, err := banks.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	// Removing an absent code is a no-op.
	if err := banks.Remove(ctx, "999"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}

	if err := banks.Remove(ctx, "341"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	known, err := banks.IsKnown(ctx, "341")
	if err != nil || known {
		t.Errorf("IsKnown(341) after remove: got %v, %v, want false", known, err)
	}
	entries, err := banks.ListKnown(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 11 {
		t.Errorf("entries after remove: got %d, want 11", len(entries))
	}
}
