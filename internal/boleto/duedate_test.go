package boleto

import "testing"

func TestDueDateFromFactor(t *testing.T) {
	tests := []struct {
		factor   string
		expected string
		invalid  bool
	}{
		// Reset epoch: factor 1000 is the reset day itself.
		{"1000", "2025-02-22", false},
		{"1001", "2025-02-23", false},
		{"5000", "2036-02-05", false},
		// Legacy epoch: 1997-10-07 plus the factor in days.
		{"6000", "2014-03-12", false},
		{"9999", "2025-02-21", false},
		// Non-numeric factors degrade to the invalid sentinel.
		{"abcd", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.factor, func(t *testing.T) {
			due, invalid := DueDateFromFactor(tt.factor)
			if invalid != tt.invalid {
				t.Fatalf("invalid: got %v, want %v", invalid, tt.invalid)
			}
			if tt.invalid {
				if due != nil {
					t.Fatalf("invalid factor must not produce a date, got %v", due)
				}
				return
			}
			if due == nil {
				t.Fatal("expected a date, got nil")
			}
			if got := due.Format("2006-01-02"); got != tt.expected {
				t.Errorf("due date: got %s, want %s", got, tt.expected)
			}
		})
	}
}
