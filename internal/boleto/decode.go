// Package boleto decodes Brazilian bank-slip barcode payloads (44-digit
// barcode form or 47-digit digitable line) into structured records.
package boleto

import (
	"strconv"
	"strings"
	"time"

	"boleto-tracker/internal/entity"
)

// Santander and Itaú embed the beneficiary code at positions of their own;
// every other bank uses the Febraban free-field tail.
const (
	bankSantander = "033"
	bankItau      = "341"
)

// Normalize strips every non-digit rune from a scanner payload.
func Normalize(payload string) string {
	var b strings.Builder
	b.Grow(len(payload))
	for _, r := range payload {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Decode turns a raw scanner payload into a boleto record, or nil when the
// normalized payload is not a boleto (any length other than 44 or 47).
func Decode(payload string) *entity.Boleto {
	return DecodeAt(payload, time.Now().UTC())
}

// DecodeAt is Decode with an explicit read timestamp.
func DecodeAt(payload string, readAt time.Time) *entity.Boleto {
	digits := Normalize(payload)
	switch len(digits) {
	case 44:
		if digits[0] == '8' {
			return decodeGovernment(digits, readAt)
		}
		return decodeBarcode(digits, readAt)
	case 47:
		return decodeDigitableLine(digits, readAt)
	default:
		return nil
	}
}

// decodeGovernment handles government slips (GRU and similar). Only the
// amount is recoverable; there is no maturity factor or beneficiary code.
func decodeGovernment(digits string, readAt time.Time) *entity.Boleto {
	b := &entity.Boleto{
		BankCode:      entity.GovernmentBank,
		BarcodeDigits: digits,
		CodeType:      entity.CodeTypeBarcode,
		ReadAt:        readAt,
	}
	if window, ok := substr(digits, 4, 15); ok {
		b.AmountCents = parseCents(window)
	}
	return b
}

// decodeBarcode handles the 44-digit bank barcode form.
func decodeBarcode(digits string, readAt time.Time) *entity.Boleto {
	b := &entity.Boleto{
		BankCode:      digits[0:3],
		BarcodeDigits: digits,
		CodeType:      entity.CodeTypeBarcode,
		ReadAt:        readAt,
	}
	if factor, ok := substr(digits, 5, 9); ok {
		b.MaturityFactor = factor
		due, invalid := DueDateFromFactor(factor)
		b.DueDate = due
		b.DueDateInvalid = invalid
	}
	if window, ok := substr(digits, 9, 19); ok {
		b.AmountCents = parseCents(window)
	}
	switch b.BankCode {
	case bankSantander:
		b.BeneficiaryCode, _ = substr(digits, 20, 27)
	case bankItau:
		b.BeneficiaryCode, _ = substr(digits, 35, 41)
	default:
		b.BeneficiaryCode, _ = substr(digits, 36, 43)
	}
	// Digitable-line digits reconstructed for display, without check-digit
	// grouping: bank+currency head, then the three free-field blocks.
	b.DigitableLine = digits[0:4] + digits[19:24] + digits[24:34] + digits[34:44]
	return b
}

// decodeDigitableLine handles the 47-digit human-typeable form.
func decodeDigitableLine(digits string, readAt time.Time) *entity.Boleto {
	b := &entity.Boleto{
		BankCode:      digits[0:3],
		BarcodeDigits: digits,
		CodeType:      entity.CodeTypeDigitableLine,
		ReadAt:        readAt,
	}
	b.DigitableLine = FormatDigitableLine(digits)
	if window, ok := substr(digits, 37, 47); ok {
		b.AmountCents = parseCents(window)
	}
	return b
}

// FormatDigitableLine groups a 47-digit line into its display form
// (XXXXX.XXXXX XXXXX.XXXXXX XXXXX.XXXXXX X XXXXXXXXXXXXXX). Inputs of any
// other length are returned unchanged.
func FormatDigitableLine(digits string) string {
	if len(digits) != 47 {
		return digits
	}
	return digits[0:5] + "." + digits[5:10] + " " +
		digits[10:15] + "." + digits[15:21] + " " +
		digits[21:26] + "." + digits[26:32] + " " +
		digits[32:33] + " " + digits[33:47]
}

// substr extracts digits[from:to], reporting false when the window would
// run past the input. An out-of-range window leaves the field unset rather
// than failing the decode.
func substr(digits string, from, to int) (string, bool) {
	if from < 0 || to > len(digits) || from > to {
		return "", false
	}
	return digits[from:to], true
}

// parseCents parses an amount window as integer cents, returning nil for a
// non-numeric window. Degradation is silent: a bad amount never fails the
// decode.
func parseCents(window string) *int64 {
	cents, err := strconv.ParseInt(window, 10, 64)
	if err != nil || cents < 0 {
		return nil
	}
	return &cents
}
