package entity

import (
	"fmt"
	"time"
)

// GovernmentBank is the BankCode sentinel for government slips (GRU and
// similar), identified by a leading '8' in the 44-digit barcode form.
const GovernmentBank = "Governo"

// InvalidDueDate is the display sentinel for an unparseable maturity factor.
const InvalidDueDate = "Data inválida"

// CodeType tags which boleto form a payload was classified as.
type CodeType string

const (
	CodeTypeBarcode       CodeType = "44"
	CodeTypeDigitableLine CodeType = "47"
)

// Boleto represents a decoded bank slip for data transfer between layers.
type Boleto struct {
	BankCode        string     `json:"bank_code"`
	AmountCents     *int64     `json:"amount_cents,omitempty"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	DueDateInvalid  bool       `json:"due_date_invalid,omitempty"`
	BarcodeDigits   string     `json:"barcode_digits"`
	DigitableLine   string     `json:"digitable_line,omitempty"`
	MaturityFactor  string     `json:"maturity_factor,omitempty"`
	BeneficiaryCode string     `json:"beneficiary_code,omitempty"`
	BeneficiaryName string     `json:"beneficiary_name,omitempty"`
	CodeType        CodeType   `json:"code_type"`
	ReadAt          time.Time  `json:"read_at"`
}

// Amount returns the slip value in reais, or 0 if the amount is unset.
func (b *Boleto) Amount() float64 {
	if b.AmountCents == nil {
		return 0
	}
	return float64(*b.AmountCents) / 100
}

// HasAmount reports whether an amount window was successfully parsed.
func (b *Boleto) HasAmount() bool {
	return b.AmountCents != nil
}

// FormatAmount renders the amount as a 2-decimal currency string.
func (b *Boleto) FormatAmount() string {
	return fmt.Sprintf("R$ %.2f", b.Amount())
}

// FormatDueDate renders the due date as dd/mm/yyyy, the invalid sentinel,
// or an empty string when no due date applies to this form.
func (b *Boleto) FormatDueDate() string {
	if b.DueDateInvalid {
		return InvalidDueDate
	}
	if b.DueDate == nil {
		return ""
	}
	return b.DueDate.Format("02/01/2006")
}

// Summary is the one-line human-readable rendering shown in the transient
// result list.
func (b *Boleto) Summary() string {
	if b.BankCode == GovernmentBank {
		if b.HasAmount() {
			return fmt.Sprintf("Tipo: Boleto Governamental | Valor: %s", b.FormatAmount())
		}
		return "Tipo: Boleto Governamental | Valor não identificado"
	}
	if b.CodeType == CodeTypeDigitableLine {
		return b.DigitableLine
	}
	return fmt.Sprintf("Banco: %s | Vencimento: %s | Valor: %s | Benef: %s",
		b.BankCode, b.FormatDueDate(), b.FormatAmount(), b.BeneficiaryCode)
}
