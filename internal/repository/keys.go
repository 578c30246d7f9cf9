// Package repository persists the bank registry, beneficiary memory and
// scan history as JSON documents in a key-value store.
package repository

// Storage keys. The names predate this codebase and are kept so existing
// databases remain readable.
const (
	KeyBanks         = "known_banks"
	KeyBeneficiaries = "known_beneficiarios"
	KeyHistory       = "scanResults"
)
