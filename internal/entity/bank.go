package entity

// Bank maps a 3-digit bank code to its display name.
type Bank struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Beneficiary maps a beneficiary code to its user-assigned name.
type Beneficiary struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
