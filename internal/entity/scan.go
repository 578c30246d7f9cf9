package entity

import (
	"strings"
	"time"
)

// ScanEvent is a raw scanner-feed event. The payload is opaque text; all
// numeric normalization happens in the decoder.
type ScanEvent struct {
	Payload   string `json:"payload"`
	Symbology string `json:"symbology"`
}

// HistoryRecord is a committed scan as persisted in the history store.
type HistoryRecord struct {
	ID        string    `json:"id"`
	IsBoleto  bool      `json:"is_boleto"`
	RawType   string    `json:"raw_type"`
	RawData   string    `json:"raw_data"`
	Timestamp time.Time `json:"timestamp"`
	Boleto    *Boleto   `json:"boleto,omitempty"`
}

// TransientResult is a display-only entry in the bounded rolling result
// window. Non-boleto scans appear here and nowhere else.
type TransientResult struct {
	Payload   string    `json:"payload"`
	Symbology string    `json:"symbology"`
	IsBoleto  bool      `json:"is_boleto"`
	Summary   string    `json:"summary"`
	ReadAt    time.Time `json:"read_at"`
}

var symbologyNames = map[string]string{
	"aztec":           "Aztec",
	"codabar":         "Codabar",
	"code39":          "Code 39",
	"code93":          "Code 93",
	"code128":         "Code 128",
	"code39mod43":     "Code 39 mod 43",
	"datamatrix":      "Data Matrix",
	"ean13":           "EAN-13",
	"ean8":            "EAN-8",
	"itf":             "Interleaved 2 of 5",
	"interleaved2of5": "Interleaved 2 of 5",
	"pdf417":          "PDF417",
	"qr":              "QR Code",
	"upc_a":           "UPC-A",
	"upc_e":           "UPC-E",
}

// SymbologyName returns the human-readable name of a scanner symbology,
// falling back to the raw value for unrecognized types.
func SymbologyName(symbology string) string {
	if symbology == "" {
		return "Desconhecido"
	}
	if name, ok := symbologyNames[strings.ToLower(symbology)]; ok {
		return name
	}
	return symbology
}
