// Package export renders scan history as CSV or XLSX for downstream
// consumers.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"boleto-tracker/internal/entity"
	"boleto-tracker/internal/repository"
)

// Service is a tiny façade over the history repository that produces
// exports for a date window.
type Service struct {
	history repository.HistoryRepository
	logger  *slog.Logger
}

func NewService(history repository.HistoryRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{history: history, logger: logger}
}

// csvHeader matches the column set consumers already parse.
var csvHeader = []string{"id", "timestamp", "bankCode", "value", "dueDate", "beneficiary", "barcode"}

// ExportCSV writes boleto history rows to w.
// If only from is provided -> from..today (inclusive).
// If only to is provided   -> beginning..to (inclusive).
// If neither is provided   -> the whole history.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, from, to *time.Time) error {
	records, err := s.filtered(ctx, from, to)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		b := rec.Boleto
		value := ""
		if b.HasAmount() {
			value = fmt.Sprintf("%.2f", b.Amount())
		}
		row := []string{
			rec.ID,
			rec.Timestamp.Format("02/01/2006 15:04:05"),
			b.BankCode,
			value,
			b.FormatDueDate(),
			b.BeneficiaryCode,
			b.BarcodeDigits,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	s.logger.Info("csv export complete", "rows", len(records))
	return nil
}

// ExportXLSX returns an XLSX workbook (as bytes) for the given date window.
func (s *Service) ExportXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	records, err := s.filtered(ctx, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Boletos"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Scan Time",
		"Bank",
		"Value",
		"Due Date",
		"Beneficiary",
		"Beneficiary Name",
		"Barcode",
		"Digitable Line",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, rec := range records {
		b := rec.Boleto

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, rec.Timestamp.Format("2006-01-02 15:04:05"))
		write(2, b.BankCode)
		if b.HasAmount() {
			write(3, b.Amount())
		} else {
			write(3, "")
		}
		write(4, b.FormatDueDate())
		write(5, b.BeneficiaryCode)
		write(6, b.BeneficiaryName)
		write(7, b.BarcodeDigits)
		write(8, b.DigitableLine)
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Info("xlsx export complete", "rows", len(records))
	return buf.Bytes(), nil
}

// filtered returns boleto history records inside the date window, judged
// by scan timestamp (date-only, UTC).
func (s *Service) filtered(ctx context.Context, from, to *time.Time) ([]entity.HistoryRecord, error) {
	var fromDate, toDate *time.Time
	if from != nil {
		f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
		fromDate = &f
	}
	if to != nil {
		t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
		toDate = &t
	}
	if fromDate != nil && toDate == nil {
		today := time.Now().UTC()
		t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		toDate = &t
	}

	records, err := s.history.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}

	kept := records[:0]
	for _, rec := range records {
		if !rec.IsBoleto || rec.Boleto == nil {
			continue
		}
		day := time.Date(rec.Timestamp.Year(), rec.Timestamp.Month(), rec.Timestamp.Day(), 0, 0, 0, 0, time.UTC)
		if fromDate != nil && day.Before(*fromDate) {
			continue
		}
		if toDate != nil && day.After(*toDate) {
			continue
		}
		kept = append(kept, rec)
	}
	return kept, nil
}
