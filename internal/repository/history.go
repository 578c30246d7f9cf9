package repository

import (
	"context"
	"encoding/json"
	"log/slog"

	"boleto-tracker/internal/common"
	"boleto-tracker/internal/entity"
	"boleto-tracker/internal/repository/kv"
)

// DefaultHistoryMax caps the persisted scan history.
const DefaultHistoryMax = 500

// HistoryRepository is the append-only store of committed scans,
// newest-first, capped at a maximum retained count.
type HistoryRepository interface {
	// List returns all records, newest first.
	List(ctx context.Context) ([]entity.HistoryRecord, error)
	// Append prepends a record; when the cap is exceeded the oldest
	// entries are silently dropped.
	Append(ctx context.Context, rec entity.HistoryRecord) error
	// ContainsDuplicate reports whether any stored boleto matches the
	// given barcode digits or digitable line exactly. Either match is
	// sufficient; empty fields never match.
	ContainsDuplicate(ctx context.Context, barcodeDigits, digitableLine string) (bool, error)
	// Clear removes the whole history.
	Clear(ctx context.Context) error
}

type historyRepository struct {
	store  kv.Store
	max    int
	logger *slog.Logger
}

func NewHistoryRepository(store kv.Store, max int, logger *slog.Logger) HistoryRepository {
	if max <= 0 {
		max = DefaultHistoryMax
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &historyRepository{store: store, max: max, logger: logger}
}

func (r *historyRepository) List(ctx context.Context) ([]entity.HistoryRecord, error) {
	data, ok, err := r.store.Get(ctx, KeyHistory)
	if err != nil {
		return nil, common.WrapError(err, "load history")
	}
	if !ok {
		return nil, nil
	}
	if err := validateDocument(historySchema, data); err != nil {
		return nil, common.NewAppError("HISTORY_CORRUPT", "history document is invalid", err)
	}
	var records []entity.HistoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, common.WrapError(err, "decode history")
	}
	return records, nil
}

func (r *historyRepository) Append(ctx context.Context, rec entity.HistoryRecord) error {
	records, err := r.List(ctx)
	if err != nil {
		return err
	}
	records = append([]entity.HistoryRecord{rec}, records...)
	if len(records) > r.max {
		records = records[:r.max]
	}
	data, err := json.Marshal(records)
	if err != nil {
		return common.WrapError(err, "encode history")
	}
	if err := r.store.Set(ctx, KeyHistory, data); err != nil {
		return common.WrapError(err, "persist history")
	}
	r.logger.Info("history record appended", "id", rec.ID, "count", len(records))
	return nil
}

func (r *historyRepository) ContainsDuplicate(ctx context.Context, barcodeDigits, digitableLine string) (bool, error) {
	records, err := r.List(ctx)
	if err != nil {
		return false, err
	}
	for _, rec := range records {
		if rec.Boleto == nil {
			continue
		}
		if barcodeDigits != "" && rec.Boleto.BarcodeDigits == barcodeDigits {
			return true, nil
		}
		if digitableLine != "" && rec.Boleto.DigitableLine == digitableLine {
			return true, nil
		}
	}
	return false, nil
}

func (r *historyRepository) Clear(ctx context.Context) error {
	if err := r.store.Remove(ctx, KeyHistory); err != nil {
		return common.WrapError(err, "clear history")
	}
	r.logger.Info("history cleared")
	return nil
}
