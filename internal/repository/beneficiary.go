package repository

import (
	"context"
	"encoding/json"
	"log/slog"

	"boleto-tracker/internal/common"
	"boleto-tracker/internal/entity"
	"boleto-tracker/internal/repository/kv"
)

// BeneficiaryRepository remembers the names users assign to beneficiary
// codes. Unlike banks there is no uniqueness failure mode: upsert always
// succeeds.
type BeneficiaryRepository interface {
	// NameOf returns the stored name, or "" when the code is unknown.
	NameOf(ctx context.Context, code string) (string, error)
	// Upsert overwrites the name for an existing code or appends a new
	// entry, persisting the full updated set.
	Upsert(ctx context.Context, code, name string) error
	// List returns all known beneficiaries in insertion order.
	List(ctx context.Context) ([]entity.Beneficiary, error)
}

type beneficiaryRepository struct {
	store  kv.Store
	logger *slog.Logger
}

func NewBeneficiaryRepository(store kv.Store, logger *slog.Logger) BeneficiaryRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &beneficiaryRepository{store: store, logger: logger}
}

func (r *beneficiaryRepository) List(ctx context.Context) ([]entity.Beneficiary, error) {
	data, ok, err := r.store.Get(ctx, KeyBeneficiaries)
	if err != nil {
		return nil, common.WrapError(err, "load beneficiaries")
	}
	if !ok {
		return nil, nil
	}
	if err := validateDocument(codeNameSchema, data); err != nil {
		return nil, common.NewAppError("BENEFICIARIES_CORRUPT", "beneficiary document is invalid", err)
	}
	var entries []entity.Beneficiary
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, common.WrapError(err, "decode beneficiaries")
	}
	return entries, nil
}

func (r *beneficiaryRepository) NameOf(ctx context.Context, code string) (string, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.Code == code {
			return entry.Name, nil
		}
	}
	return "", nil
}

func (r *beneficiaryRepository) Upsert(ctx context.Context, code, name string) error {
	if code == "" {
		return common.InvalidArgumentError("beneficiary code is required")
	}
	entries, err := r.List(ctx)
	if err != nil {
		return err
	}
	updated := false
	for i, entry := range entries {
		if entry.Code == code {
			entries[i].Name = name
			updated = true
			break
		}
	}
	if !updated {
		entries = append(entries, entity.Beneficiary{Code: code, Name: name})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return common.WrapError(err, "encode beneficiaries")
	}
	if err := r.store.Set(ctx, KeyBeneficiaries, data); err != nil {
		return common.WrapError(err, "persist beneficiaries")
	}
	r.logger.Info("beneficiary saved", "code", code, "updated", updated)
	return nil
}
