package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"

	"boleto-tracker/internal/common"
	"boleto-tracker/internal/entity"
	"boleto-tracker/internal/repository/kv"
)

// seedBanks is written on first run; afterwards the registry grows only
// through explicit registration.
var seedBanks = []entity.Bank{
	{Code: "001", Name: "Banco do Brasil"},
	{Code: "033", Name: "Santander"},
	{Code: "104", Name: "Caixa Econômica Federal"},
	{Code: "237", Name: "Bradesco"},
	{Code: "341", Name: "Itaú"},
	{Code: "756", Name: "Sicoob"},
	{Code: "077", Name: "Inter"},
	{Code: "655", Name: "Votorantim"},
	{Code: "041", Name: "Banrisul"},
	{Code: "748", Name: "Sicredi"},
	{Code: "422", Name: "Safra"},
	{Code: "085", Name: "Cooperativo do Brasil"},
}

var bankCodePattern = regexp.MustCompile(`^\d{3}$`)

// BankRepository is the registry of known banks, keyed by 3-digit code.
type BankRepository interface {
	// Initialize writes the built-in seed list if no registry exists yet.
	// Idempotent: an already-populated registry is returned unchanged.
	Initialize(ctx context.Context) ([]entity.Bank, error)
	// ListKnown returns all entries in insertion order.
	ListKnown(ctx context.Context) ([]entity.Bank, error)
	// IsKnown reports whether code matches an entry exactly.
	IsKnown(ctx context.Context, code string) (bool, error)
	// Register appends a new entry; a duplicate code is a recoverable
	// AlreadyExists failure that leaves the registry untouched.
	Register(ctx context.Context, code, name string) error
	// NameOf returns the entry's name, or "" when the code is unknown.
	NameOf(ctx context.Context, code string) (string, error)
	// Remove deletes an entry by code; removing an absent code is a no-op.
	Remove(ctx context.Context, code string) error
}

type bankRepository struct {
	store  kv.Store
	logger *slog.Logger
}

func NewBankRepository(store kv.Store, logger *slog.Logger) BankRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &bankRepository{store: store, logger: logger}
}

func (r *bankRepository) load(ctx context.Context) ([]entity.Bank, bool, error) {
	data, ok, err := r.store.Get(ctx, KeyBanks)
	if err != nil {
		return nil, false, common.WrapError(err, "load bank registry")
	}
	if !ok {
		return nil, false, nil
	}
	if err := validateDocument(codeNameSchema, data); err != nil {
		return nil, false, common.NewAppError("BANKS_CORRUPT", "bank registry document is invalid", err)
	}
	var banks []entity.Bank
	if err := json.Unmarshal(data, &banks); err != nil {
		return nil, false, common.WrapError(err, "decode bank registry")
	}
	return banks, true, nil
}

func (r *bankRepository) save(ctx context.Context, banks []entity.Bank) error {
	data, err := json.Marshal(banks)
	if err != nil {
		return common.WrapError(err, "encode bank registry")
	}
	if err := r.store.Set(ctx, KeyBanks, data); err != nil {
		return common.WrapError(err, "persist bank registry")
	}
	return nil
}

func (r *bankRepository) Initialize(ctx context.Context) ([]entity.Bank, error) {
	banks, ok, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		return banks, nil
	}
	if err := r.save(ctx, seedBanks); err != nil {
		return nil, err
	}
	r.logger.Info("bank registry seeded", "count", len(seedBanks))
	return seedBanks, nil
}

func (r *bankRepository) ListKnown(ctx context.Context) ([]entity.Bank, error) {
	banks, ok, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return r.Initialize(ctx)
	}
	return banks, nil
}

func (r *bankRepository) IsKnown(ctx context.Context, code string) (bool, error) {
	banks, err := r.ListKnown(ctx)
	if err != nil {
		return false, err
	}
	for _, bank := range banks {
		if bank.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *bankRepository) Register(ctx context.Context, code, name string) error {
	if !bankCodePattern.MatchString(code) {
		return common.InvalidArgumentError("bank code must be exactly 3 digits")
	}
	if name == "" {
		return common.InvalidArgumentError("bank name is required")
	}
	banks, err := r.ListKnown(ctx)
	if err != nil {
		return err
	}
	for _, bank := range banks {
		if bank.Code == code {
			return common.AlreadyExistsError(fmt.Sprintf("bank code %s is already registered", code))
		}
	}
	if err := r.save(ctx, append(banks, entity.Bank{Code: code, Name: name})); err != nil {
		return err
	}
	r.logger.Info("bank registered", "code", code, "name", name)
	return nil
}

func (r *bankRepository) NameOf(ctx context.Context, code string) (string, error) {
	banks, err := r.ListKnown(ctx)
	if err != nil {
		return "", err
	}
	for _, bank := range banks {
		if bank.Code == code {
			return bank.Name, nil
		}
	}
	return "", nil
}

func (r *bankRepository) Remove(ctx context.Context, code string) error {
	banks, err := r.ListKnown(ctx)
	if err != nil {
		return err
	}
	kept := banks[:0]
	for _, bank := range banks {
		if bank.Code != code {
			kept = append(kept, bank)
		}
	}
	if len(kept) == len(banks) {
		return nil
	}
	if err := r.save(ctx, kept); err != nil {
		return err
	}
	r.logger.Info("bank removed", "code", code)
	return nil
}
