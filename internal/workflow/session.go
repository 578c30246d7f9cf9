// Package workflow implements the scan classification state machine:
// decode, known-bank / known-beneficiary gating, duplicate suppression and
// history commit.
package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"boleto-tracker/internal/boleto"
	"boleto-tracker/internal/common"
	"boleto-tracker/internal/entity"
	"boleto-tracker/internal/repository"
)

// State is the session's position in the scan workflow. Any state other
// than Idle suspends scanning; that is the only backpressure mechanism —
// scans arriving while suspended are not observed.
type State int

const (
	StateIdle State = iota
	StateAwaitingBankName
	StateAwaitingBeneficiaryName
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingBankName:
		return "awaiting_bank_name"
	case StateAwaitingBeneficiaryName:
		return "awaiting_beneficiary_name"
	default:
		return "unknown"
	}
}

// Outcome is the terminal (or suspending) result of a scan or decision.
type Outcome int

const (
	// OutcomeIgnored: the session was suspended; the scan was not observed.
	OutcomeIgnored Outcome = iota
	// OutcomeNotBoleto: shown in the transient window only, never persisted.
	OutcomeNotBoleto
	// OutcomeCommitted: written to history.
	OutcomeCommitted
	// OutcomeDuplicate: already in history; silently not persisted.
	OutcomeDuplicate
	// OutcomeAwaitingBankName: suspended until ResolveBank or CancelBank.
	OutcomeAwaitingBankName
	// OutcomeAwaitingBeneficiaryName: suspended until ResolveBeneficiary or
	// SkipBeneficiary.
	OutcomeAwaitingBeneficiaryName
	// OutcomeDiscarded: operator cancelled; no history write.
	OutcomeDiscarded
)

// ScanResult reports what happened to a scan or decision.
type ScanResult struct {
	Outcome Outcome
	// Boleto is the decoded record, when the payload was a boleto.
	Boleto *entity.Boleto
	// Record is the committed history record (OutcomeCommitted only).
	Record *entity.HistoryRecord
	// BankCode / BeneficiaryCode carry the prompt context while suspended.
	BankCode        string
	BeneficiaryCode string
}

type pendingScan struct {
	event  entity.ScanEvent
	boleto *entity.Boleto
}

// Session processes one scan at a time. It is not safe for concurrent use:
// the single-workflow invariant makes read-modify-write on the registries
// race-free in practice.
type Session struct {
	banks         repository.BankRepository
	beneficiaries repository.BeneficiaryRepository
	history       repository.HistoryRepository
	logger        *slog.Logger

	state     State
	pending   *pendingScan
	recent    []entity.TransientResult
	windowMax int

	now   func() time.Time
	newID func() string
}

// DefaultResultsWindow caps the transient on-screen result list.
const DefaultResultsWindow = 10

func NewSession(banks repository.BankRepository, beneficiaries repository.BeneficiaryRepository, history repository.HistoryRepository, windowMax int, logger *slog.Logger) *Session {
	if windowMax <= 0 {
		windowMax = DefaultResultsWindow
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		banks:         banks,
		beneficiaries: beneficiaries,
		history:       history,
		logger:        logger,
		windowMax:     windowMax,
		now:           func() time.Time { return time.Now().UTC() },
		newID:         uuid.NewString,
	}
}

// State returns the session's current workflow state.
func (s *Session) State() State { return s.state }

// Recent returns the transient result window, most recent first.
func (s *Session) Recent() []entity.TransientResult { return s.recent }

// Scan processes one scanner event. While the session is suspended the
// event is dropped with OutcomeIgnored.
func (s *Session) Scan(ctx context.Context, ev entity.ScanEvent) (ScanResult, error) {
	if s.state != StateIdle {
		s.logger.Debug("scan ignored while suspended", "state", s.state.String())
		return ScanResult{Outcome: OutcomeIgnored}, nil
	}

	b := boleto.DecodeAt(ev.Payload, s.now())
	s.pushTransient(ev, b)

	if b == nil {
		return ScanResult{Outcome: OutcomeNotBoleto}, nil
	}

	// Government slips bypass bank and beneficiary gating entirely.
	if b.BankCode == entity.GovernmentBank {
		return s.commit(ctx, ev, b)
	}

	known, err := s.banks.IsKnown(ctx, b.BankCode)
	if err != nil {
		return ScanResult{}, err
	}
	if !known {
		s.state = StateAwaitingBankName
		s.pending = &pendingScan{event: ev, boleto: b}
		s.logger.Info("unknown bank, awaiting registration", "bank_code", b.BankCode)
		return ScanResult{Outcome: OutcomeAwaitingBankName, Boleto: b, BankCode: b.BankCode}, nil
	}

	if b.BeneficiaryCode != "" {
		name, err := s.beneficiaries.NameOf(ctx, b.BeneficiaryCode)
		if err != nil {
			return ScanResult{}, err
		}
		if name == "" {
			s.state = StateAwaitingBeneficiaryName
			s.pending = &pendingScan{event: ev, boleto: b}
			s.logger.Info("unnamed beneficiary, awaiting name", "beneficiary_code", b.BeneficiaryCode)
			return ScanResult{Outcome: OutcomeAwaitingBeneficiaryName, Boleto: b, BeneficiaryCode: b.BeneficiaryCode}, nil
		}
		b.BeneficiaryName = name
	}

	return s.commit(ctx, ev, b)
}

// ResolveBank registers the pending boleto's bank under the given name and
// commits the boleto. A duplicate registration is reported as an error and
// the pending boleto is discarded.
func (s *Session) ResolveBank(ctx context.Context, name string) (ScanResult, error) {
	if s.state != StateAwaitingBankName {
		return ScanResult{}, common.FailedPreconditionError("no bank registration is pending")
	}
	pending := s.takePending()
	if err := s.banks.Register(ctx, pending.boleto.BankCode, name); err != nil {
		s.logger.Warn("bank registration failed", "bank_code", pending.boleto.BankCode, "error", err)
		return ScanResult{Outcome: OutcomeDiscarded, Boleto: pending.boleto}, err
	}
	return s.commit(ctx, pending.event, pending.boleto)
}

// CancelBank discards the pending boleto without registering the bank.
func (s *Session) CancelBank(ctx context.Context) (ScanResult, error) {
	if s.state != StateAwaitingBankName {
		return ScanResult{}, common.FailedPreconditionError("no bank registration is pending")
	}
	pending := s.takePending()
	s.logger.Info("bank registration cancelled", "bank_code", pending.boleto.BankCode)
	return ScanResult{Outcome: OutcomeDiscarded, Boleto: pending.boleto}, nil
}

// ResolveBeneficiary stores the beneficiary name and commits the pending
// boleto. A failed upsert is logged but still commits, without the name.
func (s *Session) ResolveBeneficiary(ctx context.Context, name string) (ScanResult, error) {
	if s.state != StateAwaitingBeneficiaryName {
		return ScanResult{}, common.FailedPreconditionError("no beneficiary naming is pending")
	}
	pending := s.takePending()
	if err := s.beneficiaries.Upsert(ctx, pending.boleto.BeneficiaryCode, name); err != nil {
		s.logger.Warn("beneficiary save failed, committing without name",
			"beneficiary_code", pending.boleto.BeneficiaryCode, "error", err)
	} else {
		pending.boleto.BeneficiaryName = name
	}
	return s.commit(ctx, pending.event, pending.boleto)
}

// SkipBeneficiary commits the pending boleto without naming the
// beneficiary. Skip is not discard: the boleto is still persisted.
func (s *Session) SkipBeneficiary(ctx context.Context) (ScanResult, error) {
	if s.state != StateAwaitingBeneficiaryName {
		return ScanResult{}, common.FailedPreconditionError("no beneficiary naming is pending")
	}
	pending := s.takePending()
	return s.commit(ctx, pending.event, pending.boleto)
}

// takePending clears the suspension and returns the held scan. Scanning
// resumes as a consequence of the state returning to Idle.
func (s *Session) takePending() *pendingScan {
	pending := s.pending
	s.pending = nil
	s.state = StateIdle
	return pending
}

// commit runs the duplicate check and, if the boleto is new, resolves the
// bank's display name into the persisted beneficiary value and appends the
// record to history.
func (s *Session) commit(ctx context.Context, ev entity.ScanEvent, b *entity.Boleto) (ScanResult, error) {
	dup, err := s.history.ContainsDuplicate(ctx, b.BarcodeDigits, b.DigitableLine)
	if err != nil {
		return ScanResult{}, err
	}
	if dup {
		s.logger.Info("duplicate boleto not saved to history", "barcode", b.BarcodeDigits)
		return ScanResult{Outcome: OutcomeDuplicate, Boleto: b}, nil
	}

	bankName, err := s.banks.NameOf(ctx, b.BankCode)
	if err != nil {
		return ScanResult{}, err
	}
	if bankName != "" {
		b.BeneficiaryCode = bankName + " - " + b.BeneficiaryCode
	}

	rec := entity.HistoryRecord{
		ID:        s.newID(),
		IsBoleto:  true,
		RawType:   ev.Symbology,
		RawData:   ev.Payload,
		Timestamp: b.ReadAt,
		Boleto:    b,
	}
	if err := s.history.Append(ctx, rec); err != nil {
		return ScanResult{}, err
	}
	s.logger.Info("boleto committed", "id", rec.ID, "bank_code", b.BankCode, "amount", b.Amount())
	return ScanResult{Outcome: OutcomeCommitted, Boleto: b, Record: &rec}, nil
}

func (s *Session) pushTransient(ev entity.ScanEvent, b *entity.Boleto) {
	entry := entity.TransientResult{
		Payload:   ev.Payload,
		Symbology: ev.Symbology,
		ReadAt:    s.now(),
	}
	if b != nil {
		entry.IsBoleto = true
		entry.Summary = b.Summary()
	} else {
		entry.Summary = entity.SymbologyName(ev.Symbology) + ": " + ev.Payload
	}
	s.recent = append([]entity.TransientResult{entry}, s.recent...)
	if len(s.recent) > s.windowMax {
		s.recent = s.recent[:s.windowMax]
	}
}
