// boletod reads scanner payloads line by line from stdin and runs each
// through the scan workflow. When a scan suspends on an unknown bank or an
// unnamed beneficiary, the operator is prompted before scanning resumes.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"boleto-tracker/internal/common"
	"boleto-tracker/internal/entity"
	"boleto-tracker/internal/repository"
	"boleto-tracker/internal/workflow"
)

func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		symbology = flag.String("symbology", "itf", "symbology reported for scanned payloads")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := repository.OpenStore(ctx, cfg, logger)
	if err != nil {
		printError("Error: opening store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	banks := repository.NewBankRepository(store, logger)
	beneficiaries := repository.NewBeneficiaryRepository(store, logger)
	history := repository.NewHistoryRepository(store, cfg.Scan.HistoryMax, logger)

	if _, err := banks.Initialize(ctx); err != nil {
		printError("Error: initializing bank registry: %v\n", err)
		os.Exit(1)
	}

	session := workflow.NewSession(banks, beneficiaries, history, cfg.Scan.ResultsWindow, logger)

	fmt.Println("boletod ready; scan payloads, one per line (Ctrl-D to quit)")
	in := bufio.NewScanner(os.Stdin)
	for in.Scan() {
		payload := strings.TrimSpace(in.Text())
		if payload == "" {
			continue
		}
		ev := entity.ScanEvent{Payload: payload, Symbology: *symbology}
		result, err := session.Scan(ctx, ev)
		if err != nil {
			logger.Error("scan failed", "error", err)
			continue
		}
		result = resolvePrompts(ctx, session, in, result, logger)
		report(result, *symbology)
	}
	if err := in.Err(); err != nil {
		printError("Error: reading stdin: %v\n", err)
		os.Exit(1)
	}
}

// resolvePrompts drives the modal decisions a suspended scan is waiting
// on. The session ignores any scans until the decision lands.
func resolvePrompts(ctx context.Context, session *workflow.Session, in *bufio.Scanner, result workflow.ScanResult, logger *slog.Logger) workflow.ScanResult {
	var err error
	switch result.Outcome {
	case workflow.OutcomeAwaitingBankName:
		fmt.Printf("Unknown bank %s. Bank name (empty to discard): ", result.BankCode)
		name := readLine(in)
		if name == "" {
			result, err = session.CancelBank(ctx)
		} else {
			result, err = session.ResolveBank(ctx, name)
		}
	case workflow.OutcomeAwaitingBeneficiaryName:
		fmt.Printf("Beneficiary %s has no name. Name (empty to skip): ", result.BeneficiaryCode)
		name := readLine(in)
		if name == "" {
			result, err = session.SkipBeneficiary(ctx)
		} else {
			result, err = session.ResolveBeneficiary(ctx, name)
		}
	default:
		return result
	}
	if err != nil {
		logger.Error("decision failed", "error", err)
	}
	return result
}

func readLine(in *bufio.Scanner) string {
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

func report(result workflow.ScanResult, symbology string) {
	switch result.Outcome {
	case workflow.OutcomeCommitted:
		fmt.Printf("saved: %s\n", result.Boleto.Summary())
	case workflow.OutcomeDuplicate:
		fmt.Printf("duplicate, not saved: %s\n", result.Boleto.Summary())
	case workflow.OutcomeDiscarded:
		fmt.Println("discarded")
	case workflow.OutcomeNotBoleto:
		fmt.Printf("not a boleto (%s)\n", entity.SymbologyName(symbology))
	case workflow.OutcomeIgnored:
		fmt.Println("ignored")
	}
}
