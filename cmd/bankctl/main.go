// bankctl manages the known-bank registry: list, add and remove entries.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"boleto-tracker/internal/common"
	"boleto-tracker/internal/repository"
)

const usage = `usage:
  bankctl list
  bankctl add <code> <name>
  bankctl remove <code>`

func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		printError("%s\n", usage)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
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
	if _, err := banks.Initialize(ctx); err != nil {
		printError("Error: initializing bank registry: %v\n", err)
		os.Exit(1)
	}

	switch args[0] {
	case "list":
		entries, err := banks.ListKnown(ctx)
		if err != nil {
			printError("Error: listing banks: %v\n", err)
			os.Exit(1)
		}
		for _, bank := range entries {
			fmt.Printf("%s\t%s\n", bank.Code, bank.Name)
		}
	case "add":
		if len(args) != 3 {
			printError("%s\n", usage)
			os.Exit(1)
		}
		if err := banks.Register(ctx, args[1], args[2]); err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("added %s\n", args[1])
	case "remove":
		if len(args) != 2 {
			printError("%s\n", usage)
			os.Exit(1)
		}
		if err := banks.Remove(ctx, args[1]); err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("removed %s\n", args[1])
	default:
		printError("%s\n", usage)
		os.Exit(1)
	}
}
