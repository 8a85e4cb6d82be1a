package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/rpggio/costwatch/internal/dataset"
)

type importCmd struct {
	file string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "load a JSON dataset of clients, projects, contracts and tasks" }
func (*importCmd) Usage() string {
	return `costctl import -f <dataset.json>

  Inserts every record of the dataset for its tenant. Records are written in
  dependency order; the first failure stops the import.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Path to the dataset JSON file (- for stdin).")
}

func (c *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fmt.Fprintln(os.Stderr, "import: -f is required")
		return subcommands.ExitUsageError
	}

	in := os.Stdin
	if c.file != "-" {
		file, err := os.Open(c.file)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		in = file
	}

	ds, err := dataset.Decode(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding dataset: %v\n", err)
		return subcommands.ExitFailure
	}

	e, err := openEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	counts, err := e.app.Import(ctx, ds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing dataset: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("imported tenant %s: %d clients, %d projects, %d contracts, %d budget lines, %d expenses, %d payments, %d tasks, %d api keys\n",
		ds.TenantID, counts.Clients, counts.Projects, counts.Contracts, counts.BudgetLines,
		counts.Expenses, counts.Payments, counts.Tasks, counts.APIKeys)
	return subcommands.ExitSuccess
}
