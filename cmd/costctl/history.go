package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
)

type historyCmd struct {
	tenant string
	days   int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "print daily health status counts" }
func (*historyCmd) Usage() string {
	return `costctl history [-tenant <id>] [-days <n>]

  Prints one row per day that has snapshots, oldest first.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tenant, "tenant", "", "Tenant ID (defaults to the configured auth tenant).")
	f.IntVar(&c.days, "days", 0, "Window length in days (default 30).")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := openEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	points, err := e.app.Health.History(ctx, e.tenantOr(c.tenant), c.days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading history: %v\n", err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "date\tgood\twarning\tcritical\ttotal\t")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t\n", p.Date, p.Good, p.Warning, p.Critical, p.Total)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
