package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/rpggio/costwatch/internal/domain/overrun"
	"github.com/rpggio/costwatch/internal/domain/portfolio"
	"github.com/rpggio/costwatch/internal/query"
)

// filterFlags collects repeated -filter key=value arguments.
type filterFlags query.Filters

func (f filterFlags) String() string {
	parts := make([]string, 0, len(f))
	for k, v := range f {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (f filterFlags) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return fmt.Errorf("filter %q is not key=value", value)
	}
	f[strings.TrimSpace(key)] = val
	return nil
}

type exportCmd struct {
	tenant  string
	report  string
	output  string
	sortBy  string
	sortDir string
	filters filterFlags
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write a report as CSV" }
func (*exportCmd) Usage() string {
	return `costctl export -report <overruns|projects|clients> [-o <file>] [-filter key=value]... [-sort <key>] [-dir asc|desc]

  Writes every matching row, unpaginated, as UTF-8 CSV with a byte order
  mark. Filters take the same keys as the HTTP report, e.g. -filter type=actual.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	c.filters = filterFlags{}
	f.StringVar(&c.tenant, "tenant", "", "Tenant ID (defaults to the configured auth tenant).")
	f.StringVar(&c.report, "report", "overruns", "Report to export: overruns, projects or clients.")
	f.StringVar(&c.output, "o", "", "Output file (defaults to stdout).")
	f.StringVar(&c.sortBy, "sort", "", "Sort key (defaults to the report's default).")
	f.StringVar(&c.sortDir, "dir", "", "Sort direction, asc or desc.")
	f.Var(c.filters, "filter", "Report filter as key=value. May be repeated.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := openEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	out := io.Writer(os.Stdout)
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		out = file
	}

	if err := c.export(ctx, e, out); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting %s: %v\n", c.report, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *exportCmd) export(ctx context.Context, e *env, out io.Writer) error {
	tenantID := e.tenantOr(c.tenant)
	filters := query.Filters(c.filters)
	sort := query.Sort{By: c.sortBy, Direction: query.Direction(strings.ToLower(c.sortDir))}

	switch c.report {
	case "overruns":
		rows, err := e.app.Overruns.Export(ctx, tenantID, overrun.ParseTableFilter(filters), sort)
		if err != nil {
			return err
		}
		return overrun.WriteCSV(out, rows)
	case "projects":
		rollups, err := e.app.Portfolio.ExportProjects(ctx, tenantID, portfolio.ParseProjectFilter(filters), sort)
		if err != nil {
			return err
		}
		return portfolio.WriteProjectsCSV(out, rollups)
	case "clients":
		rollups, err := e.app.Portfolio.ExportClients(ctx, tenantID, portfolio.ParseClientFilter(filters), sort)
		if err != nil {
			return err
		}
		return portfolio.WriteClientsCSV(out, rollups)
	default:
		return fmt.Errorf("unknown report %q", c.report)
	}
}
