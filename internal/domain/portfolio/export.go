package portfolio

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rpggio/costwatch/internal/csvexport"
	"github.com/rpggio/costwatch/internal/money"
)

// ProjectExportHeader is the CSV column order of a project portfolio export.
var ProjectExportHeader = []string{
	"Code", "Name", "Status", "ClientName", "Currency", "ContractsCount",
	"ContractsValueTotal", "BudgetTotal", "ActualTotal", "OverrunAmountTotal",
	"OverBudgetContractsCount", "OverrunContractsCount",
}

// ClientExportHeader is the CSV column order of a client portfolio export.
var ClientExportHeader = []string{
	"Code", "Name", "ProjectsCount", "Currency", "ContractsCount",
	"ContractsValueTotal", "BudgetTotal", "ActualTotal", "OverrunAmountTotal",
	"OverBudgetContractsCount", "OverrunContractsCount",
}

// WriteProjectsCSV streams a project portfolio export.
func WriteProjectsCSV(w io.Writer, rollups []ProjectRollup) error {
	cw, err := csvexport.NewWriter(w, ProjectExportHeader)
	if err != nil {
		return err
	}
	for _, r := range rollups {
		row := append([]string{r.Code, r.Name, r.Status, r.ClientName}, metricColumns(r.Metrics)...)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing project row %s: %w", r.Code, err)
		}
	}
	return cw.Flush()
}

// WriteClientsCSV streams a client portfolio export.
func WriteClientsCSV(w io.Writer, rollups []ClientRollup) error {
	cw, err := csvexport.NewWriter(w, ClientExportHeader)
	if err != nil {
		return err
	}
	for _, r := range rollups {
		row := append([]string{r.Code, r.Name, strconv.Itoa(r.ProjectsCount)}, metricColumns(r.Metrics)...)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing client row %s: %w", r.Code, err)
		}
	}
	return cw.Flush()
}

func metricColumns(m Metrics) []string {
	return []string{
		m.Currency,
		strconv.Itoa(m.ContractsCount),
		money.Format(m.ContractsValueTotal, m.Currency),
		money.FormatDecimal(m.BudgetTotal, m.Currency),
		money.FormatDecimal(m.ActualTotal, m.Currency),
		money.FormatDecimal(m.OverrunAmountTotal, m.Currency),
		strconv.Itoa(m.OverBudgetContractsCount),
		strconv.Itoa(m.OverrunContractsCount),
	}
}
