package transport

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/costwatch/internal/domain/event"
	"github.com/rpggio/costwatch/internal/domain/overrun"
	"github.com/rpggio/costwatch/internal/domain/portfolio"
	"github.com/rpggio/costwatch/internal/query"
)

func (s *Server) handleOverrunLists(w http.ResponseWriter, r *http.Request) {
	params := query.FromValues(r.URL.Query())
	lists, err := s.services.Overruns.Lists(r.Context(), tenantOf(r), overrun.ParseListFilter(params.Filters))
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, lists)
}

func (s *Server) handleOverrunTable(w http.ResponseWriter, r *http.Request) {
	params := query.FromValues(r.URL.Query())
	page, err := s.services.Overruns.Table(r.Context(), tenantOf(r), overrun.ParseTableFilter(params.Filters), params.Pagination, params.Sort)
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

func (s *Server) handleOverrunExport(w http.ResponseWriter, r *http.Request) {
	params := query.FromValues(r.URL.Query())
	rows, err := s.services.Overruns.Export(r.Context(), tenantOf(r), overrun.ParseTableFilter(params.Filters), params.Sort)
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	s.writeCSV(w, "cost-overruns.csv", func(out io.Writer) error {
		return overrun.WriteCSV(out, rows)
	})
}

func (s *Server) handleContractCost(w http.ResponseWriter, r *http.Request) {
	row, err := s.services.Contracts.ContractCost(r.Context(), tenantOf(r), chi.URLParam(r, "contractID"))
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, row)
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	params := query.FromValues(r.URL.Query())
	page, err := s.services.Portfolio.Projects(r.Context(), tenantOf(r), portfolio.ParseProjectFilter(params.Filters), params.Pagination, params.Sort)
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

func (s *Server) handleProjectsExport(w http.ResponseWriter, r *http.Request) {
	params := query.FromValues(r.URL.Query())
	rollups, err := s.services.Portfolio.ExportProjects(r.Context(), tenantOf(r), portfolio.ParseProjectFilter(params.Filters), params.Sort)
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	s.writeCSV(w, "project-portfolio.csv", func(out io.Writer) error {
		return portfolio.WriteProjectsCSV(out, rollups)
	})
}

// handleProjectSummary answers {"summary": null} for a project without contracts.
func (s *Server) handleProjectSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.services.Portfolio.ProjectSummary(r.Context(), tenantOf(r), chi.URLParam(r, "projectID"))
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"summary": summary})
}

func (s *Server) handleClients(w http.ResponseWriter, r *http.Request) {
	params := query.FromValues(r.URL.Query())
	page, err := s.services.Portfolio.Clients(r.Context(), tenantOf(r), portfolio.ParseClientFilter(params.Filters), params.Pagination, params.Sort)
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

func (s *Server) handleClientsExport(w http.ResponseWriter, r *http.Request) {
	params := query.FromValues(r.URL.Query())
	rollups, err := s.services.Portfolio.ExportClients(r.Context(), tenantOf(r), portfolio.ParseClientFilter(params.Filters), params.Sort)
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	s.writeCSV(w, "client-portfolio.csv", func(out io.Writer) error {
		return portfolio.WriteClientsCSV(out, rollups)
	})
}

func (s *Server) handleHealthPortfolio(w http.ResponseWriter, r *http.Request) {
	projects, err := s.services.Health.Portfolio(r.Context(), tenantOf(r))
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) handleHealthHistory(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			WriteErrorMessage(w, http.StatusBadRequest, "INVALID_INPUT", "days must be an integer")
			return
		}
		days = n
	}
	points, err := s.services.Health.History(r.Context(), tenantOf(r), days)
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"history": points})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.services.Health.Snapshot(r.Context(), tenantOf(r), chi.URLParam(r, "projectID"))
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSnapshotAll(w http.ResponseWriter, r *http.Request) {
	count, err := s.services.Health.SnapshotAll(r.Context(), tenantOf(r))
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int{"snapshotted": count})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := event.ListOptions{}
	if raw := q.Get("type"); raw != "" {
		typ := event.Type(raw)
		opts.Type = &typ
	}
	opts.Limit, _ = strconv.Atoi(q.Get("limit"))
	opts.Offset, _ = strconv.Atoi(q.Get("offset"))

	events, err := s.services.Events.Recent(r.Context(), tenantOf(r), opts)
	if err != nil {
		WriteError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

// writeCSV renders into a buffer first so a failure can still be reported as JSON.
func (s *Server) writeCSV(w http.ResponseWriter, filename string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		WriteError(w, s.logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
