package sqlite

import "strings"

// where accumulates AND-ed predicates and their arguments.
type where struct {
	conditions []string
	args       []any
}

func (w *where) add(condition string, args ...any) {
	w.conditions = append(w.conditions, condition)
	w.args = append(w.args, args...)
}

// tenant scopes rows to one tenant. Every tenant-owned query starts here.
func (w *where) tenant(alias, tenantID string) {
	w.add(column(alias, "tenant_id")+" = ?", tenantID)
}

func (w *where) notDeleted(alias string) {
	w.add(column(alias, "deleted_at") + " IS NULL")
}

// notCancelled drops line items whose status is cancelled.
func (w *where) notCancelled(alias string) {
	w.add(column(alias, "status")+" != ?", "cancelled")
}

func (w *where) statusEquals(alias, status string) {
	w.eq(column(alias, "status"), status)
}

func column(alias, name string) string {
	if alias == "" {
		return name
	}
	return alias + "." + name
}

// eq adds "column = ?" unless value is empty.
func (w *where) eq(column, value string) {
	if value != "" {
		w.add(column+" = ?", value)
	}
}

// search adds a case-insensitive substring match across columns.
func (w *where) search(term string, columns ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = "LOWER(COALESCE(" + col + ", '')) LIKE ? ESCAPE '\\'"
		w.args = append(w.args, pattern)
	}
	w.conditions = append(w.conditions, "("+strings.Join(parts, " OR ")+")")
}

func (w *where) String() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + joinConditions(w.conditions)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func joinConditions(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	joined := conditions[0]
	for i := 1; i < len(conditions); i++ {
		joined += " AND " + conditions[i]
	}
	return joined
}

func nullableString(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
