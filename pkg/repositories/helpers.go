package repositories

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lpcraft/checklist-engine/pkg/models"
)

// priorityRankSQL ranks required > recommended > optional without relying on
// text collation. Matches models.Priority.Rank.
const priorityRankSQL = `CASE priority WHEN 'required' THEN 3 WHEN 'recommended' THEN 2 WHEN 'optional' THEN 1 ELSE 0 END`

// nameOrderSQL breaks ties bytewise so the database agrees with Go string comparison.
const nameOrderSQL = `name COLLATE "C", id`

// conditions accumulates AND-ed WHERE clauses with positional arguments.
// Each clause passed to add must contain exactly one %d for its placeholder number.
type conditions struct {
	clauses []string
	args    []any
}

func (c *conditions) add(clause string, arg any) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, fmt.Sprintf(clause, len(c.args)))
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// paged returns a LIMIT/OFFSET clause and the full argument list for it.
func (c *conditions) paged(req models.PageRequest) (string, []any) {
	args := make([]any, 0, len(c.args)+2)
	args = append(args, c.args...)
	args = append(args, req.Limit, req.Offset())
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(c.args)+1, len(c.args)+2), args
}

// placeholders returns "$1, $2, ..., $n".
func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ", ")
}

// jsonUnmarshal unmarshals JSONB data from the database.
// NULL columns leave v untouched.
func jsonUnmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// jsonbMap returns m, or an empty map when m is nil, so NOT NULL JSONB
// columns receive '{}' rather than NULL.
func jsonbMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

// textArray returns s, or an empty slice when s is nil.
func textArray(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
