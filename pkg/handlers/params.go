package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lpcraft/checklist-engine/pkg/models"
)

// parseUUID extracts and validates a UUID path parameter.
// Returns uuid.Nil and false after writing a 400 response on error.
func parseUUID(w http.ResponseWriter, r *http.Request, pathParam, errorMessage string, logger *zap.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(pathParam))
	if err != nil {
		writeError(w, http.StatusBadRequest, errorMessage, logger)
		return uuid.Nil, false
	}
	return id, true
}

// query wraps URL query values with validation helpers. The first failure
// is kept and every later lookup becomes a no-op.
type query struct {
	values url.Values
	err    error
}

// newQuery rejects parameters outside allowed.
func newQuery(r *http.Request, allowed ...string) *query {
	q := &query{values: r.URL.Query()}
	known := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		known[k] = true
	}
	for k := range q.values {
		if !known[k] {
			q.err = fmt.Errorf("%q is not allowed", k)
			break
		}
	}
	return q
}

func (q *query) str(key string) string {
	if q.err != nil {
		return ""
	}
	return q.values.Get(key)
}

func (q *query) required(key string) string {
	v := q.str(key)
	if q.err == nil && v == "" {
		q.err = fmt.Errorf("%q is required", key)
	}
	return v
}

func (q *query) intInRange(key string, def, lo, hi int) int {
	raw := q.str(key)
	if q.err != nil || raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		q.err = fmt.Errorf("%q must be an integer", key)
		return def
	}
	if n < lo || (hi > 0 && n > hi) {
		if hi > 0 {
			q.err = fmt.Errorf("%q must be between %d and %d", key, lo, hi)
		} else {
			q.err = fmt.Errorf("%q must be at least %d", key, lo)
		}
		return def
	}
	return n
}

func (q *query) page() models.PageRequest {
	return models.PageRequest{
		Page:  q.intInRange("page", models.DefaultPage, 1, 0),
		Limit: q.intInRange("limit", models.DefaultLimit, 1, models.MaxLimit),
	}
}

func (q *query) uuid(key string) *uuid.UUID {
	raw := q.str(key)
	if q.err != nil || raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		q.err = fmt.Errorf("%q must be a UUID", key)
		return nil
	}
	return &id
}

func (q *query) priority() models.Priority {
	p := models.Priority(q.str("priority"))
	if q.err == nil && p != "" && !p.IsValid() {
		q.err = fmt.Errorf("%q must be one of required, recommended, optional", "priority")
	}
	return p
}

func (q *query) itemType(key string) models.ItemType {
	t := models.ItemType(q.str(key))
	if q.err == nil && t != "" && !t.IsValid() {
		q.err = fmt.Errorf("%q must be one of common, genre_specific, region_specific, compliance", key)
	}
	return t
}

// ok writes a 400 response when any lookup failed.
func (q *query) ok(w http.ResponseWriter, logger *zap.Logger) bool {
	if q.err != nil {
		writeError(w, http.StatusBadRequest, q.err.Error(), logger)
		return false
	}
	return true
}

// decodeBody decodes a JSON body into v, rejecting unknown fields and trailing data.
// Returns false after writing a 400 response on error.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, logger *zap.Logger) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		msg := "Invalid request body"
		if errors.Is(err, io.EOF) {
			msg = "Request body is required"
		} else if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			msg = "Unknown field " + field
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large", logger)
			return false
		}
		writeError(w, http.StatusBadRequest, msg, logger)
		return false
	}
	if dec.More() {
		writeError(w, http.StatusBadRequest, "Invalid request body", logger)
		return false
	}
	return true
}
