package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
)

// maxBodySize bounds request bodies; every payload here is a handful of
// scalar fields.
const maxBodySize = 1 << 20

var errBadBody = errors.New("malformed request body")

type createAccountRequest struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Balance   string `json:"balance"`
	IsDefault bool   `json:"isDefault"`
}

type createTransactionRequest struct {
	AccountID string `json:"accountId"`
	Kind      string `json:"kind"`
	Amount    string `json:"amount"`
	Date      string `json:"date"`
}

type setBudgetRequest struct {
	Amount string `json:"amount"`
}

// decodeJSON parses the request body into dst, rejecting trailing garbage.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		return errBadBody
	}
	if dec.More() {
		return errBadBody
	}
	return nil
}

// parseDate parses a calendar date in YYYY-MM-DD form as midnight UTC.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, core.ErrInvalidDate
	}
	return t.UTC(), nil
}

// parsePage extracts limit/offset query parameters. Zero means "no limit"
// downstream; negatives are clamped.
func parsePage(r *http.Request) (limit, offset int) {
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("offset")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			offset = n
		}
	}
	return limit, offset
}
