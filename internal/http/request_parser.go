// Package http serves the web UI and the JSON API.
//
// This file implements utilities for parsing and validating request data:
// transaction forms, list filters, and the method guards shared by all
// mutating handlers.
package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/core"
	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/store"
)

// ParseTransactionForm builds a transaction from form values. The date is
// optional and defaults downstream to today; amount and type are required.
func ParseTransactionForm(form url.Values) (core.Transaction, error) {
	var tx core.Transaction

	typ, err := core.ParseTransactionType(sanitizeInput(form.Get("type")))
	if err != nil {
		return tx, fmt.Errorf("invalid transaction type")
	}
	tx.Type = typ

	tx.Category = sanitizeInput(form.Get("category"))
	if tx.Category == "" {
		return tx, fmt.Errorf("category is required")
	}

	cents, err := core.ParseDecimalToCents(form.Get("amount"))
	if err != nil {
		return tx, fmt.Errorf("invalid amount")
	}
	tx.Amount = core.Money{Cents: cents}

	tx.Description = sanitizeInput(form.Get("description"))

	if v := sanitizeInput(form.Get("date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return tx, fmt.Errorf("invalid date, expected YYYY-MM-DD")
		}
		tx.Date = d
	}

	return tx, nil
}

// ParseFilter builds a list filter from query parameters. Unknown or empty
// values mean no restriction; malformed dates and types are an error rather
// than silently ignored.
func ParseFilter(query url.Values) (store.Filter, error) {
	var f store.Filter

	if v := strings.TrimSpace(query.Get("start_date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return f, fmt.Errorf("invalid start_date, expected YYYY-MM-DD")
		}
		f.Start = d
	}
	if v := strings.TrimSpace(query.Get("end_date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return f, fmt.Errorf("invalid end_date, expected YYYY-MM-DD")
		}
		f.End = d
	}
	if v := strings.TrimSpace(query.Get("type")); v != "" {
		t, err := core.ParseTransactionType(v)
		if err != nil {
			return f, fmt.Errorf("invalid type, expected income or expense")
		}
		f.Type = t
	}
	f.Category = strings.TrimSpace(query.Get("category"))

	if v := strings.TrimSpace(query.Get("sort")); v == "date_desc" {
		f.SortByDateDesc = true
	}

	return f, nil
}

// ParseID extracts a positive integer id from the given form or query value.
func ParseID(v string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return id, nil
}

// RequireMethod returns an error response when the request method is not one
// of the expected methods, nil otherwise.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience guard for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// RequireDeleteOrPOST is a convenience guard for DELETE/POST handlers.
func RequireDeleteOrPOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodDelete, http.MethodPost)
}

// ParseFormOrFail parses the request form, returning an error response on
// failure and nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Invalid request format")
	}
	return nil
}
