package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/core"
)

type recurringView struct {
	ID          int64
	StartDate   string
	EndDate     string
	Every       string
	Type        string
	Category    string
	Amount      string
	Description string
	LastRun     string
}

func toRecurringViews(templates []core.RecurringTransaction) []recurringView {
	views := make([]recurringView, 0, len(templates))
	for _, rt := range templates {
		v := recurringView{
			ID:          rt.ID,
			StartDate:   rt.StartDate.String(),
			Every:       rt.Every.String(),
			Type:        rt.Type.String(),
			Category:    rt.Category,
			Amount:      rt.Amount.String(),
			Description: rt.Description,
		}
		if !rt.EndDate.IsZero() {
			v.EndDate = rt.EndDate.String()
		}
		if !rt.LastRun.IsZero() {
			v.LastRun = rt.LastRun.String()
		}
		views = append(views, v)
	}
	return views
}

// parseRecurringForm builds a recurring template from form values.
func parseRecurringForm(form url.Values) (core.RecurringTransaction, error) {
	var rt core.RecurringTransaction

	typ, err := core.ParseTransactionType(sanitizeInput(form.Get("type")))
	if err != nil {
		return rt, fmt.Errorf("invalid transaction type")
	}
	rt.Type = typ

	rt.Category = sanitizeInput(form.Get("category"))
	if rt.Category == "" {
		return rt, fmt.Errorf("category is required")
	}

	cents, err := core.ParseDecimalToCents(form.Get("amount"))
	if err != nil {
		return rt, fmt.Errorf("invalid amount")
	}
	rt.Amount = core.Money{Cents: cents}

	rt.Description = sanitizeInput(form.Get("description"))

	rt.Every = core.Frequency(sanitizeInput(form.Get("every")))
	if !rt.Every.Valid() {
		return rt, fmt.Errorf("invalid frequency, expected daily, weekly, monthly or yearly")
	}

	start := sanitizeInput(form.Get("start_date"))
	if start == "" {
		rt.StartDate = core.Today()
	} else {
		d, err := core.ParseDate(start)
		if err != nil {
			return rt, fmt.Errorf("invalid start date, expected YYYY-MM-DD")
		}
		rt.StartDate = d
	}

	if v := sanitizeInput(form.Get("end_date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return rt, fmt.Errorf("invalid end date, expected YYYY-MM-DD")
		}
		rt.EndDate = d
	}

	return rt, nil
}

// handleRecurring serves the recurring templates page on GET and creates a
// template on POST.
func (s *Server) handleRecurring(w http.ResponseWriter, r *http.Request) {
	if s.recurring == nil {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleListRecurring(w, r)
	case http.MethodPost:
		s.handleCreateRecurring(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	templates, err := s.recurring.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Recurring list failed", "error", err)
		http.Error(w, "failed to load recurring templates", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "recurring.html", struct {
		Templates []recurringView
		Today     string
	}{
		Templates: toRecurringViews(templates),
		Today:     core.Today().String(),
	})
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	rt, err := parseRecurringForm(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	ctx := r.Context()
	created, err := s.recurring.Add(ctx, rt)
	if err != nil {
		slog.ErrorContext(ctx, "Recurring create failed", "error", err)
		InternalServerError("Failed to save recurring template").Write(w)
		return
	}

	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerRecurringCreated(created.ID).
		TriggerFormReset().
		TriggerSuccessNotification("Recurring template saved").
		BodyHTML(`<div class="success">Saved</div>`).
		Write(w)
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	if s.recurring == nil {
		http.NotFound(w, r)
		return
	}
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	idStr := r.Form.Get("id")
	if idStr == "" {
		idStr = r.URL.Query().Get("id")
	}
	id, err := ParseID(idStr)
	if err != nil {
		BadRequestError("Invalid template id").Write(w)
		return
	}

	ctx := r.Context()
	removed, err := s.recurring.Delete(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "Recurring delete failed", "id", id, "error", err)
		InternalServerError("Failed to delete recurring template").Write(w)
		return
	}
	if !removed {
		NotFoundError("Recurring template not found").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerRecurringDeleted(id).
		TriggerSuccessNotification("Recurring template deleted").
		BodyHTML(`<div class="success">Deleted</div>`).
		Write(w)
}
