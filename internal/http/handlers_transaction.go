package http

import (
	"log/slog"
	"net/http"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/store"
)

// handleTransactions serves the transactions page on GET and creates a
// transaction on POST.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTransactions(w, r)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := ParseFilter(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	ctx := r.Context()
	txs, err := s.svc.List(ctx, f)
	if err != nil {
		slog.ErrorContext(ctx, "Transaction list failed", "error", err)
		http.Error(w, "failed to load transactions", http.StatusInternalServerError)
		return
	}

	cats, err := s.svc.Categories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Category list failed", "error", err)
	}

	s.render(w, r, "transactions.html", struct {
		Transactions []transactionView
		Categories   []string
		Filter       store.Filter
	}{
		Transactions: toTransactionViews(txs),
		Categories:   cats,
		Filter:       f,
	})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	tx, err := ParseTransactionForm(r.Form)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	ctx := r.Context()
	created, err := s.svc.Add(ctx, tx)
	if err != nil {
		slog.ErrorContext(ctx, "Transaction create failed", "error", err)
		InternalServerError("Failed to save transaction").Write(w)
		return
	}
	s.invalidateCaches()

	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerTransactionCreated(created.ID).
		TriggerSummaryRefresh().
		TriggerFormReset().
		TriggerSuccessNotification("Transaction saved").
		BodyHTML(`<div class="success">Saved</div>`).
		Write(w)
}

// handleDeleteTransaction removes a transaction by id. A missing id is a 404,
// not a server error.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
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
		BadRequestError("Invalid transaction id").Write(w)
		return
	}

	ctx := r.Context()
	removed, err := s.svc.Delete(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "Transaction delete failed", "id", id, "error", err)
		InternalServerError("Failed to delete transaction").Write(w)
		return
	}
	if !removed {
		NotFoundError("Transaction not found").Write(w)
		return
	}
	s.invalidateCaches()

	NewHTMXResponse().
		TriggerTransactionDeleted(id).
		TriggerSummaryRefresh().
		TriggerSuccessNotification("Transaction deleted").
		BodyHTML(`<div class="success">Deleted</div>`).
		Write(w)
}
