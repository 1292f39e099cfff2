// Package api exposes the ledger over JSON HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sheikh-saqib/cashbook/internal/ledger"
	"github.com/sheikh-saqib/cashbook/internal/models"
	"github.com/sheikh-saqib/cashbook/internal/storage"
	"github.com/shopspring/decimal"
)

// maxBodyBytes caps the size of a POST /items body.
const maxBodyBytes = 1 << 20

// Handler serves the item and balance endpoints.
type Handler struct {
	ledger *ledger.Ledger
}

func NewHandler(l *ledger.Ledger) *Handler {
	return &Handler{ledger: l}
}

// Routes returns the mux wrapped in request logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /items", h.CreateItem)
	mux.HandleFunc("GET /items", h.ListItems)
	mux.HandleFunc("GET /items/{id}", h.GetItem)
	mux.HandleFunc("GET /balance", h.Balance)
	return LogRequests(mux)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createItemRequest struct {
	Kind        string  `json:"kind"`
	Amount      uint32  `json:"amount"`
	Description *string `json:"description"`
	Date        string  `json:"date"`
}

// CreateItem handles POST /items
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	kind, err := models.ParseEntry(req.Kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.ledger.Record(r.Context(), ledger.Posting{
		Kind:        kind,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, item)
}

// ListItems handles GET /items and GET /items?kind=in|out
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	var (
		items []models.Item
		err   error
	)
	if k := r.URL.Query().Get("kind"); k != "" {
		kind, perr := models.ParseEntry(k)
		if perr != nil {
			http.Error(w, perr.Error(), http.StatusBadRequest)
			return
		}
		items, err = h.ledger.ItemsByKind(r.Context(), kind)
	} else {
		items, err = h.ledger.Items(r.Context())
	}
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Item{}
	}

	WriteJSON(w, http.StatusOK, items)
}

// GetItem handles GET /items/{id}
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "id must be a positive integer", http.StatusBadRequest)
		return
	}

	item, err := h.ledger.Item(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, item)
}

type balanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
	In      int64           `json:"in"`
	Out     int64           `json:"out"`
	Count   int             `json:"count"`
}

// Balance handles GET /balance
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledger.Report(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, balanceResponse{
		Balance: report.Balance,
		In:      report.Totals.In,
		Out:     report.Totals.Out,
		Count:   report.Count,
	})
}

func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, "item not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrDuplicate):
		http.Error(w, "item already exists", http.StatusConflict)
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
