package api

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/lukasmw/devreg/internal/model"
	"github.com/lukasmw/devreg/internal/store"
)

// TransactionsHandler handles the owner and location transaction history
// endpoints nested under a device.
type TransactionsHandler struct {
	DB *sql.DB
}

// ListOwner handles GET /api/devices/{id}/owner-transactions.
func (h *TransactionsHandler) ListOwner(w http.ResponseWriter, r *http.Request) {
	transactions, err := store.ListOwnerTransactionsByDevice(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}
	if transactions == nil {
		transactions = []model.OwnerTransaction{}
	}
	jsonResponse(w, http.StatusOK, transactions)
}

// LatestOwner handles GET /api/devices/{id}/owner-transactions/latest.
// Returns the record with the highest "owner since" timestamp; a device
// without owner history is a 404, not an empty list.
func (h *TransactionsHandler) LatestOwner(w http.ResponseWriter, r *http.Request) {
	transaction, err := store.LatestOwnerTransaction(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, transaction)
}

// CreateOwner handles POST /api/devices/{id}/owner-transactions.
func (h *TransactionsHandler) CreateOwner(w http.ResponseWriter, r *http.Request) {
	var req model.OwnerTransaction
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.RZUsername == "" {
		jsonError(w, http.StatusBadRequest, "rz_username required")
		return
	}

	transaction, err := store.CreateOwnerTransaction(r.Context(), h.DB, r.PathValue("id"), req)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, transaction)
}

// UpdateOwner handles PUT /api/devices/{id}/owner-transactions/{transactionID}.
func (h *TransactionsHandler) UpdateOwner(w http.ResponseWriter, r *http.Request) {
	if err := h.checkOwnerRecord(r); err != nil {
		storeError(w, err)
		return
	}

	var req model.OwnerTransactionUpdate
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	transaction, err := store.UpdateOwnerTransaction(r.Context(), h.DB, r.PathValue("transactionID"), req)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, transaction)
}

// DeleteOwner handles DELETE /api/devices/{id}/owner-transactions/{transactionID}.
func (h *TransactionsHandler) DeleteOwner(w http.ResponseWriter, r *http.Request) {
	if err := h.checkOwnerRecord(r); err != nil {
		storeError(w, err)
		return
	}

	if err := store.DeleteOwnerTransaction(r.Context(), h.DB, r.PathValue("transactionID")); err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "owner transaction deleted"})
}

// ListLocation handles GET /api/devices/{id}/location-transactions.
func (h *TransactionsHandler) ListLocation(w http.ResponseWriter, r *http.Request) {
	transactions, err := store.ListLocationTransactionsByDevice(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}
	if transactions == nil {
		transactions = []model.LocationTransaction{}
	}
	jsonResponse(w, http.StatusOK, transactions)
}

// LatestLocation handles GET /api/devices/{id}/location-transactions/latest.
func (h *TransactionsHandler) LatestLocation(w http.ResponseWriter, r *http.Request) {
	transaction, err := store.LatestLocationTransaction(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, transaction)
}

// CreateLocation handles POST /api/devices/{id}/location-transactions.
func (h *TransactionsHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req model.LocationTransaction
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.RoomCode == "" {
		jsonError(w, http.StatusBadRequest, "room_code required")
		return
	}

	transaction, err := store.CreateLocationTransaction(r.Context(), h.DB, r.PathValue("id"), req)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, transaction)
}

// UpdateLocation handles PUT /api/devices/{id}/location-transactions/{transactionID}.
func (h *TransactionsHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	if err := h.checkLocationRecord(r); err != nil {
		storeError(w, err)
		return
	}

	var req model.LocationTransactionUpdate
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	transaction, err := store.UpdateLocationTransaction(r.Context(), h.DB, r.PathValue("transactionID"), req)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, transaction)
}

// DeleteLocation handles DELETE /api/devices/{id}/location-transactions/{transactionID}.
func (h *TransactionsHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	if err := h.checkLocationRecord(r); err != nil {
		storeError(w, err)
		return
	}

	if err := store.DeleteLocationTransaction(r.Context(), h.DB, r.PathValue("transactionID")); err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "location transaction deleted"})
}

// checkOwnerRecord validates a record-level mutation path: the device must
// exist and the addressed owner transaction must belong to it, so a record
// cannot be reached through another device's path.
func (h *TransactionsHandler) checkOwnerRecord(r *http.Request) error {
	if _, err := store.GetDevice(r.Context(), h.DB, r.PathValue("id")); err != nil {
		return err
	}
	transaction, err := store.GetOwnerTransaction(r.Context(), h.DB, r.PathValue("transactionID"))
	if err != nil {
		return err
	}
	if transaction.DeviceID != r.PathValue("id") {
		return fmt.Errorf("owner transaction %q: %w", transaction.OwnerTransactionID, store.ErrNotFound)
	}
	return nil
}

// checkLocationRecord is checkOwnerRecord for location transactions.
func (h *TransactionsHandler) checkLocationRecord(r *http.Request) error {
	if _, err := store.GetDevice(r.Context(), h.DB, r.PathValue("id")); err != nil {
		return err
	}
	transaction, err := store.GetLocationTransaction(r.Context(), h.DB, r.PathValue("transactionID"))
	if err != nil {
		return err
	}
	if transaction.DeviceID != r.PathValue("id") {
		return fmt.Errorf("location transaction %q: %w", transaction.LocationTransactionID, store.ErrNotFound)
	}
	return nil
}
