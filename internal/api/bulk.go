package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/lukasmw/devreg/internal/transfer"
)

// BulkHandler handles database export, import and purge.
type BulkHandler struct {
	DB *sql.DB
}

// Export handles GET /api/export. The response body is the transfer
// document itself, suitable for feeding back into Import.
func (h *BulkHandler) Export(w http.ResponseWriter, r *http.Request) {
	doc, err := transfer.Export(r.Context(), h.DB)
	if err != nil {
		storeError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="export.json"`)
	jsonResponse(w, http.StatusOK, doc)
}

// Import handles POST /api/import. The import merges into the existing
// data and is all-or-nothing: any id collision rolls the whole document
// back and reports a conflict.
func (h *BulkHandler) Import(w http.ResponseWriter, r *http.Request) {
	var doc transfer.Document
	if err := decodeJSON(r, &doc); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid import document")
		return
	}

	if err := transfer.Import(r.Context(), h.DB, &doc); err != nil {
		storeError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("database import",
		"user", claims.Username,
		"devices", len(doc.Devices),
		"owner_transactions", len(doc.OwnerTransactions),
		"location_transactions", len(doc.LocationTransactions),
		"purchasing_information", len(doc.PurchasingInformation))
	jsonResponse(w, http.StatusCreated, map[string]string{"message": "import complete"})
}

// Purge handles DELETE /api/purge. Everything except the users table is
// wiped.
func (h *BulkHandler) Purge(w http.ResponseWriter, r *http.Request) {
	if err := transfer.Purge(r.Context(), h.DB); err != nil {
		storeError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("database purged", "user", claims.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "database purged"})
}
