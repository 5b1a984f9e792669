package api

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/lukasmw/devreg/internal/model"
	"github.com/lukasmw/devreg/internal/store"
)

// PurchasingHandler handles the purchasing information endpoints nested
// under a device.
type PurchasingHandler struct {
	DB *sql.DB
}

// Get handles GET /api/devices/{id}/purchasing-information.
func (h *PurchasingHandler) Get(w http.ResponseWriter, r *http.Request) {
	info, err := store.GetPurchasingInformationByDevice(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, info)
}

// Create handles POST /api/devices/{id}/purchasing-information.
// A device holds at most one record; a second create is a 409.
func (h *PurchasingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.PurchasingInformation
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	info, err := store.CreatePurchasingInformation(r.Context(), h.DB, r.PathValue("id"), req)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, info)
}

// Update handles PUT /api/devices/{id}/purchasing-information/{infoID}.
func (h *PurchasingHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := h.checkRecord(r); err != nil {
		storeError(w, err)
		return
	}

	var req model.PurchasingInformationUpdate
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	info, err := store.UpdatePurchasingInformation(r.Context(), h.DB, r.PathValue("infoID"), req)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, info)
}

// Delete handles DELETE /api/devices/{id}/purchasing-information/{infoID}.
func (h *PurchasingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.checkRecord(r); err != nil {
		storeError(w, err)
		return
	}

	if err := store.DeletePurchasingInformation(r.Context(), h.DB, r.PathValue("infoID")); err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "purchasing information deleted"})
}

// checkRecord validates a record-level mutation path: the device must exist
// and the addressed purchasing information must belong to it.
func (h *PurchasingHandler) checkRecord(r *http.Request) error {
	if _, err := store.GetDevice(r.Context(), h.DB, r.PathValue("id")); err != nil {
		return err
	}
	info, err := store.GetPurchasingInformation(r.Context(), h.DB, r.PathValue("infoID"))
	if err != nil {
		return err
	}
	if info.DeviceID != r.PathValue("id") {
		return fmt.Errorf("purchasing information %q: %w", info.PurchasingInformationID, store.ErrNotFound)
	}
	return nil
}
