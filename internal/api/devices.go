package api

import (
	"database/sql"
	"net/http"

	"github.com/lukasmw/devreg/internal/imaging"
	"github.com/lukasmw/devreg/internal/model"
	"github.com/lukasmw/devreg/internal/store"
)

// DevicesHandler handles device CRUD endpoints.
type DevicesHandler struct {
	DB *sql.DB
}

// List handles GET /api/devices.
func (h *DevicesHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	devices, err := store.ListDevices(r.Context(), h.DB, skip, limit)
	if err != nil {
		storeError(w, err)
		return
	}
	if devices == nil {
		devices = []model.Device{}
	}
	jsonResponse(w, http.StatusOK, devices)
}

// Create handles POST /api/devices.
func (h *DevicesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.Device
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" || req.DeviceType == "" {
		jsonError(w, http.StatusBadRequest, "title and device_type required")
		return
	}

	device, err := store.CreateDevice(r.Context(), h.DB, req)
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, device)
}

// Get handles GET /api/devices/{id}.
func (h *DevicesHandler) Get(w http.ResponseWriter, r *http.Request) {
	device, err := store.GetDevice(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, device)
}

// Update handles PUT /api/devices/{id} with partial-update semantics:
// only fields present in the body are overwritten.
func (h *DevicesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.DeviceUpdate
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	device, err := store.UpdateDevice(r.Context(), h.DB, r.PathValue("id"), req)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, device)
}

// Delete handles DELETE /api/devices/{id}. All transaction history and
// purchasing information for the device goes with it.
func (h *DevicesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := store.DeleteDevice(r.Context(), h.DB, r.PathValue("id")); err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "device deleted"})
}

// UploadImage handles PUT /api/devices/{id}/image.
func (h *DevicesHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	result, err := imaging.Process(r.Body)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetDeviceImage(r.Context(), h.DB, id, result.Data, result.MIME); err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/devices/{id}/image.
func (h *DevicesHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetDeviceImage(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
