package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/lukasmw/devreg/internal/model"
	"github.com/lukasmw/devreg/internal/store"
)

// UsersHandler handles user administration endpoints.
type UsersHandler struct {
	DB *sql.DB
}

type createUserRequest struct {
	RZUsername         string `json:"rz_username"`
	FullName           string `json:"full_name"`
	OrganisationUnit   string `json:"organisation_unit"`
	HasAdminPrivileges bool   `json:"has_admin_privileges"`
	Password           string `json:"password"`
}

// List handles GET /api/users with skip/limit query parameters.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	users, err := store.ListUsers(r.Context(), h.DB, skip, limit)
	if err != nil {
		storeError(w, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	jsonResponse(w, http.StatusOK, users)
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.RZUsername == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "rz_username and password required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user, err := store.CreateUser(r.Context(), h.DB, model.User{
		RZUsername:         req.RZUsername,
		FullName:           req.FullName,
		OrganisationUnit:   req.OrganisationUnit,
		HasAdminPrivileges: req.HasAdminPrivileges,
		PasswordHash:       string(hash),
	})
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, user)
}

// pagination reads skip/limit query parameters, falling back to 0/default.
// Negative values are clamped: a client cannot disable pagination, only the
// internal exporter may.
func pagination(r *http.Request) (skip, limit int) {
	skip, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	return skip, limit
}
