package api

import (
	"database/sql"
	"net/http"
)

// NewRouter creates the API router with all endpoints registered.
// Reads and creates require any authenticated principal; record mutation,
// user administration and bulk operations require admin privileges.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	devicesHandler := &DevicesHandler{DB: db}
	transactionsHandler := &TransactionsHandler{DB: db}
	purchasingHandler := &PurchasingHandler{DB: db}
	bulkHandler := &BulkHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret)
	admin := func(h http.HandlerFunc) http.Handler { return authMW(RequireAdmin(h)) }
	user := func(h http.HandlerFunc) http.Handler { return authMW(http.HandlerFunc(h)) }

	// Public: login.
	mux.HandleFunc("POST /api/login", authHandler.Login)

	// Users.
	mux.Handle("GET /api/users/me", user(authHandler.Me))
	mux.Handle("GET /api/users", admin(usersHandler.List))
	mux.Handle("POST /api/users", admin(usersHandler.Create))

	// Bulk transfer (admin only).
	mux.Handle("GET /api/export", admin(bulkHandler.Export))
	mux.Handle("POST /api/import", admin(bulkHandler.Import))
	mux.Handle("DELETE /api/purge", admin(bulkHandler.Purge))

	// Devices.
	mux.Handle("GET /api/devices", user(devicesHandler.List))
	mux.Handle("POST /api/devices", user(devicesHandler.Create))
	mux.Handle("GET /api/devices/{id}", user(devicesHandler.Get))
	mux.Handle("PUT /api/devices/{id}", admin(devicesHandler.Update))
	mux.Handle("DELETE /api/devices/{id}", admin(devicesHandler.Delete))
	mux.Handle("GET /api/devices/{id}/image", user(devicesHandler.GetImage))
	mux.Handle("PUT /api/devices/{id}/image", admin(devicesHandler.UploadImage))

	// Owner transaction history.
	mux.Handle("GET /api/devices/{id}/owner-transactions", user(transactionsHandler.ListOwner))
	mux.Handle("GET /api/devices/{id}/owner-transactions/latest", user(transactionsHandler.LatestOwner))
	mux.Handle("POST /api/devices/{id}/owner-transactions", user(transactionsHandler.CreateOwner))
	mux.Handle("PUT /api/devices/{id}/owner-transactions/{transactionID}", admin(transactionsHandler.UpdateOwner))
	mux.Handle("DELETE /api/devices/{id}/owner-transactions/{transactionID}", admin(transactionsHandler.DeleteOwner))

	// Location transaction history.
	mux.Handle("GET /api/devices/{id}/location-transactions", user(transactionsHandler.ListLocation))
	mux.Handle("GET /api/devices/{id}/location-transactions/latest", user(transactionsHandler.LatestLocation))
	mux.Handle("POST /api/devices/{id}/location-transactions", user(transactionsHandler.CreateLocation))
	mux.Handle("PUT /api/devices/{id}/location-transactions/{transactionID}", admin(transactionsHandler.UpdateLocation))
	mux.Handle("DELETE /api/devices/{id}/location-transactions/{transactionID}", admin(transactionsHandler.DeleteLocation))

	// Purchasing information.
	mux.Handle("GET /api/devices/{id}/purchasing-information", user(purchasingHandler.Get))
	mux.Handle("POST /api/devices/{id}/purchasing-information", user(purchasingHandler.Create))
	mux.Handle("PUT /api/devices/{id}/purchasing-information/{infoID}", admin(purchasingHandler.Update))
	mux.Handle("DELETE /api/devices/{id}/purchasing-information/{infoID}", admin(purchasingHandler.Delete))

	return mux
}
