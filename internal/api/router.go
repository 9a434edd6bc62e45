package api

import (
	"database/sql"
	"net/http"

	"github.com/findnest/findnest/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireUserAdmin := RequirePermission(model.PermManageUsers)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Users (admin and superAdmin only).
	mux.Handle("GET /api/users", authMW(requireUserAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireUserAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireUserAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireUserAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireUserAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireUserAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Items: any authenticated user may report, browse, and claim.
	// Update, delete, and photo upload check item-mutation permission in
	// the handler, where the denial is reported per-operation.
	mux.Handle("POST /api/items/report", authMW(http.HandlerFunc(itemsHandler.Report)))
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("GET /api/items/totals", authMW(http.HandlerFunc(itemsHandler.Totals)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{itemId}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{itemId}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("POST /api/items/claim/{itemId}", authMW(http.HandlerFunc(itemsHandler.Claim)))
	mux.Handle("PUT /api/items/{itemId}/photo", authMW(http.HandlerFunc(itemsHandler.UploadPhoto)))
	mux.Handle("GET /api/items/{itemId}/photo", authMW(http.HandlerFunc(itemsHandler.GetPhoto)))

	return mux
}
