package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/findnest/findnest/internal/model"
	"github.com/findnest/findnest/internal/store"
)

// UsersHandler handles user management endpoints (admin and superAdmin).
type UsersHandler struct {
	DB *sql.DB
}

type createUserRequest struct {
	Username   string     `json:"username"`
	Password   string     `json:"password"`
	Role       model.Role `json:"role"`
	Department string     `json:"department"`
}

type updateUserRequest struct {
	Role       model.Role `json:"role"`
	Department string     `json:"department"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListUsers(r.Context(), h.DB)
	if err != nil {
		respondError(w, model.StoreError(err))
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
		respondError(w, model.ValidationError("invalid request body"))
		return
	}

	if req.Username == "" || req.Password == "" || req.Role == "" {
		respondError(w, model.ValidationError("username, password, and role required"))
		return
	}

	if !model.ValidRole(req.Role) {
		respondError(w, model.ValidationError("invalid role"))
		return
	}

	if err := model.ValidatePassword(req.Password); err != nil {
		respondError(w, model.ValidationError(err.Error()))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, model.StoreError(err))
		return
	}

	user, err := store.CreateUser(r.Context(), h.DB, req.Username, string(hash), req.Role, req.Department)
	if err != nil {
		jsonError(w, http.StatusConflict, "username already exists")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("user created", "user", claims.Username, "new_user", req.Username, "role", req.Role)
	jsonResponse(w, http.StatusCreated, user)
}

// Get handles GET /api/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := store.GetUser(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		respondError(w, model.StoreError(err))
		return
	}
	if user == nil {
		respondError(w, model.NotFoundError("User not found"))
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// Update handles PUT /api/users/{id}. Role and department changes do not
// touch items the user already reported; their department snapshot stands.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, model.ValidationError("invalid request body"))
		return
	}

	if !model.ValidRole(req.Role) {
		respondError(w, model.ValidationError("invalid role"))
		return
	}

	id := r.PathValue("id")
	existing, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		respondError(w, model.StoreError(err))
		return
	}
	if existing == nil || existing.DeletedAt != nil {
		respondError(w, model.NotFoundError("User not found"))
		return
	}

	if err := store.UpdateUser(r.Context(), h.DB, id, req.Role, req.Department); err != nil {
		respondError(w, model.StoreError(err))
		return
	}

	user, _ := store.GetUser(r.Context(), h.DB, id)
	claims := GetClaims(r.Context())
	slog.Info("user updated", "user", claims.Username, "target_user", existing.Username, "new_role", req.Role)
	jsonResponse(w, http.StatusOK, user)
}

// ResetPassword handles PUT /api/users/{id}/password.
func (h *UsersHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, model.ValidationError("invalid request body"))
		return
	}

	if req.Password == "" {
		respondError(w, model.ValidationError("password required"))
		return
	}

	if err := model.ValidatePassword(req.Password); err != nil {
		respondError(w, model.ValidationError(err.Error()))
		return
	}

	id := r.PathValue("id")
	target, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		respondError(w, model.StoreError(err))
		return
	}
	if target == nil || target.DeletedAt != nil {
		respondError(w, model.NotFoundError("User not found"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, model.StoreError(err))
		return
	}

	if err := store.UpdateUserPassword(r.Context(), h.DB, id, string(hash)); err != nil {
		respondError(w, model.StoreError(err))
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("user password reset", "user", claims.Username, "target_user", target.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password reset"})
}

// Delete handles DELETE /api/users/{id}. Users are soft-deleted so items
// they reported keep a resolvable reporter reference.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// Prevent self-deletion.
	claims := GetClaims(r.Context())
	if claims != nil && claims.UserID == id {
		respondError(w, model.ValidationError("cannot delete yourself"))
		return
	}

	target, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		respondError(w, model.StoreError(err))
		return
	}
	if target == nil || target.DeletedAt != nil {
		respondError(w, model.NotFoundError("User not found"))
		return
	}

	if err := store.DeleteUser(r.Context(), h.DB, id); err != nil {
		respondError(w, model.StoreError(err))
		return
	}

	slog.Info("user deleted", "user", claims.Username, "deleted_user", target.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
