package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/findnest/findnest/internal/imaging"
	"github.com/findnest/findnest/internal/model"
	"github.com/findnest/findnest/internal/store"
)

// validate checks request structs. URL fields use the `url` tag, which is
// how image links are verified to be well-formed.
var validate = validator.New()

// ItemsHandler handles the item registry endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

// itemRequest carries the full item fields for report and update. Both
// operations require every field; update is a whole-record replace, not a
// merge.
type itemRequest struct {
	Item        string   `json:"item" validate:"required"`
	DateFound   string   `json:"dateFound" validate:"required"`
	Location    string   `json:"location" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	ImageURLs   []string `json:"imageUrls" validate:"required,min=1,dive,url"`
	Department  string   `json:"department"`
}

type claimRequest struct {
	Name string `json:"name" validate:"required"`
	Date string `json:"date" validate:"required"`
}

// checkItemRequest maps validator failures onto the two caller-facing
// validation messages: malformed URLs get their own message, everything
// else is a missing-field problem.
func checkItemRequest(req *itemRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "url" {
				return model.ValidationError("Please provide valid URLs for all images")
			}
		}
	}
	return model.ValidationError("Please fill in all required fields, including image URLs")
}

// Report handles POST /api/items/report. Any authenticated user may report
// a found item; the item's department is snapshotted from the reporter's
// profile at this moment and never recomputed.
func (h *ItemsHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, model.ValidationError("invalid request body"))
		return
	}
	if err := checkItemRequest(&req); err != nil {
		respondError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	reporter, err := store.GetUser(r.Context(), h.DB, claims.UserID)
	if err != nil {
		respondError(w, model.StoreError(err))
		return
	}
	if reporter == nil {
		respondError(w, model.NotFoundError("User not found"))
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, model.Item{
		Name:        req.Item,
		DateFound:   req.DateFound,
		Location:    req.Location,
		Description: req.Description,
		Category:    req.Category,
		ImageURLs:   req.ImageURLs,
		Department:  reporter.Department,
		ReporterID:  reporter.ID,
	})
	if err != nil {
		respondError(w, model.StoreError(err))
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	offset, err := strconv.Atoi(q.Get("startIndex"))
	if err != nil || offset < 0 {
		offset = 0
	}
	// Non-numeric or non-positive limits fall back to the default.
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit <= 0 {
		limit = store.DefaultListLimit
	}

	filter := store.ItemFilter{
		Name:       q.Get("item"),
		Category:   q.Get("category"),
		SearchTerm: q.Get("searchTerm"),
	}
	opts := store.ListOptions{
		Offset:    offset,
		Limit:     limit,
		Ascending: q.Get("order") == "asc",
	}

	items, err := store.ListItems(r.Context(), h.DB, filter, opts)
	if err != nil {
		respondError(w, model.StoreError(err))
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		respondError(w, model.StoreError(err))
		return
	}
	if item == nil {
		respondError(w, model.NotFoundError("Item not found"))
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{itemId}. Requires a role permitted to
// mutate items and replaces the mutable fields wholesale.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, model.ValidationError("invalid request body"))
		return
	}
	if err := checkItemRequest(&req); err != nil {
		respondError(w, err)
		return
	}

	claims := GetClaims(r.Context())
	if !claims.Role.Can(model.PermMutateItems) {
		respondError(w, model.PermissionError("You are not allowed to update this item"))
		return
	}

	item, err := store.UpdateItem(r.Context(), h.DB, r.PathValue("itemId"), model.Item{
		Name:        req.Item,
		DateFound:   req.DateFound,
		Location:    req.Location,
		Description: req.Description,
		Category:    req.Category,
		ImageURLs:   req.ImageURLs,
		Department:  req.Department,
	})
	if err != nil {
		respondError(w, model.StoreError(err))
		return
	}
	if item == nil {
		respondError(w, model.NotFoundError("Item not found"))
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{itemId}. Deletion is permanent.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if !claims.Role.Can(model.PermMutateItems) {
		respondError(w, model.PermissionError("You are not allowed to delete this item"))
		return
	}

	found, err := store.DeleteItem(r.Context(), h.DB, r.PathValue("itemId"))
	if err != nil {
		respondError(w, model.StoreError(err))
		return
	}
	if !found {
		respondError(w, model.NotFoundError("Item not found"))
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Item has been deleted"})
}

// Claim handles POST /api/items/claim/{itemId}. Any authenticated caller
// may claim; a claim on an already-claimed item overwrites the previous
// claimant (last write wins).
func (h *ItemsHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, model.ValidationError("invalid request body"))
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, model.ValidationError("claimant name and date required"))
		return
	}

	item, err := store.ClaimItem(r.Context(), h.DB, r.PathValue("itemId"), req.Name, req.Date)
	if err != nil {
		respondError(w, model.StoreError(err))
		return
	}
	if item == nil {
		respondError(w, model.NotFoundError("Item not found"))
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Totals handles GET /api/items/totals.
func (h *ItemsHandler) Totals(w http.ResponseWriter, r *http.Request) {
	totals, err := store.CountItems(r.Context(), h.DB)
	if err != nil {
		respondError(w, model.StoreError(err))
		return
	}
	jsonResponse(w, http.StatusOK, totals)
}

// UploadPhoto handles PUT /api/items/{itemId}/photo.
func (h *ItemsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if !claims.Role.Can(model.PermMutateItems) {
		respondError(w, model.PermissionError("You are not allowed to update this item"))
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		respondError(w, model.ValidationError("file too large or invalid multipart form"))
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		respondError(w, model.ValidationError("photo file required"))
		return
	}
	defer file.Close()

	result, err := imaging.Process(file)
	if err != nil {
		respondError(w, model.ValidationError(err.Error()))
		return
	}

	found, err := store.SetItemPhoto(r.Context(), h.DB, r.PathValue("itemId"), result.Data, result.MIME)
	if err != nil {
		respondError(w, model.StoreError(err))
		return
	}
	if !found {
		respondError(w, model.NotFoundError("Item not found"))
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo uploaded"})
}

// GetPhoto handles GET /api/items/{itemId}/photo.
func (h *ItemsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetItemPhoto(r.Context(), h.DB, r.PathValue("itemId"))
	if err != nil {
		respondError(w, model.StoreError(err))
		return
	}
	if data == nil {
		respondError(w, model.NotFoundError("no photo"))
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
