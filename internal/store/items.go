package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/findnest/findnest/internal/model"
)

// DefaultListLimit is applied when a caller does not supply a usable limit.
const DefaultListLimit = 99

// ItemFilter narrows an item listing. Zero-valued fields are ignored.
// Name and Category are exact matches; SearchTerm is a case-insensitive
// substring match across name and description.
type ItemFilter struct {
	Name       string
	Category   string
	SearchTerm string
}

// ListOptions controls pagination and ordering of an item listing.
type ListOptions struct {
	Offset    int
	Limit     int
	Ascending bool
}

const itemColumns = `id, name, date_found, location, description, category, image_urls,
	        status, claimant_name, claimed_date, department, reporter_id, photo_mime, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.Item, error) {
	item := &model.Item{}
	var imageURLs string
	var claimantName, claimedDate, photoMime sql.NullString
	err := row.Scan(&item.ID, &item.Name, &item.DateFound, &item.Location, &item.Description,
		&item.Category, &imageURLs, &item.Status, &claimantName, &claimedDate,
		&item.Department, &item.ReporterID, &photoMime, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(imageURLs), &item.ImageURLs); err != nil {
		return nil, fmt.Errorf("decoding image urls: %w", err)
	}
	item.ClaimantName = claimantName.String
	item.ClaimedDate = claimedDate.String
	item.PhotoMime = photoMime.String
	return item, nil
}

// CreateItem persists a new item with a generated identifier and creation
// timestamp. Status is always `available`; the caller supplies department
// and reporter reference.
func CreateItem(ctx context.Context, db *sql.DB, item model.Item) (*model.Item, error) {
	urls, err := json.Marshal(item.ImageURLs)
	if err != nil {
		return nil, fmt.Errorf("encoding image urls: %w", err)
	}

	id := uuid.NewString()
	_, err = db.ExecContext(ctx,
		`INSERT INTO items (id, name, date_found, location, description, category,
		                    image_urls, status, department, reporter_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, item.Name, item.DateFound, item.Location, item.Description, item.Category,
		string(urls), model.ItemStatusAvailable, item.Department, item.ReporterID,
		time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns items matching the filter, paginated and sorted by
// creation timestamp. An empty result is not an error.
func ListItems(ctx context.Context, db *sql.DB, filter ItemFilter, opts ListOptions) ([]model.Item, error) {
	var conds []string
	var args []any

	if filter.Name != "" {
		conds = append(conds, "name = ?")
		args = append(args, filter.Name)
	}
	if filter.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.SearchTerm != "" {
		conds = append(conds, "(instr(lower(name), lower(?)) > 0 OR instr(lower(description), lower(?)) > 0)")
		args = append(args, filter.SearchTerm, filter.SearchTerm)
	}

	query := `SELECT ` + itemColumns + ` FROM items`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if opts.Ascending {
		query += " ORDER BY created_at ASC"
	} else {
		query += " ORDER BY created_at DESC"
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItem replaces an item's mutable fields wholesale and returns the
// updated record, or nil if the item does not exist. An empty department
// leaves the stored department untouched; status, claimant, reporter, and
// creation timestamp are never modified here.
func UpdateItem(ctx context.Context, db *sql.DB, id string, item model.Item) (*model.Item, error) {
	urls, err := json.Marshal(item.ImageURLs)
	if err != nil {
		return nil, fmt.Errorf("encoding image urls: %w", err)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, date_found = ?, location = ?, description = ?,
		        category = ?, image_urls = ?,
		        department = COALESCE(NULLIF(?, ''), department)
		 WHERE id = ?`,
		item.Name, item.DateFound, item.Location, item.Description,
		item.Category, string(urls), item.Department, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	return GetItem(ctx, db, id)
}

// DeleteItem permanently removes an item. Returns false if no such item
// existed.
func DeleteItem(ctx context.Context, db *sql.DB, id string) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking delete result: %w", err)
	}
	return n > 0, nil
}

// ClaimItem marks an item claimed by the given claimant. A second claim
// overwrites the first (last write wins). Returns the updated record, or
// nil if the item does not exist.
func ClaimItem(ctx context.Context, db *sql.DB, id, claimantName, claimedDate string) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = ?, claimant_name = ?, claimed_date = ? WHERE id = ?`,
		model.ItemStatusClaimed, claimantName, claimedDate, id,
	)
	if err != nil {
		return nil, fmt.Errorf("claiming item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking claim result: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	return GetItem(ctx, db, id)
}

// CountItems returns the dashboard totals. The three counts are separate
// queries with no snapshot isolation across them.
func CountItems(ctx context.Context, db *sql.DB) (*model.ItemTotals, error) {
	totals := &model.ItemTotals{}

	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&totals.TotalItems)
	if err != nil {
		return nil, fmt.Errorf("counting items: %w", err)
	}

	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE status = ?`, model.ItemStatusClaimed,
	).Scan(&totals.ItemsClaimed)
	if err != nil {
		return nil, fmt.Errorf("counting claimed items: %w", err)
	}

	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE status = ?`, model.ItemStatusAvailable,
	).Scan(&totals.ItemsPending)
	if err != nil {
		return nil, fmt.Errorf("counting pending items: %w", err)
	}

	return totals, nil
}

// SetItemPhoto stores an item's processed photo. Returns false if no such
// item existed.
func SetItemPhoto(ctx context.Context, db *sql.DB, id string, photo []byte, mime string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET photo = ?, photo_mime = ? WHERE id = ?`,
		photo, mime, id,
	)
	if err != nil {
		return false, fmt.Errorf("setting item photo: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking photo update result: %w", err)
	}
	return n > 0, nil
}

// GetItemPhoto returns an item's photo data and MIME type. Data is nil if
// the item does not exist or has no photo.
func GetItemPhoto(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM items WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item photo: %w", err)
	}
	return photo, mime.String, nil
}
