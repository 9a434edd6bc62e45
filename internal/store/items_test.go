package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/findnest/findnest/internal/db"
	"github.com/findnest/findnest/internal/model"
)

func newReporter(t *testing.T, database *sql.DB, department string) *model.User {
	t.Helper()
	user, err := CreateUser(context.Background(), database, "reporter-"+department, "hash", model.RoleStaff, department)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func newItem(name, description, category string, reporter *model.User) model.Item {
	return model.Item{
		Name:        name,
		DateFound:   "2024-05-01",
		Location:    "Library",
		Description: description,
		Category:    category,
		ImageURLs:   []string{"https://example.com/photo.jpg"},
		Department:  reporter.Department,
		ReporterID:  reporter.ID,
	}
}

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := newReporter(t, database, "Science")

	item, err := CreateItem(ctx, database, newItem("Black Umbrella", "Left at the entrance", "Accessories", reporter))
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.ID == "" {
		t.Error("expected generated id")
	}
	if item.Status != model.ItemStatusAvailable {
		t.Errorf("expected status 'available', got %q", item.Status)
	}
	if item.Department != "Science" {
		t.Errorf("expected department 'Science', got %q", item.Department)
	}
	if item.ReporterID != reporter.ID {
		t.Errorf("expected reporter %q, got %q", reporter.ID, item.ReporterID)
	}
	if len(item.ImageURLs) != 1 || item.ImageURLs[0] != "https://example.com/photo.jpg" {
		t.Errorf("unexpected image urls: %v", item.ImageURLs)
	}
	if item.CreatedAt.IsZero() {
		t.Error("expected creation timestamp")
	}

	got, err := GetItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got == nil || got.Name != "Black Umbrella" {
		t.Errorf("expected to fetch created item, got %+v", got)
	}

	missing, err := GetItem(ctx, database, "no-such-id")
	if err != nil {
		t.Fatalf("GetItem missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing item")
	}
}

func TestDepartmentSnapshotSurvivesUserChanges(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := newReporter(t, database, "Arts")

	item, err := CreateItem(ctx, database, newItem("Scarf", "Wool scarf", "Clothing", reporter))
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	// Moving the reporter to another department must not rewrite the item.
	if err := UpdateUser(ctx, database, reporter.ID, model.RoleStaff, "Engineering"); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Department != "Arts" {
		t.Errorf("expected snapshot department 'Arts', got %q", got.Department)
	}
}

func TestListItemsSearchTerm(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := newReporter(t, database, "Admin")

	CreateItem(ctx, database, newItem("Mobile Phone", "Samsung in a black case", "Electronics", reporter))
	CreateItem(ctx, database, newItem("Wallet", "Contains a phone card", "Accessories", reporter))
	CreateItem(ctx, database, newItem("Keys", "Keychain with three keys", "Accessories", reporter))

	// Matches name ("Phone") and description ("phone card"), case-insensitive.
	items, err := ListItems(ctx, database, ItemFilter{SearchTerm: "phone"}, ListOptions{})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 matches for 'phone', got %d", len(items))
	}

	items, _ = ListItems(ctx, database, ItemFilter{SearchTerm: "PHONE"}, ListOptions{})
	if len(items) != 2 {
		t.Errorf("expected case-insensitive match, got %d items", len(items))
	}

	// Absent match is an empty result, not an error.
	items, err = ListItems(ctx, database, ItemFilter{SearchTerm: "laptop"}, ListOptions{})
	if err != nil {
		t.Fatalf("ListItems no match: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected 0 matches, got %d", len(items))
	}
}

func TestListItemsExactFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := newReporter(t, database, "Admin")

	CreateItem(ctx, database, newItem("Phone", "Black phone", "Electronics", reporter))
	CreateItem(ctx, database, newItem("Phone", "White phone", "Electronics", reporter))
	CreateItem(ctx, database, newItem("Umbrella", "Red umbrella", "Accessories", reporter))

	byCategory, _ := ListItems(ctx, database, ItemFilter{Category: "Electronics"}, ListOptions{})
	if len(byCategory) != 2 {
		t.Errorf("expected 2 Electronics items, got %d", len(byCategory))
	}

	byName, _ := ListItems(ctx, database, ItemFilter{Name: "Umbrella"}, ListOptions{})
	if len(byName) != 1 {
		t.Errorf("expected 1 Umbrella item, got %d", len(byName))
	}

	// Exact name match, not substring.
	byPartial, _ := ListItems(ctx, database, ItemFilter{Name: "Umbr"}, ListOptions{})
	if len(byPartial) != 0 {
		t.Errorf("expected no items for partial name, got %d", len(byPartial))
	}
}

func TestListItemsOrderAndPagination(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := newReporter(t, database, "Admin")

	first, _ := CreateItem(ctx, database, newItem("First", "a", "Misc", reporter))
	CreateItem(ctx, database, newItem("Second", "b", "Misc", reporter))
	third, _ := CreateItem(ctx, database, newItem("Third", "c", "Misc", reporter))

	// Default order is newest first.
	items, err := ListItems(ctx, database, ItemFilter{}, ListOptions{})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].ID != third.ID {
		t.Errorf("expected newest item first, got %q", items[0].Name)
	}

	asc, _ := ListItems(ctx, database, ItemFilter{}, ListOptions{Ascending: true})
	if asc[0].ID != first.ID {
		t.Errorf("expected oldest item first ascending, got %q", asc[0].Name)
	}

	page, _ := ListItems(ctx, database, ItemFilter{}, ListOptions{Offset: 1, Limit: 1})
	if len(page) != 1 {
		t.Fatalf("expected 1 item on page, got %d", len(page))
	}
	if page[0].Name != "Second" {
		t.Errorf("expected 'Second' at offset 1, got %q", page[0].Name)
	}

	// Non-positive limit falls back to the default.
	all, _ := ListItems(ctx, database, ItemFilter{}, ListOptions{Limit: -5})
	if len(all) != 3 {
		t.Errorf("expected default limit to return all 3 items, got %d", len(all))
	}
}

func TestUpdateItemWholeReplace(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := newReporter(t, database, "Science")

	item, _ := CreateItem(ctx, database, newItem("Phone", "Old description", "Electronics", reporter))

	replacement := model.Item{
		Name:        "Smartphone",
		DateFound:   "2024-06-01",
		Location:    "Cafeteria",
		Description: "New description",
		Category:    "Gadgets",
		ImageURLs:   []string{"https://example.com/a.jpg", "https://example.com/b.jpg"},
	}
	updated, err := UpdateItem(ctx, database, item.ID, replacement)
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated.Name != "Smartphone" || updated.Location != "Cafeteria" {
		t.Errorf("expected replaced fields, got %+v", updated)
	}
	if len(updated.ImageURLs) != 2 {
		t.Errorf("expected 2 image urls, got %d", len(updated.ImageURLs))
	}
	// Empty department in the request preserves the snapshot.
	if updated.Department != "Science" {
		t.Errorf("expected department preserved, got %q", updated.Department)
	}
	if updated.ReporterID != reporter.ID {
		t.Errorf("expected reporter unchanged, got %q", updated.ReporterID)
	}

	// Explicit department replaces it.
	replacement.Department = "Security"
	updated, _ = UpdateItem(ctx, database, item.ID, replacement)
	if updated.Department != "Security" {
		t.Errorf("expected department 'Security', got %q", updated.Department)
	}

	missing, err := UpdateItem(ctx, database, "no-such-id", replacement)
	if err != nil {
		t.Fatalf("UpdateItem missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing item")
	}
}

func TestDeleteItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := newReporter(t, database, "Admin")

	item, _ := CreateItem(ctx, database, newItem("Delete Me", "", "Misc", reporter))

	found, err := DeleteItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if !found {
		t.Error("expected delete to report the item existed")
	}

	// Hard delete: the record is gone entirely.
	got, _ := GetItem(ctx, database, item.ID)
	if got != nil {
		t.Error("expected item to be permanently removed")
	}

	found, err = DeleteItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("DeleteItem repeat: %v", err)
	}
	if found {
		t.Error("expected false for already-deleted item")
	}
}

func TestClaimItemLastWriteWins(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := newReporter(t, database, "Admin")

	item, _ := CreateItem(ctx, database, newItem("Watch", "Silver watch", "Accessories", reporter))

	claimed, err := ClaimItem(ctx, database, item.ID, "Alice", "2024-06-01")
	if err != nil {
		t.Fatalf("ClaimItem: %v", err)
	}
	if claimed.Status != model.ItemStatusClaimed {
		t.Errorf("expected status 'claimed', got %q", claimed.Status)
	}
	if claimed.ClaimantName != "Alice" || claimed.ClaimedDate != "2024-06-01" {
		t.Errorf("unexpected claimant: %q / %q", claimed.ClaimantName, claimed.ClaimedDate)
	}

	// Re-claim silently overwrites claimant and date.
	claimed, err = ClaimItem(ctx, database, item.ID, "Bob", "2024-06-02")
	if err != nil {
		t.Fatalf("ClaimItem overwrite: %v", err)
	}
	if claimed.ClaimantName != "Bob" || claimed.ClaimedDate != "2024-06-02" {
		t.Errorf("expected last claim to win, got %q / %q", claimed.ClaimantName, claimed.ClaimedDate)
	}
	if claimed.Status != model.ItemStatusClaimed {
		t.Errorf("expected status 'claimed', got %q", claimed.Status)
	}

	missing, err := ClaimItem(ctx, database, "no-such-id", "Carol", "2024-06-03")
	if err != nil {
		t.Fatalf("ClaimItem missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing item")
	}
}

func TestCountItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := newReporter(t, database, "Admin")

	a, _ := CreateItem(ctx, database, newItem("A", "", "Misc", reporter))
	CreateItem(ctx, database, newItem("B", "", "Misc", reporter))
	CreateItem(ctx, database, newItem("C", "", "Misc", reporter))
	ClaimItem(ctx, database, a.ID, "Alice", "2024-06-01")

	totals, err := CountItems(ctx, database)
	if err != nil {
		t.Fatalf("CountItems: %v", err)
	}
	if totals.TotalItems != 3 {
		t.Errorf("expected 3 total, got %d", totals.TotalItems)
	}
	if totals.ItemsClaimed != 1 {
		t.Errorf("expected 1 claimed, got %d", totals.ItemsClaimed)
	}
	if totals.ItemsPending != 2 {
		t.Errorf("expected 2 pending, got %d", totals.ItemsPending)
	}
}

func TestItemPhoto(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := newReporter(t, database, "Admin")

	item, _ := CreateItem(ctx, database, newItem("Photo Item", "", "Misc", reporter))

	found, err := SetItemPhoto(ctx, database, item.ID, []byte("fake image data"), "image/jpeg")
	if err != nil {
		t.Fatalf("SetItemPhoto: %v", err)
	}
	if !found {
		t.Error("expected photo update to find the item")
	}

	data, mime, err := GetItemPhoto(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItemPhoto: %v", err)
	}
	if string(data) != "fake image data" {
		t.Errorf("expected photo data, got %q", string(data))
	}
	if mime != "image/jpeg" {
		t.Errorf("expected mime 'image/jpeg', got %q", mime)
	}

	found, _ = SetItemPhoto(ctx, database, "no-such-id", []byte("x"), "image/jpeg")
	if found {
		t.Error("expected false for missing item")
	}
}
