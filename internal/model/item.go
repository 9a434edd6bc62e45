package model

import "time"

// Item represents a found object awaiting claim.
//
// The JSON field names mirror what the dashboard consumes: the item's
// display name is serialized as "item", matching the report form.
type Item struct {
	ID           string    `json:"id"`
	Name         string    `json:"item"`
	DateFound    string    `json:"dateFound"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	ImageURLs    []string  `json:"imageUrls"`
	Status       string    `json:"status"`
	ClaimantName string    `json:"claimantName,omitempty"`
	ClaimedDate  string    `json:"claimedDate,omitempty"`
	Department   string    `json:"department"`
	ReporterID   string    `json:"reporterId"`
	PhotoMime    string    `json:"photoMime,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Item statuses.
const (
	ItemStatusAvailable = "available"
	ItemStatusClaimed   = "claimed"
)

// ItemTotals holds the dashboard counts. The three numbers come from
// independent queries, so they are not guaranteed to be a consistent
// snapshot under concurrent writes.
type ItemTotals struct {
	TotalItems   int `json:"totalItems"`
	ItemsClaimed int `json:"itemsClaimed"`
	ItemsPending int `json:"itemsPending"`
}
