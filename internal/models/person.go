package models

import "time"

// Person represents a single person entry in the registry.
type Person struct {
	// ID is the database-assigned identifier.
	ID int64 `json:"id"`

	// Name is the person's display name.
	Name string `json:"name"`

	// Age in whole years.
	Age int `json:"age"`

	// Place is a free-text location (city, village, ward ...).
	Place string `json:"place"`

	// PhotoURL is the web path of the uploaded photo, or nil if the entry
	// has no photo.
	PhotoURL *string `json:"photo_url"`

	// CreatedBy is the username of the account that created the entry,
	// captured at creation time.
	CreatedBy string `json:"created_by"`

	// UpdatedBy is the username of the account that last edited the entry.
	// It is set to the creator on insert.
	UpdatedBy string `json:"updated_by"`

	// UpdatedAt is refreshed on every edit.
	UpdatedAt time.Time `json:"updated_at"`
}
