package domain

import "time"

// Inventor is a reference to the user who created a coffee. It is bound once
// at creation and never reassigned afterwards.
type Inventor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Coffee is the catalog aggregate root.
type Coffee struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Description string    `json:"description,omitempty"`
	Flavors     []string  `json:"flavors,omitempty"`
	Inventor    Inventor  `json:"inventor"`
	PhotoRef    string    `json:"photo_ref,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
