package models

import "time"

// Asset is the minimal asset record the generation engine needs: the location
// a generated work order inherits.
type Asset struct {
	ID         string    `json:"id" db:"id"`
	CompanyID  string    `json:"company_id" db:"company_id"`
	Name       string    `json:"name" db:"name"`
	LocationID *string   `json:"location_id" db:"location_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
