package model

import "time"

// Client represents a commissioning company ("Auftraggeber") stored in the
// `clients` table.  Only CompanyName is required.
type Client struct {
    ID          uint64    `json:"id"`
    CompanyName string    `json:"companyName"`
    ContactName *string   `json:"contactName"`
    Email       *string   `json:"email"`
    Phone       *string   `json:"phone"`
    Address     *string   `json:"address"`
    CreatedAt   time.Time `json:"createdAt"`
}
