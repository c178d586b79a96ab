package model

import (
    "fmt"
    "time"
)

// Case status and priority values used by the service when none is given.
// Status is otherwise free text; the stats endpoint counts OPEN as pending
// and RELEASED as completed.
const (
    StatusOpen       = "OPEN"
    StatusReleased   = "RELEASED"
    PriorityMedium   = "MEDIUM"
    UnknownInspector = "Unknown"
)

// Case represents an inspection order ("Auftrag") stored in the `cases`
// table.  InspectorName is a snapshot taken at creation time and is not
// refreshed when the inspector is renamed.  Optional metadata is nil when
// absent so it renders as JSON null.
type Case struct {
    ID            uint64    `json:"id"`
    CaseNumber    string    `json:"caseNumber"`
    Title         *string   `json:"title"`
    Description   string    `json:"description"`
    InspectorID   uint64    `json:"inspectorId"`
    InspectorName string    `json:"inspectorName"`
    ClientID      *uint64   `json:"clientId"`
    Priority      string    `json:"priority"`
    Status        string    `json:"status"`
    FileReference *string   `json:"fileReference"`
    OrderDate     string    `json:"orderDate"`
    Deadline      *string   `json:"deadline"`
    Location      *string   `json:"location"`
    InternalNote  *string   `json:"internalNote"`
    CreatedAt     time.Time `json:"createdAt"`
}

// CasePatch carries the fields an update may overwrite.  Nil means keep.
type CasePatch struct {
    Title       *string
    Description *string
    Status      *string
    Priority    *string
}

// Apply copies the non-nil fields of p onto c.
func (p CasePatch) Apply(c *Case) {
    if p.Title != nil {
        c.Title = p.Title
    }
    if p.Description != nil {
        c.Description = *p.Description
    }
    if p.Status != nil {
        c.Status = *p.Status
    }
    if p.Priority != nil {
        c.Priority = *p.Priority
    }
}

// FormatCaseNumber renders the display number for a store-assigned id,
// e.g. 7 -> CASE-00007.
func FormatCaseNumber(id uint64) string {
    return fmt.Sprintf("CASE-%05d", id)
}
