// Package queue defines message payloads exchanged over the message broker
// and the publisher that sends them.
package queue

// Routing keys (queue names) for published domain events.
const (
    CaseCreatedKey   = "case.created"
    CaseDeletedKey   = "case.deleted"
    ClientCreatedKey = "client.created"
)

// CaseEvent is published when a case is created or deleted.  It carries
// enough for downstream consumers (notifications, reporting) to act
// without querying the primary database.
type CaseEvent struct {
    CaseID        uint64  `json:"case_id"`
    CaseNumber    string  `json:"case_number,omitempty"`
    InspectorID   uint64  `json:"inspector_id,omitempty"`
    InspectorName string  `json:"inspector_name,omitempty"`
    ClientID      *uint64 `json:"client_id,omitempty"`
    Priority      string  `json:"priority,omitempty"`
    Status        string  `json:"status,omitempty"`
    OccurredAt    string  `json:"occurred_at"`
}

// ClientEvent is published when a client company is registered.
type ClientEvent struct {
    ClientID    uint64 `json:"client_id"`
    CompanyName string `json:"company_name"`
    OccurredAt  string `json:"occurred_at"`
}
