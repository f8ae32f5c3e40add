package models

// Action types recorded in the audit trail.
const (
	ActionTypeAdd    = "add"
	ActionTypeRemove = "remove"
	ActionTypeModify = "modify"
)

// Action is an append-only audit record describing a schedule mutation.
type Action struct {
	ID          int    `db:"id" json:"id"`
	Type        string `db:"type" json:"type"`
	Description string `db:"description" json:"description"`
	Timestamp   string `db:"timestamp" json:"timestamp"`
}
