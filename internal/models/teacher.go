package models

// Teacher represents a teacher assignable to schedule slots.
type Teacher struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
