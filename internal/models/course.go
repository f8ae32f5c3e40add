package models

// Course represents a course assignable to schedule slots.
type Course struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
