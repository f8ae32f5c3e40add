package models

// Program represents an academic track such as "BCA".
type Program struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
