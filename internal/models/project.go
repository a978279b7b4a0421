package models

import "time"

type Project struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	OwnerID   string    `db:"owner_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ProjectColumns lists the columns scanned into Project
var ProjectColumns = []string{"id", "name", "owner_id", "created_at", "updated_at"}
