package domain

import "time"

// Customer is a machinery owner or prospect served by a showroom.
type Customer struct {
	ID         string
	Name       string
	Phone      string
	Email      string
	Address    string
	ShowroomID *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
