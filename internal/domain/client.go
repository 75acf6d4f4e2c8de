package domain

import "time"

// Client is a customer of the salon. Clients never log in.
type Client struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name" validate:"required"`
	LastName  string    `json:"last_name" validate:"required"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty" validate:"omitempty,email"`
	CreatedAt time.Time `json:"created_at"`
}

func (c Client) FullName() string {
	return c.FirstName + " " + c.LastName
}
