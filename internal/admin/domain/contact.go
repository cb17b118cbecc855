package domain

import "time"

type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	WorkField string    `json:"workField"`
	CreatedAt time.Time `json:"createdAt"`
}
