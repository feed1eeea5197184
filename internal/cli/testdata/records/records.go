package records

import "github.com/google/uuid"

type Person struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Band struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}
