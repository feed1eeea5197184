package valid

import (
	"time"

	"github.com/google/uuid"
)

type Person struct {
	ID      uuid.UUID         `json:"id"`
	Name    string            `json:"name"`
	Age     int               `json:"age,omitempty"`
	Emails  []string          `json:"emails"`
	Born    *time.Time        `json:"born"`
	Meta    map[string]any    `json:"meta"`
	Scores  [3]float64        `json:"scores"`
	Secret  string            `json:"-"`
	Comment string
	note    string
}

type Song struct {
	Title  string        `json:"title"`
	Length time.Duration `json:"length"`
	Rating Rating        `json:"rating"`
}

type Rating byte

type Alias = Song

type internal struct {
	A int `json:"a"`
}
