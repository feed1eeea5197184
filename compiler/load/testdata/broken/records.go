package broken

type Person struct {
	Name UnknownType `json:"name"`
}
