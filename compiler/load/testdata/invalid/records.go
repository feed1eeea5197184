package invalid

type Base struct {
	Key string `json:"_key"`
}

type Embedded struct {
	Base
	Name string `json:"name"`
}

type Channel struct {
	Events chan int `json:"events"`
}
