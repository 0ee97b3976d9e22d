package domain

type Airline struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
