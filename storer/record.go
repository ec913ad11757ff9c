package storer

import "time"

type Record struct {
	Id        int64
	Title     string
	Embedding []float32
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Match struct {
	Id         int64   `json:"id"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
}
