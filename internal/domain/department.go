package domain

// Department groups products for browsing. Names are unique.
type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
