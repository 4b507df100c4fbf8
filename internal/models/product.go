package models

// Variant is one color/size option as extracted from a product page.
type Variant struct {
	Color     string `json:"color"`
	Size      string `json:"size"`
	Available bool   `json:"available"`
}

// Product holds everything extracted for one product page.
type Product struct {
	URL      string    `json:"url"`
	Handle   string    `json:"handle"`
	Title    string    `json:"title"`
	Variants []Variant `json:"variants"`
}
