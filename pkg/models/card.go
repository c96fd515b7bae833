package models

// Manifest maps a class name to the ordered list of image URLs available
// for that class. It is built once per session and never mutated afterwards.
type Manifest map[string][]string

// Card is a single practice flashcard: an image reference and the class
// label that identifies it.
type Card struct {
	Ref   string `json:"ref"`
	Label string `json:"label"`
}

// CreditRecord maps a saved dataset image to the URL it was downloaded from.
type CreditRecord struct {
	Rock string `json:"rock"`
	File string `json:"file"`
	URL  string `json:"url"`
}
