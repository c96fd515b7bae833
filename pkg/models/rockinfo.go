package models

// ModelRef points at an embedded 3D model for a rock definition.
type ModelRef struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// RockInfo is one entry of the rock definition catalog. Name is the exact
// class name used by the manifest; everything else is descriptive.
type RockInfo struct {
	Name         string    `json:"name"`
	Type         string    `json:"type,omitempty"`
	Subtype      string    `json:"subtype,omitempty"`
	Texture      string    `json:"texture,omitempty"`
	CommonColors []string  `json:"commonColors,omitempty"`
	Diagnostics  []string  `json:"diagnostics,omitempty"`
	ConfusedWith []string  `json:"confusedWith,omitempty"`
	Model        *ModelRef `json:"model,omitempty"`
}
