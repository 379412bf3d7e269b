package domain

// Category is a catalog category as exposed to the UI.
type Category struct {
	ID   string `json:"id"`
	Key  string `json:"key,omitempty"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}
