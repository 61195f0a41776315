package models

// Page is one slice of an ordered listing
type Page[T any] struct {
	Items  []*T `json:"items"`
	Total  int  `json:"total"`
	Offset int  `json:"offset"`
	Limit  int  `json:"limit"`
}
