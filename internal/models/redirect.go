package models

// Redirect tells the caller where to navigate after a successful write.
type Redirect struct {
	Location string `json:"location"`
}

// WriteResult is returned by upserts.
type WriteResult[T any] struct {
	Item     T        `json:"item"`
	Created  bool     `json:"created"`
	Redirect Redirect `json:"redirect"`
}
