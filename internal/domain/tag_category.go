package domain

import "time"

// TagCategory is an entry of the tag catalog tickets may be classified with.
type TagCategory struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
