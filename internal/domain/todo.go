package domain

import "time"

// Domain entity: бизнес-объект (истина).
// Не зависит от Gin, Mongo, Redis.
type Todo struct {
	ID          string
	Title       string
	Description string
	Completed   bool
	DueDate     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Field limits enforced at validation time and by the collection schema.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
)

// ValidID reports whether id is a well-formed store identifier
// (24 hex characters). Malformed ids never reach storage.
func ValidID(id string) bool {
	if len(id) != 24 {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
