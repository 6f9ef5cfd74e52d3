package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// newID creates a prefixed UUIDv7 identifier. Version 7 IDs embed the
// creation timestamp in their high bits, so lexicographic order matches
// creation order.
func newID(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		// Only possible if the entropy source fails.
		id = uuid.New()
	}
	return fmt.Sprintf("%s_%s", prefix, id)
}
