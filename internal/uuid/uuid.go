package uuid

import (
	"strings"

	guuid "github.com/google/uuid"
)

// IsValid reports whether s is a UUID in canonical 8-4-4-4-12 form.
// Braced and urn: prefixed forms accepted by uuid.Parse are rejected.
func IsValid(s string) bool {
	if len(s) != 36 || strings.HasPrefix(s, "{") {
		return false
	}
	_, err := guuid.Parse(s)
	return err == nil
}
