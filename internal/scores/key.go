package scores

import (
	"errors"
	"fmt"
	"strings"
)

// Separator joins the components of a score key.
const Separator = "|"

// ErrInvalidKey is returned for keys that do not have exactly three components.
var ErrInvalidKey = errors.New("scores: invalid score key")

// Key identifies one leaderboard slot.
type Key struct {
	Direction string
	PackageID string
	Subset    string
}

// NewKey composes a key, rejecting components that would make it ambiguous.
func NewKey(direction, packageID, subset string) (Key, error) {
	k := Key{Direction: direction, PackageID: packageID, Subset: subset}
	for _, part := range []string{direction, packageID, subset} {
		if strings.Contains(part, Separator) || strings.TrimSpace(part) == "" {
			return Key{}, fmt.Errorf("%w: component %q", ErrInvalidKey, part)
		}
	}
	return k, nil
}

// String serializes the key as "direction|package|subset".
func (k Key) String() string {
	return strings.Join([]string{k.Direction, k.PackageID, k.Subset}, Separator)
}

// ParseKey splits a serialized key. Whitespace around components is ignored,
// so keys written as "a | b | c" parse as well.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, Separator)
	if len(parts) != 3 {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return NewKey(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]))
}
