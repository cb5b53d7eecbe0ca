package enums

import "fmt"

// CollectionKind identifies one of the three live collections kept in sync
// by server push.
type CollectionKind string

const (
	CollectionKindProducts CollectionKind = "products"
	CollectionKindEntities CollectionKind = "entities"
	CollectionKindOrders   CollectionKind = "orders"
)

var validCollectionKinds = []CollectionKind{
	CollectionKindProducts,
	CollectionKindEntities,
	CollectionKindOrders,
}

// AllCollectionKinds returns every kind in a stable order.
func AllCollectionKinds() []CollectionKind {
	kinds := make([]CollectionKind, len(validCollectionKinds))
	copy(kinds, validCollectionKinds)
	return kinds
}

// String implements fmt.Stringer.
func (c CollectionKind) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CollectionKind.
func (c CollectionKind) IsValid() bool {
	for _, candidate := range validCollectionKinds {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCollectionKind converts raw input into a CollectionKind.
func ParseCollectionKind(value string) (CollectionKind, error) {
	for _, candidate := range validCollectionKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid collection kind %q", value)
}
