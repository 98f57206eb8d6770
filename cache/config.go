package cache

import (
	"fmt"
)

// ParseOrganisation decodes the configuration-surface spelling of an
// organisation. Both the long form and the single-letter short form are
// accepted.
func ParseOrganisation(s string) (Organisation, error) {
	switch s {
	case "d", "direct_mapping":
		return DirectMapping, nil
	case "s", "set_associative":
		return SetAssociative, nil
	case "f", "fully_associative":
		return FullyAssociative, nil
	default:
		return 0, fmt.Errorf("invalid organisation %q", s)
	}
}

// ParseReplacementPolicy decodes the configuration-surface spelling of a
// replacement policy.
func ParseReplacementPolicy(s string) (ReplacementPolicy, error) {
	switch s {
	case "lru":
		return LRU, nil
	case "fifo":
		return FIFO, nil
	case "random":
		return Random, nil
	case "smallest":
		return Smallest, nil
	default:
		return 0, fmt.Errorf("invalid replacement policy %q", s)
	}
}

// ParseWritePolicy decodes the configuration-surface spelling of a write
// policy and reports whether write-back is selected.
func ParseWritePolicy(s string) (bool, error) {
	switch s {
	case "write_through":
		return false, nil
	case "write_back":
		return true, nil
	default:
		return false, fmt.Errorf("invalid write policy %q", s)
	}
}
