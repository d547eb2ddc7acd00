package usecases

import "fmt"

// UnresolvedViolationPolicy decides what happens to violation ids that do not
// resolve to an active catalog entry.
type UnresolvedViolationPolicy string

const (
	// SkipUnresolved drops unresolved ids and reports them in the result.
	SkipUnresolved UnresolvedViolationPolicy = "skip"
	// RejectUnresolved fails the create before anything is written.
	RejectUnresolved UnresolvedViolationPolicy = "reject"
)

func ParseUnresolvedViolationPolicy(s string) (UnresolvedViolationPolicy, error) {
	switch p := UnresolvedViolationPolicy(s); p {
	case SkipUnresolved, RejectUnresolved:
		return p, nil
	case "":
		return SkipUnresolved, nil
	default:
		return "", fmt.Errorf("unknown unresolved violation policy %q", s)
	}
}
