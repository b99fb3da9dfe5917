package profile

import (
	"fmt"
	"strings"
)

// pathPrefix is the conventional root segment rules use when naming
// profile fields. It is stripped before traversal so "is_high_risk" and
// "system_profile.is_high_risk" resolve identically.
const pathPrefix = "system_profile."

// NotFoundError reports a dotted path that does not resolve to a value
// in a profile snapshot. Rules treat it as "input missing", not as a
// failure.
type NotFoundError struct {
	Path    string
	Segment string
}

func (e *NotFoundError) Error() string {
	if e.Segment != "" && e.Segment != e.Path {
		return fmt.Sprintf("path %q not found in profile (missing segment %q)", e.Path, e.Segment)
	}
	return fmt.Sprintf("path %q not found in profile", e.Path)
}

// IsNotFound reports whether err is a path resolution miss.
func IsNotFound(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// Resolve walks a dotted path through a profile snapshot and returns
// the value it names. Intermediate segments must resolve to objects;
// a missing key, a nil value, or a scalar hit before the final segment
// all yield a NotFoundError.
func Resolve(snapshot map[string]any, path string) (any, error) {
	trimmed := strings.TrimPrefix(path, pathPrefix)
	if trimmed == "" {
		return nil, &NotFoundError{Path: path}
	}

	var current any = snapshot
	for _, segment := range strings.Split(trimmed, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, &NotFoundError{Path: path, Segment: segment}
		}
		value, ok := obj[segment]
		if !ok || value == nil {
			return nil, &NotFoundError{Path: path, Segment: segment}
		}
		current = value
	}
	return current, nil
}

// ResolveAll resolves every path, returning the bound values keyed by
// their final path segment plus the list of paths that did not resolve.
// The engine uses the missing list to decide applicability before any
// evaluation logic runs.
func ResolveAll(snapshot map[string]any, paths []string) (map[string]any, []string) {
	values := make(map[string]any, len(paths))
	var missing []string

	for _, path := range paths {
		value, err := Resolve(snapshot, path)
		if err != nil {
			missing = append(missing, path)
			continue
		}
		trimmed := strings.TrimPrefix(path, pathPrefix)
		segments := strings.Split(trimmed, ".")
		values[segments[len(segments)-1]] = value
	}
	return values, missing
}
