package canvas

import "fmt"

// ExistsError is returned when creating an object whose name is already taken
// and overwriting was not requested. It is distinct from transport errors so
// callers can tell "already exists" from "not authorized".
type ExistsError struct {
	Kind string
	Name string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("canvas: %s %q already exists", e.Kind, e.Name)
}

// NotCachedError reports a cache lookup against a course whose resources have
// never been listed, or an id absent from the listing. Cache lookups never
// trigger an implicit fetch; their cost stays predictable.
type NotCachedError struct {
	Kind     string
	CourseID int
	ID       int
}

func (e *NotCachedError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("canvas: no %ss cached for course %d; list them first", e.Kind, e.CourseID)
	}
	return fmt.Sprintf("canvas: %s %d not found in course %d listing", e.Kind, e.ID, e.CourseID)
}
