package geom

import "fmt"

// MalformedRegionError reports header fields that contradict each other.
type MalformedRegionError struct {
	Region string
	Reason string
}

func (e *MalformedRegionError) Error() string {
	return fmt.Sprintf("geom: malformed %s: %s", e.Region, e.Reason)
}

func malformed(region, format string, args ...any) error {
	return &MalformedRegionError{Region: region, Reason: fmt.Sprintf(format, args...)}
}

// MeshError attributes a decode failure to one mesh of the container.
type MeshError struct {
	Index int
	Err   error
}

func (e *MeshError) Error() string {
	return fmt.Sprintf("geom: mesh %d: %v", e.Index, e.Err)
}

func (e *MeshError) Unwrap() error { return e.Err }
