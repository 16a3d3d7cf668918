package geom

import "errors"

var (
	ErrEmptyInput  = errors.New("empty input")
	ErrUnsupported = errors.New("unsupported geometry")
	ErrNoGeometry  = errors.New("no geometries found")
)
