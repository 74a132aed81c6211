package graph

import (
	"errors"
	"fmt"
)

// ErrDanglingEndpoint marks an edge upsert whose endpoint node does not
// exist yet. Callers record the skip and continue the pass; the store never
// creates placeholder nodes.
var ErrDanglingEndpoint = errors.New("dangling edge endpoint")

// DanglingEndpointError carries the offending edge triple.
type DanglingEndpointError struct {
	Src, Dst, Type string
	Missing        string // which endpoint id was absent
}

func (e *DanglingEndpointError) Error() string {
	return fmt.Sprintf("edge (%s)-[:%s]->(%s): endpoint %s not in graph", e.Src, e.Type, e.Dst, e.Missing)
}

func (e *DanglingEndpointError) Unwrap() error { return ErrDanglingEndpoint }
