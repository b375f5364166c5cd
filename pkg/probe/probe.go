// Package probe resolves logical libraries to installed ones by querying the
// package-metadata capability for each candidate name in declared order.
package probe

import "github.com/cursegen/cursegen/pkg/pkgconf"

// Prober is the package-metadata capability. A successful Probe may emit
// linker directives as a side effect; callers that emit their own directives
// later must check for duplicates.
type Prober interface {
	Probe(name string) (*pkgconf.Library, error)
}

// Find queries each candidate in order and returns the first hit, or nil when
// every candidate misses. There is no merging of partial matches and no
// tie-break beyond declared order: once a candidate resolves, later ones are
// never consulted.
func Find(p Prober, names Candidates) *pkgconf.Library {
	if p == nil {
		return nil
	}
	for _, name := range names {
		if lib, err := p.Probe(name); err == nil {
			return lib
		}
	}
	return nil
}
