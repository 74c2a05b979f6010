// Package testkit holds cross-package assertions used by tests.
package testkit

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"sil/internal/sil"
	"sil/internal/source"
)

// CheckLocations runs a minimal set of location invariants over every
// instruction of m:
// 1) every location is valid (synthetic or backed by a node)
// 2) a node-backed location resolves to a non-empty span
// 3) the span lies within the content of a registered file
func CheckLocations(m *sil.Module) error {
	if m == nil {
		return fmt.Errorf("nil module")
	}
	var errs []error
	for _, f := range m.Funcs() {
		for b := range f.Blocks() {
			for in := range b.All() {
				if err := checkLocation(m, in.Loc()); err != nil {
					errs = append(errs, fmt.Errorf("%s %s %s: %w", f.Name, b, in, err))
				}
			}
		}
	}
	return errors.Join(errs...)
}

func checkLocation(m *sil.Module, loc sil.Location) error {
	if !loc.IsValid() {
		return fmt.Errorf("invalid location")
	}
	if loc.IsSynthetic() {
		return nil
	}
	sp, ok := loc.Span(m.Nodes)
	if !ok {
		return fmt.Errorf("location %s has no node", loc)
	}
	return checkSpan(m.Files, sp)
}

func checkSpan(files *source.FileSet, sp source.Span) error {
	if sp.End <= sp.Start {
		return fmt.Errorf("empty span: %v", sp)
	}
	sf := files.Get(sp.File)
	if sf == nil {
		return fmt.Errorf("span %v points to unknown file", sp)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if sp.End > lenContent {
		return fmt.Errorf("span end beyond content of %s: %d > %d", sf.Path, sp.End, lenContent)
	}
	return nil
}
