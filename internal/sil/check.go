package sil

import (
	"errors"
	"fmt"
)

// CheckModule runs Check on every function of m.
func CheckModule(m *Module) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, f := range m.funcs {
		if err := Check(f); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Check verifies the structural invariants of f: list membership and parent
// back-references, terminator placement, edge registration and operand
// liveness. It does not judge typing or semantics.
func Check(f *Func) error {
	if f == nil {
		return nil
	}
	var errs []error
	for b := range f.Blocks() {
		if err := checkBlockList(f, b); err != nil {
			errs = append(errs, err)
		}
		if err := checkEdges(f, b); err != nil {
			errs = append(errs, err)
		}
		if err := checkOperands(f, b); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// checkBlockList walks the instruction list and checks links, parents and
// terminator placement.
func checkBlockList(f *Func, b *Block) error {
	if b.fn != f || b.erased || !b.inFunc {
		return fmt.Errorf("%s: block in layout is erased or foreign", b)
	}
	var errs []error
	n := 0
	prev := NoInstID
	for id := b.head; id != NoInstID; {
		in := f.Inst(id)
		if in == nil {
			errs = append(errs, fmt.Errorf("%s: dangling link to %%%d", b, id))
			break
		}
		n++
		if n > b.count {
			errs = append(errs, fmt.Errorf("%s: list longer than its count %d", b, b.count))
			break
		}
		if in.erased {
			errs = append(errs, fmt.Errorf("%s: erased instruction %%%d still linked", b, id))
		}
		if in.parent != b.id {
			errs = append(errs, fmt.Errorf("%s: %%%d has parent %s", b, id, in.parent))
		}
		if in.prev != prev {
			errs = append(errs, fmt.Errorf("%s: %%%d prev link is %%%d, want %%%d", b, id, in.prev, prev))
		}
		if in.kind.IsTerminator() && in.next != NoInstID {
			errs = append(errs, fmt.Errorf("%s: terminator %s %%%d is not last", b, in.kind, id))
		}
		prev = id
		id = in.next
	}
	if prev != b.tail {
		errs = append(errs, fmt.Errorf("%s: tail is %%%d, list ends at %%%d", b, b.tail, prev))
	}
	if n != b.count && len(errs) == 0 {
		errs = append(errs, fmt.Errorf("%s: count %d, list holds %d", b, b.count, n))
	}
	if n > 0 && !b.IsClosed() {
		errs = append(errs, fmt.Errorf("%s: unterminated block", b))
	}
	return errors.Join(errs...)
}

// checkEdges checks that outgoing edges are registered with their targets
// and that incoming edges come from this function's live terminators.
func checkEdges(f *Func, b *Block) error {
	var errs []error
	if term := b.Terminator(); term != nil && !term.erased {
		succs := term.Successors()
		for n, s := range succs {
			switch t := s.Target(); {
			case t == nil:
				errs = append(errs, fmt.Errorf("%s: successor %d of %s is detached", b, n, term.kind))
			case t.erased || !t.inFunc:
				errs = append(errs, fmt.Errorf("%s: successor %d targets %s outside the layout", b, n, t))
			case !hasPred(t, s):
				errs = append(errs, fmt.Errorf("%s: successor %d is not registered with %s", b, n, t))
			}
		}
	}
	count := 0
	for s := range b.Preds() {
		count++
		owner := s.Owner()
		if s.Target() != b {
			errs = append(errs, fmt.Errorf("%s: predecessor edge targets %s", b, s.Target()))
		}
		switch {
		case owner.fn != f:
			errs = append(errs, fmt.Errorf("%s: predecessor edge from another function", b))
		case owner.erased:
			errs = append(errs, fmt.Errorf("%s: predecessor edge from erased %%%d", b, owner.id))
		case !owner.HasParent():
			errs = append(errs, fmt.Errorf("%s: predecessor edge from unlinked %s %%%d", b, owner.kind, owner.id))
		}
	}
	if count != b.numPreds {
		errs = append(errs, fmt.Errorf("%s: %d predecessor edges, count says %d", b, count, b.numPreds))
	}
	return errors.Join(errs...)
}

func hasPred(b *Block, s *Successor) bool {
	for p := range b.Preds() {
		if p == s {
			return true
		}
	}
	return false
}

// checkOperands reports operands that no longer name a live result.
func checkOperands(f *Func, b *Block) error {
	var errs []error
	for in := range b.All() {
		if in.erased {
			continue
		}
		for _, v := range in.Operands() {
			def := f.Inst(v.Def)
			switch {
			case def == nil:
				errs = append(errs, fmt.Errorf("%s: %s %%%d uses unknown value %s", b, in.kind, in.id, v))
			case def.erased:
				errs = append(errs, fmt.Errorf("%s: %s %%%d uses erased value %s", b, in.kind, in.id, v))
			case int(v.Result) >= len(def.results):
				errs = append(errs, fmt.Errorf("%s: %s %%%d uses missing result %s", b, in.kind, in.id, v))
			}
		}
	}
	return errors.Join(errs...)
}
