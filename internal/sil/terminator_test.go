package sil_test

import (
	"testing"

	"sil/internal/sil"
)

func TestSuccessorShapes(t *testing.T) {
	fx := newFixture(t)
	entry := fx.f.NewBlock()
	left := fx.f.NewBlock()
	right := fx.f.NewBlock()
	cond := fx.f.NewIntegerValue(1, fx.bools)
	entry.PushBack(cond)
	ret := fx.f.NewIntegerValue(0, fx.ints)

	tests := []struct {
		name string
		term *sil.Inst
		want []*sil.Block
	}{
		{name: "unreachable", term: fx.f.NewUnreachable(sil.Synthetic())},
		{name: "return", term: fx.f.NewReturn(sil.Synthetic(), ret.Result(0))},
		{name: "branch", term: fx.f.NewBranch(sil.Synthetic(), left), want: []*sil.Block{left}},
		{name: "condbranch", term: fx.f.NewCondBranch(sil.Synthetic(), cond.Result(0), left, right), want: []*sil.Block{left, right}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.term.IsTerminator() {
				t.Fatalf("%v is not a terminator", tt.term)
			}
			if tt.term.NumResults() != 0 {
				t.Fatalf("terminator produces %d results", tt.term.NumResults())
			}
			got := tt.term.SuccessorBlocks()
			if tt.term.NumSuccessors() != len(tt.want) || len(got) != len(tt.want) {
				t.Fatalf("successors = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("successor %d = %s, want %s", i, got[i], tt.want[i])
				}
				if owner := tt.term.Successors()[i].Owner(); owner != tt.term {
					t.Fatalf("successor %d owned by %v", i, owner)
				}
			}
		})
	}
}

func TestSuccessorsOnNonTerminator(t *testing.T) {
	fx := newFixture(t)
	in := fx.f.NewIntegerValue(1, fx.ints)
	if in.IsTerminator() {
		t.Fatalf("integer_value classified as terminator")
	}
	mustPanic(t, "non-terminator", func() { in.Successors() })
	mustPanic(t, "is not condbranch", func() { in.CondBranch() })
}

// A ends in condbranch(B, B); B loops to itself.
func TestCondBranchToSameBlock(t *testing.T) {
	fx := newFixture(t)
	bld := sil.NewBuilder(fx.f)
	a := fx.f.NewBlock()
	b := fx.f.NewBlock()

	bld.SetInsertPoint(a)
	cond := bld.CreateIntegerValue(1, fx.bools)
	term := bld.CreateCondBranch(sil.Synthetic(), cond.Result(0), b, b)

	succs := term.SuccessorBlocks()
	if len(succs) != 2 || succs[0] != b || succs[1] != b {
		t.Fatalf("successors of A = %v, want [bb1 bb1]", succs)
	}
	if term.CondBranch().TrueBlock() != b || term.CondBranch().FalseBlock() != b {
		t.Fatalf("true/false targets are not B")
	}
	if b.NumPreds() != 2 {
		t.Fatalf("B has %d incoming edges, want 2", b.NumPreds())
	}
	for _, pb := range b.PredBlocks() {
		if pb != a {
			t.Fatalf("unexpected predecessor %s", pb)
		}
	}
	if b.SinglePredecessor() != nil {
		t.Fatalf("two edges must not report a single predecessor")
	}

	bld.SetInsertPoint(b)
	loop := bld.CreateBranch(sil.Synthetic(), b)
	if b.NumPreds() != 3 {
		t.Fatalf("B has %d incoming edges after self-loop, want 3", b.NumPreds())
	}
	self := 0
	for s := range b.Preds() {
		if s.Owner() == loop {
			self++
		}
	}
	if self != 1 {
		t.Fatalf("self-loop edge seen %d times", self)
	}
	if err := sil.Check(fx.f); err != nil {
		t.Fatalf("check: %v", err)
	}

	term.EraseFromParent()
	if b.NumPreds() != 1 || b.SinglePredecessor() != b {
		t.Fatalf("after erasing A's terminator B has %d preds", b.NumPreds())
	}
}

func TestRetargetThroughBlockSuccs(t *testing.T) {
	fx := newFixture(t)
	entry := fx.f.NewBlock()
	old := fx.f.NewBlock()
	dest := fx.f.NewBlock()
	cond := fx.f.NewIntegerValue(1, fx.bools)
	entry.PushBack(cond)
	entry.PushBack(fx.f.NewCondBranch(sil.Synthetic(), cond.Result(0), old, old))
	old.PushBack(fx.f.NewUnreachable(sil.Synthetic()))
	dest.PushBack(fx.f.NewUnreachable(sil.Synthetic()))

	for _, s := range entry.Succs() {
		s.Set(dest)
	}
	if old.NumPreds() != 0 || dest.NumPreds() != 2 {
		t.Fatalf("preds old=%d dest=%d, want 0/2", old.NumPreds(), dest.NumPreds())
	}
	term := entry.Terminator().CondBranch()
	if term.TrueBlock() != dest || term.FalseBlock() != dest {
		t.Fatalf("targets = %s/%s, want %s", term.TrueBlock(), term.FalseBlock(), dest)
	}
	if err := sil.Check(fx.f); err != nil {
		t.Fatalf("check: %v", err)
	}
}

func TestRetargetMovesPredecessor(t *testing.T) {
	fx := newFixture(t)
	a := fx.f.NewBlock()
	b := fx.f.NewBlock()
	c := fx.f.NewBlock()
	br := fx.f.NewBranch(sil.Synthetic(), b)
	a.PushBack(br)

	br.Branch().Edge().Set(c)
	if b.NumPreds() != 0 || c.NumPreds() != 1 {
		t.Fatalf("preds b=%d c=%d, want 0/1", b.NumPreds(), c.NumPreds())
	}
	if br.Branch().Dest() != c || c.SinglePredecessor() != a {
		t.Fatalf("retarget did not update both sides")
	}

	br.RemoveFromParent()
	if c.NumPreds() != 1 {
		t.Fatalf("remove must keep edges registered")
	}
	if len(c.PredBlocks()) != 0 {
		t.Fatalf("edge of an unlinked terminator reported as a predecessor block")
	}
	br.Destroy()
	if c.NumPreds() != 0 {
		t.Fatalf("destroy left %d edges", c.NumPreds())
	}
}

func TestSuccessorProtocol(t *testing.T) {
	var s sil.Successor
	mustPanic(t, "before Init", func() { s.Set(nil) })

	fx := newFixture(t)
	br := fx.f.NewBranch(sil.Synthetic(), fx.f.NewBlock())
	mustPanic(t, "initialized twice", func() { br.Branch().Edge().Init(br) })

	other := fx.m.NewFunc("other", fx.f.Type)
	mustPanic(t, "another function", func() { br.Branch().Edge().Set(other.NewBlock()) })
}

func TestBuilderKeepsTerminatorLast(t *testing.T) {
	fx := newFixture(t)
	bld := sil.NewBuilder(fx.f)
	entry := fx.f.NewBlock()
	exit := fx.f.NewBlock()

	bld.SetInsertPoint(entry)
	v := bld.CreateIntegerValue(3, fx.ints)
	br := bld.CreateBranch(sil.Synthetic(), exit)
	mustPanic(t, "closed block", func() { bld.CreateIntegerValue(4, fx.ints) })
	if exit.NumPreds() != 1 {
		t.Fatalf("rejected instruction changed edges: %d", exit.NumPreds())
	}

	bld.SetInsertBefore(br)
	bld.CreateRetain(sil.Synthetic(), v.Result(0))
	mustPanic(t, "inserted before", func() { bld.CreateBranch(sil.Synthetic(), exit) })
	if exit.NumPreds() != 1 {
		t.Fatalf("rejected branch left an edge behind: %d", exit.NumPreds())
	}

	bld.SetInsertPoint(exit)
	bld.CreateReturn(sil.Synthetic(), v.Result(0))

	for blk := range fx.f.Blocks() {
		insts := blk.Insts()
		for i, in := range insts {
			if in.IsTerminator() != (i == len(insts)-1) {
				t.Fatalf("%s: terminator flag wrong at %d", blk, i)
			}
		}
	}
	if err := sil.Check(fx.f); err != nil {
		t.Fatalf("check: %v", err)
	}
}

func TestEraseBlock(t *testing.T) {
	fx := newFixture(t)
	a := fx.f.NewBlock()
	b := fx.f.NewBlock()
	a.PushBack(fx.f.NewBranch(sil.Synthetic(), b))
	b.PushBack(fx.f.NewUnreachable(sil.Synthetic()))

	mustPanic(t, "incoming edges", func() { fx.f.EraseBlock(b) })

	fx.f.EraseBlock(a)
	if fx.f.NumBlocks() != 1 || fx.f.Entry() != b {
		t.Fatalf("layout after erase: %d blocks", fx.f.NumBlocks())
	}
	if b.NumPreds() != 0 {
		t.Fatalf("erasing A left %d edges into B", b.NumPreds())
	}
	mustPanic(t, "erased", func() { fx.f.NewBranch(sil.Synthetic(), a) })
}
