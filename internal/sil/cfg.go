package sil

import "slices"

// ReversePostOrder returns the blocks reachable from the entry, each before
// its successors except along back edges.
func ReversePostOrder(f *Func) []*Block {
	entry := f.Entry()
	if entry == nil {
		return nil
	}
	type frame struct {
		b    *Block
		next int
	}
	visited := make(map[BlockID]bool, f.NumBlocks())
	post := make([]*Block, 0, f.NumBlocks())
	stack := []frame{{b: entry}}
	visited[entry.id] = true
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		succs := top.b.Succs()
		if top.next < len(succs) {
			t := succs[top.next].Target()
			top.next++
			if t != nil && !visited[t.id] {
				visited[t.id] = true
				stack = append(stack, frame{b: t})
			}
			continue
		}
		post = append(post, top.b)
		stack = stack[:len(stack)-1]
	}
	slices.Reverse(post)
	return post
}

// Reachable reports which blocks can be reached from the entry.
func Reachable(f *Func) map[BlockID]bool {
	out := make(map[BlockID]bool, f.NumBlocks())
	for _, b := range ReversePostOrder(f) {
		out[b.id] = true
	}
	return out
}

// Unreachable lists the blocks of the layout that the entry cannot reach.
func Unreachable(f *Func) []*Block {
	seen := Reachable(f)
	var out []*Block
	for b := range f.Blocks() {
		if !seen[b.id] {
			out = append(out, b)
		}
	}
	return out
}
