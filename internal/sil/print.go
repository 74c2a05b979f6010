package sil

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"sil/internal/types"
)

// DumpOptions configures debug dumps.
type DumpOptions struct {
	// Color highlights opcodes, values and blocks with ANSI escapes.
	Color bool
	// Locations appends the source position (or "synthetic") to each line.
	Locations bool
}

type palette struct {
	op, val, block, ty, loc func(a ...any) string
}

func newPalette(enabled bool) palette {
	if !enabled {
		plain := fmt.Sprint
		return palette{op: plain, val: plain, block: plain, ty: plain, loc: plain}
	}
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		c.EnableColor()
		return c.SprintFunc()
	}
	return palette{
		op:    mk(color.FgCyan, color.Bold),
		val:   mk(color.FgYellow),
		block: mk(color.FgMagenta, color.Bold),
		ty:    mk(color.FgGreen),
		loc:   mk(color.FgHiBlack),
	}
}

// DumpModule writes every function of m in creation order.
func DumpModule(w io.Writer, m *Module, opts DumpOptions) error {
	if w == nil || m == nil {
		return nil
	}
	for n, f := range m.funcs {
		if n > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := DumpFunc(w, f, opts); err != nil {
			return err
		}
	}
	return nil
}

// DumpFunc writes a human-readable listing of f. The output is for people;
// nothing parses it back.
func DumpFunc(w io.Writer, f *Func, opts DumpOptions) error {
	if w == nil || f == nil {
		return nil
	}
	p := newPalette(opts.Color)
	var sb strings.Builder
	fmt.Fprintf(&sb, "sil @%s : %s {\n", f.Name, p.ty(types.Label(f.Types(), f.Type)))
	for b := range f.Blocks() {
		fmt.Fprintf(&sb, "%s:", p.block(b.String()))
		if preds := b.PredBlocks(); len(preds) > 0 {
			names := make([]string, len(preds))
			for n, pb := range preds {
				names[n] = pb.String()
			}
			fmt.Fprintf(&sb, "  %s", p.loc("// preds: "+strings.Join(names, ", ")))
		}
		sb.WriteByte('\n')
		for in := range b.All() {
			sb.WriteString("  ")
			sb.WriteString(formatInst(f, in, p))
			if opts.Locations {
				sb.WriteString("  ")
				sb.WriteString(p.loc("// " + formatLoc(f, in.loc)))
			}
			sb.WriteByte('\n')
		}
	}
	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func formatLoc(f *Func, loc Location) string {
	if sp, ok := loc.Span(f.module.Nodes); ok {
		return f.module.Files.Position(sp)
	}
	return loc.String()
}

func formatInst(f *Func, in *Inst, p palette) string {
	if in.erased {
		return fmt.Sprintf("<erased %s %%%d>", in.kind, in.id)
	}
	var sb strings.Builder
	switch len(in.results) {
	case 0:
	case 1:
		sb.WriteString(p.val(in.Result(0).String()) + " = ")
	default:
		names := make([]string, len(in.results))
		for n := range in.results {
			names[n] = fmt.Sprintf("%%%d#%d", in.id, n)
		}
		sb.WriteString(p.val("("+strings.Join(names, ", ")+")") + " = ")
	}
	sb.WriteString(p.op(in.kind.String()))
	if args := formatPayload(f, in, p); args != "" {
		sb.WriteByte(' ')
		sb.WriteString(args)
	}
	if len(in.results) > 0 {
		labels := make([]string, len(in.results))
		for n, ty := range in.results {
			labels[n] = types.Label(f.Types(), ty)
		}
		sb.WriteString(" : " + p.ty(strings.Join(labels, ", ")))
	}
	return sb.String()
}

func formatPayload(f *Func, in *Inst, p palette) string {
	vals := func(vs ...Value) string {
		parts := make([]string, len(vs))
		for n, v := range vs {
			parts[n] = p.val(v.String())
		}
		return strings.Join(parts, ", ")
	}
	label := func(ty types.TypeID) string { return p.ty(types.Label(f.Types(), ty)) }

	switch in.kind {
	case KindAllocVar:
		s := fmt.Sprintf("[%s] %s", in.alloc.Kind, label(in.alloc.ElemType))
		if id, ok := in.Decl(); ok {
			s += ", var " + f.module.Nodes.Decls.Get(id).Name
		}
		return s
	case KindAllocBox:
		return label(in.alloc.ElemType)
	case KindAllocArray:
		return label(in.alloc.ElemType) + ", " + vals(in.alloc.NumElements)
	case KindApply, KindClosure:
		return fmt.Sprintf("%s(%s)", vals(in.call.Callee), vals(in.call.args...))
	case KindConstantRef:
		name := "?"
		if sym := f.module.Symbols.Symbols.Get(in.constant.Constant.Sym); sym != nil {
			name = sym.Name
		}
		return fmt.Sprintf("%s @%s", in.constant.Constant.Kind, name)
	case KindIntegerLiteral:
		return in.IntegerLiteralValue().String()
	case KindFloatLiteral:
		return in.FloatLiteralValue().Text('g', -1)
	case KindStringLiteral:
		return fmt.Sprintf("%q", in.StringLiteralValue())
	case KindMetatype:
		return label(in.InstanceType())
	case KindIntegerValue:
		return fmt.Sprintf("%d", in.intValue.Val)
	case KindLoad, KindRetain, KindRelease, KindDestroyAddr,
		KindImplicitConvert, KindCoerce, KindDowncast:
		return vals(in.unary.Operand)
	case KindStore:
		return vals(in.store.Src) + " to " + vals(in.store.Dest)
	case KindCopyAddr:
		src, dest := vals(in.copyAddr.Src), vals(in.copyAddr.Dest)
		if in.copyAddr.IsTakeOfSrc {
			src = "[take] " + src
		}
		if in.copyAddr.IsInitializationOfDest {
			dest = "[initialization] " + dest
		}
		return src + " to " + dest
	case KindIndexAddr:
		return fmt.Sprintf("%s, %d", vals(in.index.Operand), in.index.Index)
	case KindSpecialize:
		subs := make([]string, len(in.spec.subs))
		for n, s := range in.spec.subs {
			subs[n] = label(s.Archetype) + " = " + label(s.Replacement)
		}
		return fmt.Sprintf("%s, {%s}", vals(in.spec.Operand), strings.Join(subs, ", "))
	case KindTuple:
		return "(" + vals(in.tuple.elems...) + ")"
	case KindExtract, KindElementAddr, KindRefElementAddr:
		return fmt.Sprintf("%s, #%d", vals(in.extract.Operand), in.extract.FieldNo)
	case KindDeallocVar:
		return fmt.Sprintf("[%s] %s", in.dealloc.Kind, vals(in.dealloc.Operand))
	case KindReturn:
		return vals(in.ret.Value)
	case KindBranch:
		return formatTarget(in.br.dests[0].Target(), p)
	case KindCondBranch:
		return fmt.Sprintf("%s, %s, %s",
			vals(in.condBr.Cond),
			formatTarget(in.condBr.dests[0].Target(), p),
			formatTarget(in.condBr.dests[1].Target(), p),
		)
	default:
		return ""
	}
}

func formatTarget(b *Block, p palette) string {
	if b == nil {
		return p.block("<detached>")
	}
	return p.block(b.String())
}
