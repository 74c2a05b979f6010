package driver

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"sil/internal/sil"
	"sil/internal/types"
)

// snapshotSchema is bumped whenever FuncSnapshot changes shape.
const snapshotSchema uint16 = 1

// Digest is the SHA-256 of a snapshot's encoding.
type Digest [sha256.Size]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool { return d == Digest{} }

// FuncSnapshot is a location-free structural summary of one function, stable
// across runs that build the same IR.
type FuncSnapshot struct {
	Schema uint16          `msgpack:"schema"`
	Name   string          `msgpack:"name"`
	Type   string          `msgpack:"type"`
	Blocks []BlockSnapshot `msgpack:"blocks"`
}

// BlockSnapshot lists a block's instructions and its CFG neighbours.
type BlockSnapshot struct {
	ID    int32    `msgpack:"id"`
	Insts []string `msgpack:"insts"`
	Preds []int32  `msgpack:"preds"`
	Succs []int32  `msgpack:"succs"`
}

// NumInsts counts the instructions over all blocks.
func (s *FuncSnapshot) NumInsts() int {
	n := 0
	for _, b := range s.Blocks {
		n += len(b.Insts)
	}
	return n
}

// Snapshot summarizes f.
func Snapshot(f *sil.Func) *FuncSnapshot {
	tys := f.Types()
	snap := &FuncSnapshot{
		Schema: snapshotSchema,
		Name:   f.Name,
		Type:   types.Label(tys, f.Type),
	}
	for b := range f.Blocks() {
		bs := BlockSnapshot{ID: int32(b.ID())}
		for in := range b.All() {
			bs.Insts = append(bs.Insts, describe(tys, in))
		}
		for _, p := range b.PredBlocks() {
			bs.Preds = append(bs.Preds, int32(p.ID()))
		}
		for _, s := range b.Succs() {
			if t := s.Target(); t != nil {
				bs.Succs = append(bs.Succs, int32(t.ID()))
			}
		}
		snap.Blocks = append(snap.Blocks, bs)
	}
	return snap
}

func describe(tys *types.Interner, in *sil.Inst) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%%%d = %s", in.ID(), in.Kind())
	for i, v := range in.Operands() {
		if i == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
	for i, t := range in.ResultTypes() {
		if i == 0 {
			sb.WriteString(" : ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(types.Label(tys, t))
	}
	return sb.String()
}

// Encode serializes the snapshot with msgpack.
func (s *FuncSnapshot) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encode snapshot %s: %w", s.Name, err)
	}
	return buf.Bytes(), nil
}

// Digest hashes the encoded snapshot.
func (s *FuncSnapshot) Digest() (Digest, error) {
	data, err := s.Encode()
	if err != nil {
		return Digest{}, err
	}
	return sha256.Sum256(data), nil
}

// DecodeSnapshot is the inverse of Encode.
func DecodeSnapshot(data []byte) (*FuncSnapshot, error) {
	var s FuncSnapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Schema != snapshotSchema {
		return nil, fmt.Errorf("snapshot schema %d, want %d", s.Schema, snapshotSchema)
	}
	return &s, nil
}
