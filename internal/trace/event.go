package trace

import "time"

// Kind says what an event marks.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat // periodic liveness signal
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string { return nameOf(kindNames[:], int(k)) }

// Scope is the granularity of an event. Smaller values are coarser, which
// lets a Level admit a prefix of the scopes.
type Scope uint8

const (
	ScopeTool  Scope = iota + 1 // one silc command
	ScopePass                   // a pass over the module: check, dump, snapshot
	ScopeFunc                   // work on one function
	ScopeBlock                  // work on one block
)

var scopeNames = [...]string{
	ScopeTool:  "tool",
	ScopePass:  "pass",
	ScopeFunc:  "func",
	ScopeBlock: "block",
}

func (s Scope) String() string { return nameOf(scopeNames[:], int(s)) }

// Event is one trace record. Sinks own the event only for the duration of
// Emit.
type Event struct {
	Time     time.Time
	Seq      uint64 // process-wide, monotonic
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for root spans
	GID      uint64 // emitting goroutine
	Name     string // e.g. "check", "func:main"
	Detail   string
	Extra    map[string]string
}
