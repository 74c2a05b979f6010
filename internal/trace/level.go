package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity. Each level admits the scopes up to its
// ceiling; error events bypass the level through the crash path.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // only emit on errors/crashes
	LevelPhase               // tool and pass spans
	LevelDetail              // plus one span per function
	LevelDebug               // plus per-block points
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

// levelCeiling is the finest scope each level emits; zero admits nothing.
var levelCeiling = [...]Scope{
	LevelPhase:  ScopePass,
	LevelDetail: ScopeFunc,
	LevelDebug:  ScopeBlock,
}

func (l Level) String() string { return nameOf(levelNames[:], int(l)) }

// ParseLevel converts a level name; the empty string means off.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelOff, nil
	}
	n, err := parseName("level", levelNames[:], s)
	return Level(n), err
}

// ShouldEmit reports whether events of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(levelCeiling) && scope <= levelCeiling[l]
}

func nameOf(names []string, n int) string {
	if n >= 0 && n < len(names) && names[n] != "" {
		return names[n]
	}
	return "unknown"
}

// parseName finds s in a name table, ignoring case.
func parseName(what string, names []string, s string) (int, error) {
	known := make([]string, 0, len(names))
	for n, name := range names {
		if name == "" {
			continue
		}
		if strings.EqualFold(name, s) {
			return n, nil
		}
		known = append(known, name)
	}
	return 0, fmt.Errorf("invalid trace %s: %q (expected: %s)", what, s, strings.Join(known, "|"))
}
