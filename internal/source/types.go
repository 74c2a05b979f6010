// Package source tracks the files IR locations point into and resolves byte
// spans to line/column positions.
package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual marks a file added from memory (test, generated code).
	FileVirtual FileFlags = 1 << iota
	// FileSynthesized marks a file that only exists to anchor IR-level spans.
	FileSynthesized
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
