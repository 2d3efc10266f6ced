package macrocell

import (
	"fmt"
	"strings"
)

// DiagnosticKind classifies a problem found while decoding.
type DiagnosticKind int

const (
	// BadHeader: the first line does not start with the format header.
	BadHeader DiagnosticKind = iota + 1
	// BlankLine: a blank line somewhere other than the end.
	BlankLine
	// UnexpectedCharacter: a leaf line character other than '.', '*' or '$'.
	UnexpectedCharacter
	// LeafOverflow: a leaf line cell beyond the 8×8 block.
	LeafOverflow
	// MalformedNode: a node line that is not five non-negative integers.
	MalformedNode
	// InvalidLevel: a node line level the tree cannot hold.
	InvalidLevel
	// UnresolvedReference: a node line field naming no earlier entity of
	// the right kind and level.
	UnresolvedReference
	// MalformedPosition: a #P line without two integer coordinates.
	MalformedPosition
)

var diagnosticKindNames = map[DiagnosticKind]string{
	BadHeader:           "bad header",
	BlankLine:           "blank line",
	UnexpectedCharacter: "unexpected character",
	LeafOverflow:        "leaf overflow",
	MalformedNode:       "malformed node",
	InvalidLevel:        "invalid level",
	UnresolvedReference: "unresolved reference",
	MalformedPosition:   "malformed position",
}

func (k DiagnosticKind) String() string {
	if name, ok := diagnosticKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("DiagnosticKind(%d)", int(k))
}

// Diagnostic locates a decoding problem: Line is 0-based, and [Start, End)
// is a byte range within that line.
type Diagnostic struct {
	Kind    DiagnosticKind
	Line    int
	Start   int
	End     int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d:%d-%d: %v: %s", d.Line, d.Start, d.End, d.Kind, d.Message)
}

// FormatError is returned by the decoders when the input cannot be turned
// into a board. It carries every warning and error found up to that point.
type FormatError struct {
	Warnings []Diagnostic
	Errors   []Diagnostic
}

func (e *FormatError) Error() string {
	if len(e.Errors) == 0 {
		return "malformed macrocell input"
	}
	var sb strings.Builder
	sb.WriteString("malformed macrocell input: ")
	sb.WriteString(e.Errors[0].String())
	if len(e.Errors) > 1 {
		fmt.Fprintf(&sb, " (and %d more errors)", len(e.Errors)-1)
	}
	return sb.String()
}
