package source

import (
	"fmt"
	"os"
	"strings"
)

// Location represents a span of source code with start and end positions
type Location struct {
	Start    *Position
	End      *Position
	Filename *string
}

// NewLocation creates a new Location with the given start and end positions
func NewLocation(filename *string, start, end *Position) *Location {
	return &Location{
		Filename: filename,
		Start:    start,
		End:      end,
	}
}

// Span builds a single-line location covering columns [col, endCol).
// Syntax-tree producers without a tokenizer (tests, generators) use it.
func Span(line, col, endCol int) Location {
	return Location{
		Start: &Position{Line: line, Column: col},
		End:   &Position{Line: line, Column: endCol},
	}
}

// IsValid reports whether both ends of the span are known
func (l *Location) IsValid() bool {
	return l != nil && l.Start != nil && l.End != nil
}

// File returns the file name or "" when the location is not tied to a file
func (l *Location) File() string {
	if l == nil || l.Filename == nil {
		return ""
	}
	return *l.Filename
}

// Contains checks if the given position is within this location
func (l *Location) Contains(pos *Position) bool {
	if !l.IsValid() {
		return false
	}
	if pos.Before(l.Start) {
		return false
	}
	if l.End.Before(pos) {
		return false
	}
	return true
}

func (l *Location) String() string {
	if !l.IsValid() {
		return "location(unknown)"
	}

	return fmt.Sprintf("location(%d:%d - %d:%d)", l.Start.Line, l.Start.Column, l.End.Line, l.End.Column)
}

// SplitLines splits source text into lines without their terminators.
func SplitLines(content string) []string {
	if content == "" {
		return []string{}
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	return strings.Split(content, "\n")
}

// GetSourceLines reads a file and splits it into lines.
func GetSourceLines(filepath string) ([]string, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return SplitLines(string(content)), nil
}
