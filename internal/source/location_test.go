package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationContains(t *testing.T) {
	loc := NewLocation(nil, &Position{Line: 2, Column: 5}, &Position{Line: 4, Column: 3})

	tests := []struct {
		name string
		pos  *Position
		want bool
	}{
		{"before start line", &Position{Line: 1, Column: 9}, false},
		{"start line before column", &Position{Line: 2, Column: 4}, false},
		{"exact start", &Position{Line: 2, Column: 5}, true},
		{"middle line", &Position{Line: 3, Column: 1}, true},
		{"exact end", &Position{Line: 4, Column: 3}, true},
		{"after end", &Position{Line: 4, Column: 4}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, loc.Contains(tt.pos))
		})
	}
}

func TestLocationString(t *testing.T) {
	loc := Span(3, 1, 8)
	assert.Equal(t, "location(3:1 - 3:8)", loc.String())

	var empty Location
	assert.Equal(t, "location(unknown)", empty.String())
	assert.False(t, empty.IsValid())
	assert.Equal(t, "", empty.File())
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{}, SplitLines(""))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\r\nb\n"))
	assert.Equal(t, []string{"a", "", "c"}, SplitLines("a\n\nc"))
}

func TestGetSourceLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unit.src")
	require.NoError(t, os.WriteFile(path, []byte("let x = 1\nlet y = 2\n"), 0644))

	lines, err := GetSourceLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"let x = 1", "let y = 2"}, lines)

	_, err = GetSourceLines(filepath.Join(t.TempDir(), "missing.src"))
	assert.Error(t, err)
}
