package diagnostics

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"typeengine/colors"
	"typeengine/internal/source"
)

const (
	STR_MULTIPLIER = "%*d | "
	LINE_POS       = "%s--> %s:%d:%d\n"
)

// SourceCache caches source file contents for error reporting
type SourceCache struct {
	files map[string][]string
}

func NewSourceCache() *SourceCache {
	return &SourceCache{
		files: make(map[string][]string),
	}
}

// AddSource registers in-memory content for a path
func (sc *SourceCache) AddSource(filepath, content string) {
	sc.files[filepath] = source.SplitLines(content)
}

// GetLine retrieves a specific line from a source file
func (sc *SourceCache) GetLine(filepath string, line int) (string, error) {
	lines, ok := sc.files[filepath]
	if !ok {
		loaded, err := loadLines(filepath)
		if err != nil {
			return "", err
		}
		sc.files[filepath] = loaded
		lines = loaded
	}
	if line > 0 && line <= len(lines) {
		return lines[line-1], nil
	}
	return "", fmt.Errorf("line %d out of range", line)
}

func loadLines(filepath string) ([]string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	lines := make([]string, 0)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// Emitter handles the rendering and output of diagnostics
type Emitter struct {
	cache  *SourceCache
	writer io.Writer
}

// NewEmitter creates an emitter that writes to a specific writer
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{
		cache:  NewSourceCache(),
		writer: w,
	}
}

func (e *Emitter) Emit(diag *Diagnostic) {
	e.printHeader(diag)

	width := lineNumWidth(diag)
	for _, label := range diag.Labels {
		e.printLabel(diag.FilePath, label, diag.Severity, width)
	}

	for _, note := range diag.Notes {
		fmt.Fprint(e.writer, strings.Repeat(" ", width))
		colors.CYAN.Fprint(e.writer, " = note: ")
		fmt.Fprintln(e.writer, note.Message)
	}

	if diag.Help != "" {
		fmt.Fprint(e.writer, strings.Repeat(" ", width))
		colors.GREEN.Fprint(e.writer, " = help: ")
		fmt.Fprintln(e.writer, diag.Help)
	}

	fmt.Fprintln(e.writer)
}

// lineNumWidth is the gutter width needed for every line quoted by diag
func lineNumWidth(diag *Diagnostic) int {
	maxLine := 0
	for _, label := range diag.Labels {
		if label.Location != nil && label.Location.Start != nil && label.Location.Start.Line > maxLine {
			maxLine = label.Location.Start.Line
		}
	}
	if maxLine == 0 {
		return 1
	}
	return len(fmt.Sprintf("%d", maxLine))
}

func severityColor(s Severity) colors.COLOR {
	switch s {
	case Warning:
		return colors.YELLOW
	case Info:
		return colors.CYAN
	case Hint:
		return colors.PURPLE
	default:
		return colors.BOLD_RED
	}
}

func (e *Emitter) printHeader(diag *Diagnostic) {
	color := severityColor(diag.Severity)
	color.Fprint(e.writer, diag.Severity.String())
	if diag.Code != "" {
		fmt.Fprintf(e.writer, "[%s]", diag.Code)
	}
	fmt.Fprint(e.writer, ": ")
	color.Fprintln(e.writer, diag.Message)
}

func (e *Emitter) printLabel(filepath string, label Label, severity Severity, width int) {
	if label.Location == nil || label.Location.Start == nil {
		return
	}
	start := label.Location.Start
	end := label.Location.End
	if end == nil || end.Line != start.Line {
		end = start
	}
	if filepath == "" {
		filepath = label.Location.File()
	}

	colors.BLUE.Fprintf(e.writer, LINE_POS, strings.Repeat(" ", width), filepath, start.Line, start.Column)

	line, err := e.cache.GetLine(filepath, start.Line)
	if err != nil {
		// no source available; the header and position are still useful
		if label.Message != "" {
			fmt.Fprint(e.writer, strings.Repeat(" ", width))
			colors.GREY.Fprint(e.writer, " | ")
			fmt.Fprintln(e.writer, label.Message)
		}
		return
	}

	fmt.Fprint(e.writer, strings.Repeat(" ", width))
	colors.GREY.Fprintln(e.writer, " |")
	colors.GREY.Fprintf(e.writer, STR_MULTIPLIER, width, start.Line)
	fmt.Fprintln(e.writer, line)

	length := end.Column - start.Column
	if length <= 0 {
		length = 1
	}
	underline, char := colors.BLUE, "-"
	if label.Style == Primary {
		underline = severityColor(severity)
		char = "^"
		if length > 1 {
			char = "~"
		}
	}
	fmt.Fprint(e.writer, strings.Repeat(" ", width))
	colors.GREY.Fprint(e.writer, " | ")
	fmt.Fprint(e.writer, strings.Repeat(" ", max(start.Column-1, 0)))
	underline.Fprint(e.writer, strings.Repeat(char, length))
	if label.Message != "" {
		underline.Fprintf(e.writer, " %s", label.Message)
	}
	fmt.Fprintln(e.writer)
}
