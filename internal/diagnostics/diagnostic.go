package diagnostics

import (
	"fmt"

	"typeengine/internal/source"
)

// Severity represents the severity level of a diagnostic
type Severity int

const (
	Error Severity = iota
	Warning
	Info
	Hint
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Hint:
		return "hint"
	default:
		return "unknown"
	}
}

// Label represents a labeled section of code in a diagnostic
type Label struct {
	Location *source.Location
	Message  string
	Style    LabelStyle
}

type LabelStyle int

const (
	Primary   LabelStyle = iota // The main error location (uses ^^^)
	Secondary                   // Additional context (uses ---)
)

// Note represents additional information attached to a diagnostic
type Note struct {
	Message string
}

// Diagnostic represents a compiler diagnostic (error, warning, etc.)
type Diagnostic struct {
	Severity Severity
	Message  string
	Code     string // Error code like "E0001"
	FilePath string // Source file for this diagnostic
	Labels   []Label
	Notes    []Note
	Help     string // Suggestion for fixing the error
}

// NewError creates a new error diagnostic
func NewError(message string) *Diagnostic {
	return &Diagnostic{
		Severity: Error,
		Message:  message,
		Labels:   make([]Label, 0),
		Notes:    make([]Note, 0),
	}
}

// NewWarning creates a new warning diagnostic
func NewWarning(message string) *Diagnostic {
	return &Diagnostic{
		Severity: Warning,
		Message:  message,
		Labels:   make([]Label, 0),
		Notes:    make([]Note, 0),
	}
}

// NewInfo creates a new info diagnostic
func NewInfo(message string) *Diagnostic {
	return &Diagnostic{
		Severity: Info,
		Message:  message,
		Labels:   make([]Label, 0),
		Notes:    make([]Note, 0),
	}
}

// WithCode sets the error code
func (d *Diagnostic) WithCode(code string) *Diagnostic {
	d.Code = code
	return d
}

// WithLabel adds a labeled location to the diagnostic
func (d *Diagnostic) WithLabel(filepath string, loc *source.Location, message string, style LabelStyle) *Diagnostic {
	if d.FilePath == "" {
		d.FilePath = filepath
	}
	d.Labels = append(d.Labels, Label{
		Location: loc,
		Message:  message,
		Style:    style,
	})
	return d
}

// WithPrimaryLabel adds a primary labeled location
// Must be called before any WithSecondaryLabel calls
func (d *Diagnostic) WithPrimaryLabel(filepath string, loc *source.Location, message string) *Diagnostic {
	// Ensure primary label is always first
	if len(d.Labels) > 0 {
		// Check if we already have a primary
		for _, label := range d.Labels {
			if label.Style == Primary {
				// Already have a primary, don't add another
				return d
			}
		}
		// We have secondary labels but no primary - insert at beginning
		d.Labels = append([]Label{{
			Location: loc,
			Message:  message,
			Style:    Primary,
		}}, d.Labels...)
		if d.FilePath == "" {
			d.FilePath = filepath
		}
		return d
	}
	return d.WithLabel(filepath, loc, message, Primary)
}

// WithSecondaryLabel adds a secondary labeled location
// Can be called multiple times to add multiple context labels
// Primary label must exist before adding secondary labels
func (d *Diagnostic) WithSecondaryLabel(filepath string, loc *source.Location, message string) *Diagnostic {
	if d.Primary() == nil {
		panic("diagnostics: secondary label added before the primary label")
	}

	return d.WithLabel(filepath, loc, message, Secondary)
}

// WithNote adds a note to the diagnostic
func (d *Diagnostic) WithNote(message string) *Diagnostic {
	d.Notes = append(d.Notes, Note{Message: message})
	return d
}

// WithHelp sets helpful suggestion for fixing the error
func (d *Diagnostic) WithHelp(help string) *Diagnostic {
	d.Help = help
	return d
}

// WithFile stamps the originating file path without adding a label
func (d *Diagnostic) WithFile(filepath string) *Diagnostic {
	if d.FilePath == "" {
		d.FilePath = filepath
	}
	return d
}

// Located reports whether the diagnostic already carries a primary label
func (d *Diagnostic) Located() bool {
	return d.Primary() != nil
}

// Primary returns the primary label, or nil when none was attached
func (d *Diagnostic) Primary() *Label {
	for i := range d.Labels {
		if d.Labels[i].Style == Primary {
			return &d.Labels[i]
		}
	}
	return nil
}

// Location returns the position of the primary label
func (d *Diagnostic) Location() *source.Location {
	if p := d.Primary(); p != nil {
		return p.Location
	}
	return nil
}

// Error renders the diagnostic on one line as "file:line:col: error[code]: message".
// Diagnostics travel through the checker as plain error values.
func (d *Diagnostic) Error() string {
	prefix := ""
	if loc := d.Location(); loc != nil && loc.IsValid() {
		file := d.FilePath
		if file == "" {
			file = loc.File()
		}
		prefix = fmt.Sprintf("%s:%d:%d: ", file, loc.Start.Line, loc.Start.Column)
	} else if d.FilePath != "" {
		prefix = d.FilePath + ": "
	}
	code := ""
	if d.Code != "" {
		code = "[" + d.Code + "]"
	}
	return fmt.Sprintf("%s%s%s: %s", prefix, d.Severity, code, d.Message)
}
