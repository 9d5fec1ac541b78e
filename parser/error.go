package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

// ErrorSeverity indicates the severity level of a parse error
type ErrorSeverity string

const (
	SeverityError   ErrorSeverity = "error"   // Phrase cannot be resolved
	SeverityWarning ErrorSeverity = "warning" // Phrase is valid but needs a choice from the caller
	SeverityHint    ErrorSeverity = "hint"    // Suggestions for improvement
)

// ErrorKind categorizes parse errors for programmatic handling
type ErrorKind string

const (
	ErrorKindUnknownRelation ErrorKind = "unknown_relation" // Unrecognised text, bad modifier, bad chain
	ErrorKindAmbiguity       ErrorKind = "ambiguity"        // More than one valid reading
	ErrorKindStepRelation    ErrorKind = "step_relation"    // Relation through marriage
)

// ErrorContext selects how a ParseError renders
type ErrorContext int

const (
	ErrorContextTerminal ErrorContext = iota // Colored, multi-line
	ErrorContextPlain                        // Single line for logs, JSON and web UI
)

// ParseError is a structured parse failure or ambiguity
type ParseError struct {
	Err         error                  `json:"-"`
	Kind        ErrorKind              `json:"kind"`
	Severity    ErrorSeverity          `json:"severity"`
	Message     string                 `json:"message"`
	Phrase      string                 `json:"phrase"`
	Range       *Range                 `json:"range,omitempty"`
	Suggestions []string               `json:"suggestions,omitempty"`
	Context     map[string]interface{} `json:"context,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
}

// Error implements error interface
func (e *ParseError) Error() string {
	return e.FormatError(ErrorContextPlain)
}

// FormatError generates context-appropriate error message
func (e *ParseError) FormatError(ctx ErrorContext) string {
	if ctx == ErrorContextPlain {
		return e.formatPlainError()
	}
	return e.formatTerminalError()
}

func (e *ParseError) formatPlainError() string {
	msg := e.Message
	if e.Range != nil {
		msg += fmt.Sprintf(" (at %d-%d)", e.Range.Start.Character, e.Range.End.Character)
	}
	if len(e.Suggestions) > 0 {
		label := "Suggestions"
		if e.Kind == ErrorKindAmbiguity {
			label = "Did you mean"
		}
		msg += fmt.Sprintf(". %s: %s", label, strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *ParseError) formatTerminalError() string {
	var baseMsg string
	switch e.Severity {
	case SeverityError:
		baseMsg = pterm.Red(e.Message)
	case SeverityWarning:
		baseMsg = pterm.Yellow(e.Message)
	case SeverityHint:
		baseMsg = pterm.LightCyan(e.Message)
	default:
		baseMsg = e.Message
	}

	var sb strings.Builder
	sb.WriteString(baseMsg)

	if e.Phrase != "" {
		sb.WriteString(fmt.Sprintf("\n\n  %s", e.Phrase))
		if e.Range != nil {
			width := e.Range.End.Character - e.Range.Start.Character
			if width < 1 {
				width = 1
			}
			marker := strings.Repeat(" ", e.Range.Start.Character) + strings.Repeat("^", width)
			sb.WriteString(fmt.Sprintf("\n  %s", pterm.Yellow(marker)))
		}
	}

	if len(e.Suggestions) > 0 {
		heading := "Suggestions:"
		if e.Kind == ErrorKindAmbiguity {
			heading = "Did you mean:"
		}
		sb.WriteString(fmt.Sprintf("\n\n%s", pterm.Green(heading)))
		for _, suggestion := range e.Suggestions {
			sb.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return sb.String()
}

// Unwrap for errors.Is/As compatibility
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsAmbiguity reports whether the phrase was valid but ambiguous
func (e *ParseError) IsAmbiguity() bool {
	return e.Kind == ErrorKindAmbiguity
}

// NewParseError creates a new ParseError with the given kind and message
func NewParseError(kind ErrorKind, message string) *ParseError {
	return &ParseError{
		Kind:      kind,
		Severity:  SeverityError,
		Message:   message,
		Context:   make(map[string]interface{}),
		Timestamp: time.Now(),
	}
}

// WithPhrase records the phrase being parsed
func (e *ParseError) WithPhrase(phrase string) *ParseError {
	e.Phrase = phrase
	return e
}

// WithRange sets the span of the offending text
func (e *ParseError) WithRange(r Range) *ParseError {
	e.Range = &r
	return e
}

// WithSeverity sets the error severity
func (e *ParseError) WithSeverity(sev ErrorSeverity) *ParseError {
	e.Severity = sev
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *ParseError) WithSuggestion(suggestion string) *ParseError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds several suggestions in order
func (e *ParseError) WithSuggestions(suggestions ...string) *ParseError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithContext adds debug context metadata
func (e *ParseError) WithContext(key string, value interface{}) *ParseError {
	e.Context[key] = value
	return e
}

// WithUnderlying sets the underlying error
func (e *ParseError) WithUnderlying(err error) *ParseError {
	e.Err = err
	return e
}
