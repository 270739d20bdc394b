package diag

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// Severity is the level at which an error is reported, per the
// specification's error-handling design.
type Severity int

const (
	Info Severity = iota
	Hint
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Hint:
		return "hint"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Span describes a source location; file/line/column information comes
// from the upstream parser's position metadata. It is optional because
// some internal errors (registry corruption) have no source location.
type Span struct {
	File      string `json:"file,omitempty"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
}

// RelatedSpan annotates a secondary location referenced by an error,
// e.g. the original binding site of a linear resource used twice.
type RelatedSpan struct {
	Span       Span   `json:"span"`
	Annotation string `json:"annotation"`
}

// Fix is an auto-fix suggestion: a replacement span/text pair with a
// confidence score in [0,1]. A fix of confidence >= AutoApplyThreshold
// may be applied automatically on request.
type Fix struct {
	Span        Span    `json:"span"`
	Replacement string  `json:"replacement"`
	Confidence  float64 `json:"confidence"`
	// Rationale is a short human-readable reason for the fix, distinct
	// from the report's one-line message.
	Rationale string `json:"rationale,omitempty"`
}

// AutoApplyThreshold is the minimum confidence at which a Fix may be
// applied without further confirmation.
const AutoApplyThreshold = 0.7

// Diff renders the fix as a unified diff against the original source
// line, for presentation in tooling that wants a patch-style view
// rather than a bare replacement string.
func (f *Fix) Diff(original string) (string, error) {
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(f.Replacement),
		FromFile: "before",
		ToFile:   "after",
		Context:  1,
	}
	return difflib.GetUnifiedDiffString(d)
}

// Report is the canonical structured diagnostic type for the core.
type Report struct {
	Schema   string         `json:"schema"` // always "swiftlight.core.diag/v1"
	Code     string         `json:"code"`
	Severity Severity       `json:"-"`
	Phase    string         `json:"phase"`
	Message  string         `json:"message"`
	Span     *Span          `json:"span,omitempty"`
	Related  []RelatedSpan  `json:"related,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Fix      *Fix           `json:"fix,omitempty"`
	DocLink  string         `json:"doc_link,omitempty"`
}

// MarshalJSON includes the severity as its string form since Severity
// itself is not a json.Marshaler.
func (r *Report) MarshalJSON() ([]byte, error) {
	type alias Report
	return json.Marshal(struct {
		*alias
		Severity string `json:"severity"`
	}{alias: (*alias)(r), Severity: r.Severity.String()})
}

// ReportError wraps a Report as an error so it survives errors.As
// unwrapping through ordinary Go error-handling code.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown diagnostic"
	}
	return fmt.Sprintf("%s: %s", e.Rep.Code, e.Rep.Message)
}

// AsReport extracts a *Report from an error chain.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// Wrap wraps a Report as an error.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// New constructs a Report with the schema field pre-filled.
func New(code string, severity Severity, phase, message string) *Report {
	return &Report{
		Schema:   "swiftlight.core.diag/v1",
		Code:     code,
		Severity: severity,
		Phase:    phase,
		Message:  message,
	}
}

// WithSpan attaches a primary source span, returning the receiver for
// chaining (matching the builder style used by every diagnostic call
// site in the solver and resolver).
func (r *Report) WithSpan(s Span) *Report {
	r.Span = &s
	return r
}

// WithRelated appends a related span/annotation pair.
func (r *Report) WithRelated(s Span, annotation string) *Report {
	r.Related = append(r.Related, RelatedSpan{Span: s, Annotation: annotation})
	return r
}

// WithFix attaches an auto-fix suggestion.
func (r *Report) WithFix(f *Fix) *Report {
	r.Fix = f
	return r
}

// WithData attaches structured data, sorted on serialization by
// encoding/json's map key ordering.
func (r *Report) WithData(key string, value any) *Report {
	if r.Data == nil {
		r.Data = make(map[string]any)
	}
	r.Data[key] = value
	return r
}

// ToJSON serializes the report deterministically.
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
