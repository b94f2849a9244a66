package warning

import "fmt"

// Code classifies why a record was skipped or degraded.
type Code string

const (
	CodeMalformedRow       Code = "malformed_row"
	CodeUnresolvedIdentity Code = "unresolved_identity"
	CodeInvalidRange       Code = "invalid_range"
	CodeNoiseSession       Code = "noise_session"
	CodeDuplicatePunch     Code = "duplicate_punch"
	CodeOverlappingAbsence Code = "overlapping_absence"
	CodeArtifactSkipped    Code = "artifact_skipped"
)

// Warning is a row-level or record-level skip reason. Line is 1-based and
// zero when the warning is not tied to a row of an artifact.
type Warning struct {
	Code     Code   `json:"code"`
	Artifact string `json:"artifact,omitempty"`
	Line     int    `json:"line,omitempty"`
	Message  string `json:"message"`
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s [%s:%d] %s", w.Code, w.Artifact, w.Line, w.Message)
	}
	if w.Artifact != "" {
		return fmt.Sprintf("%s [%s] %s", w.Code, w.Artifact, w.Message)
	}
	return fmt.Sprintf("%s %s", w.Code, w.Message)
}

// List accumulates warnings for one pipeline stage.
type List []Warning

func (l *List) Add(code Code, artifact string, line int, format string, args ...any) {
	*l = append(*l, Warning{
		Code:     code,
		Artifact: artifact,
		Line:     line,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Count returns how many warnings carry the given code.
func (l List) Count(code Code) int {
	n := 0
	for _, w := range l {
		if w.Code == code {
			n++
		}
	}
	return n
}
