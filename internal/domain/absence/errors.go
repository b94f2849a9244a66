package absence

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownKind   = errors.New("unknown absence kind")
	ErrUnknownSource = errors.New("unknown absence source")
	ErrBadDate       = errors.New("unparseable absence date")
	ErrBadTime       = errors.New("unparseable absence time")
)

// InvalidRangeError means a leave record ends before it starts.
type InvalidRangeError struct {
	Artifact string
	Row      int
	Start    string
	End      string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("%s row %d: end %s precedes start %s", e.Artifact, e.Row, e.End, e.Start)
}
