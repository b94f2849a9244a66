package ledger

import "errors"

var ErrAbsenceSource = errors.New("failed to fetch absence records")
