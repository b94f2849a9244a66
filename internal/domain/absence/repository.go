package absence

import "context"

// Source fetches leave records from the surrounding application's store.
type Source interface {
	FetchLeaveRecords(ctx context.Context) ([]LeaveRecord, error)
}
