package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/identity"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/warning"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/validator"
	identitySvc "github.com/cmlabs-hris/attendance-ledger-go/internal/service/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeExtractor struct {
	tables [][][]string
	err    error
}

func (f fakeExtractor) ExtractTables(data []byte) ([][][]string, error) {
	return f.tables, f.err
}

type fakeSource struct {
	records []absence.LeaveRecord
	err     error
	calls   int
}

func (f *fakeSource) FetchLeaveRecords(ctx context.Context) ([]absence.LeaveRecord, error) {
	f.calls++
	return f.records, f.err
}

func newTestResolver(t *testing.T) identity.Resolver {
	t.Helper()
	r, err := identitySvc.NewResolver([]identity.Employee{
		{ID: "37", DisplayName: "Alcalde, Eduardo Jorge", Aliases: []string{"Alcalde Eduardo"}},
		{ID: "67", DisplayName: "Arroyo, Ivana"},
	})
	require.NoError(t, err)
	return r
}

func timesheet(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	require.NoError(t, f.SetSheetName("Sheet1", "01 - Alcalde Eduardo"))
	// day 10: 09:00 to 17:30
	for ref, v := range map[string]int{"C20": 9, "D20": 0, "E20": 17, "F20": 30} {
		require.NoError(t, f.SetCellValue("01 - Alcalde Eduardo", ref, v))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func clockFile() []byte {
	return []byte("37 2025-03-10 09:00:00 1 0 0\n" +
		"37 2025-03-10 09:00:20 1 0 0\n" +
		"37 2025-03-10 17:00:00 1 0 0\n" +
		"67 2025-03-13 09:00:00 1 0 0\n")
}

func ptr(s string) *string { return &s }

func TestReconcile_SkipsBadArtifactAndProcessesTheRest(t *testing.T) {
	svc := NewReconcileService(newTestResolver(t), fakeExtractor{}, nil, nil, 2)

	out, err := svc.Reconcile(context.Background(), ledger.ReconcileRequest{
		Artifacts: []punch.Artifact{
			{Name: "clock.txt", Data: clockFile()},
			{Name: "2025-13.xlsx", Data: []byte("irrelevant")},
			{Name: "2025-03.xlsx", Data: timesheet(t)},
		},
		Absences: []absence.LeaveRecordRequest{
			{EmployeeName: "Arroyo, Ivana", Kind: "VACACIONES", StartDate: "2025-03-10", EndDate: "2025-03-12"},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.RunID)

	require.Len(t, out.Skipped, 1)
	assert.Equal(t, "2025-13.xlsx", out.Skipped[0].Artifact)
	assert.Equal(t, 1, out.Warnings.Count(warning.CodeArtifactSkipped))
	assert.Equal(t, 1, out.Warnings.Count(warning.CodeDuplicatePunch))
	assert.Equal(t, 1, out.Warnings.Count(warning.CodeNoiseSession))

	require.Len(t, out.Rows, 4)

	r := out.Rows[0]
	assert.Equal(t, "37", r.EmployeeID)
	assert.InDelta(t, 8, r.ClockHours, 1e-9)
	assert.InDelta(t, 8.5, r.BookHours, 1e-9)
	require.NotNil(t, r.Discrepancy)
	assert.InDelta(t, 0.5, *r.Discrepancy, 1e-9)
	assert.False(t, r.HasOddPunchCount)

	assert.Equal(t, "67", out.Rows[1].EmployeeID)
	assert.Equal(t, absence.KindVacation, out.Rows[1].AbsenceKind)
	assert.Equal(t, "67", out.Rows[2].EmployeeID)
	assert.Equal(t, 8.0, out.Rows[2].AbsenceHours)

	last := out.Rows[3]
	assert.Equal(t, "2025-03-13", last.Date.Format("2006-01-02"))
	assert.True(t, last.HasOddPunchCount)
	assert.Nil(t, last.Discrepancy)

	require.Len(t, out.Rollups, 2)
	assert.Equal(t, 1, out.Rollups[0].DaysWorked)
	assert.Equal(t, 2, out.Rollups[1].AbsenceDays)
	assert.Equal(t, 1, out.Rollups[1].OddPunchDays)
}

func TestReconcile_ArtifactErrorsAreIsolated(t *testing.T) {
	svc := NewReconcileService(newTestResolver(t), fakeExtractor{err: errors.New("broken pdf")}, nil, nil, 1)

	out, err := svc.Reconcile(context.Background(), ledger.ReconcileRequest{
		Artifacts: []punch.Artifact{
			{Name: "report.pdf", Data: []byte("%PDF")},
			{Name: "notes.docx", Data: []byte("x")},
			{Name: "odd.txt", Data: []byte("37 2025-03-10 09:00:00\n")},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Skipped, 3)
	assert.Empty(t, out.Rows)
	assert.Empty(t, out.Rollups)
	assert.Equal(t, 3, out.Warnings.Count(warning.CodeArtifactSkipped))
}

func TestReconcile_UsesConfiguredSourceWhenNoInlineAbsences(t *testing.T) {
	src := &fakeSource{records: []absence.LeaveRecord{
		{EmployeeName: "Alcalde Eduardo", Kind: absence.KindCompensatory, StartDate: "2025-04-02", EndDate: "2025-04-02", StartTime: "09:00", EndTime: "11:30", Origin: "Compensados", Row: 2},
	}}
	svc := NewReconcileService(newTestResolver(t), fakeExtractor{}, src, nil, 4)

	out, err := svc.Reconcile(context.Background(), ledger.ReconcileRequest{
		Artifacts: []punch.Artifact{{Name: "clock.txt", Data: clockFile()}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)

	var found bool
	for _, r := range out.Rows {
		if r.EmployeeID == "37" && r.Date.Format("2006-01-02") == "2025-04-02" {
			found = true
			assert.InDelta(t, 2.5, r.AbsenceHours, 1e-9)
			assert.Equal(t, absence.KindCompensatory, r.AbsenceKind)
		}
	}
	assert.True(t, found)
}

func TestReconcile_InlineAbsencesBypassSource(t *testing.T) {
	src := &fakeSource{}
	svc := NewReconcileService(newTestResolver(t), fakeExtractor{}, src, nil, 1)

	_, err := svc.Reconcile(context.Background(), ledger.ReconcileRequest{
		Artifacts: []punch.Artifact{{Name: "clock.txt", Data: clockFile()}},
		Absences: []absence.LeaveRecordRequest{
			{EmployeeName: "Arroyo, Ivana", Kind: "VACATION", StartDate: "2025-03-10", EndDate: "2025-03-11"},
		},
	})
	require.NoError(t, err)
	assert.Zero(t, src.calls)
}

func TestReconcile_AbsenceSourceFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("sheets unavailable")}
	svc := NewReconcileService(newTestResolver(t), fakeExtractor{}, src, nil, 1)

	_, err := svc.Reconcile(context.Background(), ledger.ReconcileRequest{
		Artifacts: []punch.Artifact{{Name: "clock.txt", Data: clockFile()}},
	})
	assert.ErrorIs(t, err, ledger.ErrAbsenceSource)
}

func TestReconcile_Filter(t *testing.T) {
	svc := NewReconcileService(newTestResolver(t), fakeExtractor{}, nil, nil, 1)
	artifacts := []punch.Artifact{{Name: "clock.txt", Data: clockFile()}}

	out, err := svc.Reconcile(context.Background(), ledger.ReconcileRequest{
		Artifacts:  artifacts,
		EmployeeID: ptr("arroyo, ivana"),
	})
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "67", out.Rows[0].EmployeeID)

	out, err = svc.Reconcile(context.Background(), ledger.ReconcileRequest{
		Artifacts: artifacts,
		Month:     ptr("2025-04"),
	})
	require.NoError(t, err)
	assert.Empty(t, out.Rows)
}

func TestReconcile_ValidationError(t *testing.T) {
	svc := NewReconcileService(newTestResolver(t), fakeExtractor{}, nil, nil, 1)

	_, err := svc.Reconcile(context.Background(), ledger.ReconcileRequest{Month: ptr("March")})

	var ve validator.ValidationErrors
	require.ErrorAs(t, err, &ve)
	fields := ve.ToMap()
	assert.Contains(t, fields, "artifacts")
	assert.Contains(t, fields, "month")
}

func TestReconcile_CancelledContext(t *testing.T) {
	svc := NewReconcileService(newTestResolver(t), fakeExtractor{}, nil, nil, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Reconcile(ctx, ledger.ReconcileRequest{
		Artifacts: []punch.Artifact{{Name: "clock.txt", Data: clockFile()}},
	})
	assert.ErrorIs(t, err, context.Canceled)
}
