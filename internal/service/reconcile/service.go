package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/identity"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/warning"
	absenceSvc "github.com/cmlabs-hris/attendance-ledger-go/internal/service/absence"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/service/file"
	ledgerSvc "github.com/cmlabs-hris/attendance-ledger-go/internal/service/ledger"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/service/parser"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/service/session"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// inlineOrigin names leave records posted with the request.
const inlineOrigin = "request"

// Run carries everything one reconciliation needs, already fetched.
type Run struct {
	ID         string
	Artifacts  []punch.Artifact
	Records    []absence.LeaveRecord
	EmployeeID string
	Month      string // YYYY-MM, empty for all
}

type parseResult struct {
	punches  []punch.Punch
	warnings warning.List
	err      error
}

type ReconcileServiceImpl struct {
	resolver    identity.Resolver
	parsers     map[punch.ArtifactKind]punch.Parser
	expander    *absenceSvc.Expander
	merger      *ledgerSvc.Merger
	absences    absence.Source
	fileService file.FileService
	maxParallel int
}

// NewReconcileService wires the pipeline. absences and fileService may be
// nil: without a source, only leave rows posted with the request are used;
// without a file service, uploads are not archived.
func NewReconcileService(
	resolver identity.Resolver,
	extractor parser.TableExtractor,
	absences absence.Source,
	fileService file.FileService,
	maxParallel int,
) *ReconcileServiceImpl {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &ReconcileServiceImpl{
		resolver: resolver,
		parsers: map[punch.ArtifactKind]punch.Parser{
			punch.KindFlatFile:    parser.NewFlatFileParser(resolver),
			punch.KindTableReport: parser.NewTableReportParser(extractor, resolver),
			punch.KindTimesheet:   parser.NewTimesheetParser(resolver),
		},
		expander:    absenceSvc.NewExpander(resolver),
		merger:      ledgerSvc.NewMerger(resolver),
		absences:    absences,
		fileService: fileService,
		maxParallel: maxParallel,
	}
}

// Reconcile implements ledger.ReconcileService.
func (s *ReconcileServiceImpl) Reconcile(ctx context.Context, req ledger.ReconcileRequest) (ledger.Ledger, error) {
	if err := req.Validate(); err != nil {
		return ledger.Ledger{}, err
	}

	run := Run{
		ID:        uuid.New().String(),
		Artifacts: req.Artifacts,
	}
	if req.EmployeeID != nil {
		run.EmployeeID = *req.EmployeeID
	}
	if req.Month != nil {
		run.Month = *req.Month
	}

	if len(req.Absences) > 0 {
		for i, a := range req.Absences {
			run.Records = append(run.Records, a.ToRecord(inlineOrigin, i+1))
		}
	} else if s.absences != nil {
		records, err := s.absences.FetchLeaveRecords(ctx)
		if err != nil {
			return ledger.Ledger{}, fmt.Errorf("%w: %w", ledger.ErrAbsenceSource, err)
		}
		run.Records = records
	}

	s.archive(ctx, run)

	return s.Execute(ctx, run)
}

func (s *ReconcileServiceImpl) archive(ctx context.Context, run Run) {
	if s.fileService == nil {
		return
	}
	for _, a := range run.Artifacts {
		if _, err := s.fileService.ArchiveArtifact(ctx, run.ID, a); err != nil {
			slog.Warn("failed to archive artifact", "run_id", run.ID, "artifact", a.Name, "error", err)
		}
	}
}

// Execute runs the pipeline over already fetched inputs. Artifacts are
// parsed concurrently and fail in isolation; everything after parsing is
// sequential.
func (s *ReconcileServiceImpl) Execute(ctx context.Context, run Run) (ledger.Ledger, error) {
	started := time.Now()
	out := ledger.Ledger{RunID: run.ID}

	results, err := s.parseAll(ctx, run.Artifacts)
	if err != nil {
		return ledger.Ledger{}, err
	}

	var punches []punch.Punch
	for i, res := range results {
		name := run.Artifacts[i].Name
		out.Warnings = append(out.Warnings, res.warnings...)
		if res.err != nil {
			slog.Warn("artifact skipped", "run_id", run.ID, "artifact", name, "error", res.err)
			out.Skipped = append(out.Skipped, ledger.SkippedArtifact{Artifact: name, Reason: res.err.Error()})
			out.Warnings.Add(warning.CodeArtifactSkipped, name, 0, "%v", res.err)
			continue
		}
		punches = append(punches, res.punches...)
	}

	scope := s.newFilter(run)
	punches = scope.punches(punches)

	deduped, w := session.Deduplicate(punches)
	out.Warnings = append(out.Warnings, w...)

	summaries, w := session.Aggregate(deduped)
	out.Warnings = append(out.Warnings, w...)

	entries, w := s.expander.ExpandAll(run.Records)
	out.Warnings = append(out.Warnings, w...)
	entries = scope.entries(entries)

	rows, w := s.merger.Merge(summaries, entries)
	out.Warnings = append(out.Warnings, w...)

	out.Rows = rows
	out.Rollups = ledgerSvc.Rollups(rows)

	slog.Info("reconciliation finished",
		"run_id", run.ID,
		"artifacts", len(run.Artifacts),
		"skipped", len(out.Skipped),
		"punches", len(deduped),
		"rows", len(out.Rows),
		"warnings", len(out.Warnings),
		"duration", time.Since(started),
	)

	return out, nil
}

func (s *ReconcileServiceImpl) parseAll(ctx context.Context, artifacts []punch.Artifact) ([]parseResult, error) {
	results := make([]parseResult, len(artifacts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)

	for i, a := range artifacts {
		i, a := i, a
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.parseOne(a)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *ReconcileServiceImpl) parseOne(a punch.Artifact) (res parseResult) {
	defer func() {
		if r := recover(); r != nil {
			res = parseResult{err: &punch.ParseError{Artifact: a.Name, Reason: fmt.Sprintf("parser panic: %v", r)}}
		}
	}()

	if len(a.Data) == 0 {
		return parseResult{err: fmt.Errorf("%s: %w", a.Name, punch.ErrEmptyArtifact)}
	}

	kind := a.Kind
	if kind == "" {
		var err error
		if kind, err = punch.KindFromName(a.Name); err != nil {
			return parseResult{err: fmt.Errorf("%s: %w", a.Name, err)}
		}
	}

	p, ok := s.parsers[kind]
	if !ok {
		return parseResult{err: fmt.Errorf("%s: %w %q", a.Name, punch.ErrUnknownArtifactKind, kind)}
	}

	punches, warnings, err := p.Parse(a)
	if err != nil {
		if _, typed := punch.ArtifactOf(err); !typed && !errors.Is(err, punch.ErrEmptyArtifact) {
			err = &punch.ParseError{Artifact: a.Name, Reason: err.Error()}
		}
		return parseResult{warnings: warnings, err: err}
	}
	return parseResult{punches: punches, warnings: warnings}
}

var _ ledger.ReconcileService = (*ReconcileServiceImpl)(nil)
