package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/config"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/identity"
	appHTTP "github.com/cmlabs-hris/attendance-ledger-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/storage"
	aliasfile "github.com/cmlabs-hris/attendance-ledger-go/internal/repository/file"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/repository/sheets"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/service/file"
	identityService "github.com/cmlabs-hris/attendance-ledger-go/internal/service/identity"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/service/parser"
	reconcileService "github.com/cmlabs-hris/attendance-ledger-go/internal/service/reconcile"
	reportService "github.com/cmlabs-hris/attendance-ledger-go/internal/service/report"
	"github.com/go-chi/httplog/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	logger := newLogger(cfg.App)
	slog.SetDefault(logger)

	ctx := context.Background()

	var db *database.DB
	if cfg.NeedsDatabase() {
		db, err = database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			log.Fatal("Error connecting to database: ", err)
		}
		defer db.Close()

		if err := postgresql.Migrate(ctx, db); err != nil {
			log.Fatal("Error migrating database: ", err)
		}
	}

	var identityRepo identity.Repository
	switch cfg.Identity.Source {
	case config.IdentitySourceFile:
		identityRepo = aliasfile.NewAliasRepository(cfg.Identity.AliasFile)
	case config.IdentitySourcePostgres:
		identityRepo = postgresql.NewIdentityRepository(db)
	default:
		log.Fatal(identity.ErrUnknownSource, ": ", cfg.Identity.Source)
	}

	resolver, err := identityService.NewResolverFromRepository(ctx, identityRepo)
	if err != nil {
		log.Fatal("Failed to load identity table: ", err)
	}
	slog.Info("identity table loaded", "source", cfg.Identity.Source, "employees", len(resolver.Employees()))

	var absenceSource absence.Source
	switch cfg.Absence.Source {
	case config.AbsenceSourceNone:
	case config.AbsenceSourcePostgres:
		absenceSource = postgresql.NewAbsenceSource(db)
	case config.AbsenceSourceSheets:
		client, err := oauth.NewServiceAccountClientFromFile(ctx, cfg.Absence.CredentialsFile, oauth.SheetsReadonlyScope)
		if err != nil {
			log.Fatal("Failed to initialize Sheets client: ", err)
		}
		client.Timeout = cfg.Absence.FetchTimeout
		absenceSource, err = sheets.NewAbsenceSource(
			ctx,
			client,
			cfg.Absence.SheetsBaseURL,
			cfg.Absence.SpreadsheetID,
			cfg.Absence.VacationRange,
			cfg.Absence.CompensatoryRange,
		)
		if err != nil {
			log.Fatal("Failed to initialize Sheets absence source: ", err)
		}
	default:
		log.Fatal(absence.ErrUnknownSource, ": ", cfg.Absence.Source)
	}

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			log.Fatal("Failed to initialize local storage: ", err)
		}
	default:
		log.Fatal("Unsupported storage types: ", cfg.Storage.Type)
	}

	fileService := file.NewFileService(fileStorage)

	scheduler := cron.NewScheduler()
	if cfg.Storage.Retention > 0 {
		cron.NewArchiveJobs(fileService, cfg.Storage.Retention).RegisterJobs(scheduler)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	reconcileSvc := reconcileService.NewReconcileService(
		resolver,
		parser.NewPDFExtractor(),
		absenceSource,
		fileService,
		cfg.Reconcile.MaxParallel,
	)

	reportSvc := reportService.NewReportService()

	reconcileHandler := appHTTP.NewReconcileHandler(reconcileSvc, reportSvc, cfg.Reconcile.MaxUploadMB)
	employeeHandler := appHTTP.NewEmployeeHandler(resolver)

	runHandler := appHTTP.NewRunHandler(fileService)

	router := appHTTP.NewRouter(logger, cfg.App.AllowedOrigins, reconcileHandler, employeeHandler, runHandler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server running", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error: ", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func newLogger(app config.AppConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(app.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(app.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-ledger"),
		slog.String("version", "v1.0.0"),
		slog.String("env", app.Env),
	)
}
