package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	executions "cloud.google.com/go/workflows/executions/apiv1"
	"go.uber.org/zap"

	"github.com/Lllllllleong/lawsuitflow/internal/config"
	"github.com/Lllllllleong/lawsuitflow/internal/convert"
	"github.com/Lllllllleong/lawsuitflow/internal/fetch"
	"github.com/Lllllllleong/lawsuitflow/internal/gcp"
	miniostore "github.com/Lllllllleong/lawsuitflow/internal/minio"
	"github.com/Lllllllleong/lawsuitflow/internal/notify"
	"github.com/Lllllllleong/lawsuitflow/internal/packager"
	"github.com/Lllllllleong/lawsuitflow/internal/postgres"
	"github.com/Lllllllleong/lawsuitflow/internal/redisseq"
	"github.com/Lllllllleong/lawsuitflow/internal/registrar"
)

// Backends holds every client the lawsuit functions need, built once per process.
type Backends struct {
	Loader    CaseLoader
	Registrar *registrar.Registrar
	Packager  *packager.Packager
	Blobs     registrar.BlobStore

	closers []func() error
}

// NewBackends connects to the stores selected in cfg. On error, anything already opened is closed.
func NewBackends(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Backends, error) {
	b := &Backends{}
	if err := b.init(ctx, cfg, log); err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Backends) init(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	// --- PostgreSQL: context loader, and default case store and numbering ---
	db, err := postgres.Open(ctx, cfg.Database.Postgres)
	if err != nil {
		return err
	}
	b.closers = append(b.closers, db.Close)
	b.Loader = postgres.NewLoader(db, cfg.LateFees.Policy(), log.Named("loader"))

	// --- Case records ---
	var cases registrar.CaseStore
	switch cfg.CaseStore {
	case config.BackendFirestore:
		fc, err := gcp.NewFirestoreClient(ctx, cfg.Firestore.ProjectID)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, fc.Close)
		cases = gcp.NewCaseStore(fc, cfg.Firestore.Collections)
	default:
		cases = postgres.NewCaseStore(db)
	}

	// --- Case numbers ---
	var numbers registrar.NumberAllocator
	switch cfg.Numbering {
	case config.BackendRedis:
		rdb, err := redisseq.NewClient(ctx, cfg.Database.Redis)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, rdb.Close)
		numbers = redisseq.New(rdb)
	default:
		numbers = postgres.NewNumberAllocator(db)
	}

	// --- Object storage ---
	var (
		objects  fetch.ObjectReader
		basePath string
	)
	switch cfg.Storage.Backend {
	case config.BackendMinio:
		ms, err := miniostore.NewBlobStore(cfg.Storage.Minio, cfg.Storage.Bucket)
		if err != nil {
			return err
		}
		if err := ms.EnsureBucket(ctx); err != nil {
			return err
		}
		b.Blobs, objects, basePath = ms, ms, ms.PublicURL("")
	default:
		sc, err := storage.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("failed to create Storage client: %w", err)
		}
		b.closers = append(b.closers, sc.Close)
		gs := gcp.NewBlobStore(sc, cfg.Storage.Bucket, log.Named("gcs"))
		b.Blobs, objects, basePath = gs, gs, gcp.ObjectURL(cfg.Storage.Bucket, "")
	}

	// --- Post-registration hooks ---
	var hooks []registrar.Hook
	if cfg.Workflow.Enabled() {
		ec, err := executions.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("failed to create Workflows Executions client: %w", err)
		}
		b.closers = append(b.closers, ec.Close)
		hooks = append(hooks, gcp.NewWorkflowTrigger(ec, cfg.Workflow))
	}
	if cfg.Notifications.Enabled() {
		sc, err := notify.NewSNSClient(ctx, cfg.Notifications.Region)
		if err != nil {
			return err
		}
		hooks = append(hooks, notify.NewSNSHook(sc, cfg.Notifications.TopicARN))
	}
	b.Registrar = registrar.New(cases, numbers, b.Blobs, log.Named("registrar"), registrar.WithHooks(hooks...))

	// --- Export ---
	fetcher := fetch.NewClient(cfg.Fetch.Timeout, log.Named("fetch"),
		fetch.WithRetry(cfg.Fetch.MaxRetries, cfg.Fetch.Backoff),
		fetch.WithObjectStore(basePath, objects),
	)
	b.Packager = packager.New(pdfConverter(cfg.Conversion), docxConverter(cfg.Conversion), fetcher, log.Named("packager"))

	log.Info("Backends initialized.",
		zap.String("caseStore", cfg.CaseStore),
		zap.String("numbering", cfg.Numbering),
		zap.String("storage", cfg.Storage.Backend),
		zap.Int("hooks", len(hooks)),
		zap.Bool("pdf", cfg.Conversion.RenderURL != ""),
	)
	return nil
}

func pdfConverter(cfg config.ConversionConfig) convert.PDFConverter {
	if cfg.RenderURL == "" {
		return convert.Disabled{}
	}
	return convert.NewRasterizer(convert.NewHTTPRenderer(cfg.RenderURL, cfg.Timeout), cfg.MaxPages)
}

func docxConverter(cfg config.ConversionConfig) convert.DocxConverter {
	if !cfg.Docx {
		return convert.Disabled{}
	}
	return convert.NewDocxWriter()
}

// Close releases every client in reverse order of creation.
func (b *Backends) Close() error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	b.closers = nil
	return first
}
