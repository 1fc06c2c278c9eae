package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/atelier-dev/atelier/internal/cachemanager"
	"github.com/atelier-dev/atelier/internal/services/domain"
	"github.com/atelier-dev/atelier/internal/services/tracing"
)

// ContentsService manages workspace documents. Reads go through a
// read-through cache keyed by document path; writes invalidate the cached
// entry.
type ContentsService struct {
	repo     domain.DocumentRepository
	tracer   trace.Tracer
	cache    *cachemanager.ReadThroughCache[string, *domain.Document, string]
	cacheTTL time.Duration
}

func newContentsService(repo domain.DocumentRepository, tracer trace.Tracer, skipCache bool, ttl time.Duration) *ContentsService {
	manager := cachemanager.NewInMemoryCacheManager[string, *domain.Document](
		"contents", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)

	s := &ContentsService{
		repo:     repo,
		tracer:   tracer,
		cacheTTL: ttl,
	}
	s.cache = cachemanager.NewReadThroughCache[string, *domain.Document, string](
		manager,
		func(ctx context.Context, path string) (*domain.Document, error) {
			return repo.FindByPath(path)
		},
		skipCache,
	)
	return s
}

func contentKey(path string) string { return "doc:" + path }

// Get retrieves a document by workspace path.
// Returns domain.DocumentNotFoundError when no document exists at the path.
func (s *ContentsService) Get(ctx context.Context, path string) (*domain.Document, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixContents+"get",
		trace.WithAttributes(attribute.String(tracing.AttrDocumentPath, path)))
	defer span.End()

	doc, err := s.cache.Get(ctx, contentKey(path), path, s.cacheTTL)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return doc, nil
}

// Create makes a new document at the path and persists it.
func (s *ContentsService) Create(ctx context.Context, path, content string) (*domain.Document, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixContents+"create",
		trace.WithAttributes(attribute.String(tracing.AttrDocumentPath, path)))
	defer span.End()

	doc := domain.NewDocument(path, content)
	if err := s.repo.Save(doc); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	s.invalidate(ctx, path)
	return doc, nil
}

// Save persists a document and marks it clean.
func (s *ContentsService) Save(ctx context.Context, doc *domain.Document) error {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixContents+"save",
		trace.WithAttributes(
			attribute.String(tracing.AttrDocumentPath, doc.Path()),
			attribute.Int64(tracing.AttrDocumentID, doc.ID()),
		))
	defer span.End()

	doc.MarkSaved()
	if err := s.repo.Save(doc); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save document: %w", err)
	}
	s.invalidate(ctx, doc.Path())
	return nil
}

// List retrieves all workspace documents ordered by path.
func (s *ContentsService) List(ctx context.Context) ([]*domain.Document, error) {
	_, span := s.tracer.Start(ctx, tracing.SpanPrefixContents+"list")
	defer span.End()

	docs, err := s.repo.List()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return docs, nil
}

// Delete removes a document by path.
func (s *ContentsService) Delete(ctx context.Context, path string) error {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixContents+"delete",
		trace.WithAttributes(attribute.String(tracing.AttrDocumentPath, path)))
	defer span.End()

	if err := s.repo.Delete(path); err != nil {
		span.RecordError(err)
		return err
	}
	s.invalidate(ctx, path)
	return nil
}

func (s *ContentsService) invalidate(ctx context.Context, path string) {
	_ = s.cache.Invalidate(ctx, contentKey(path))
}
