package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/atelier-dev/atelier/internal/cachemanager"
	"github.com/atelier-dev/atelier/internal/services/domain"
	"github.com/atelier-dev/atelier/internal/services/tracing"
)

// SettingsService stores per-plugin JSON settings. Single-key reads go
// through a read-through cache; writes and removals invalidate it.
type SettingsService struct {
	repo     domain.SettingsRepository
	tracer   trace.Tracer
	cache    *cachemanager.ReadThroughCache[string, json.RawMessage, settingID]
	cacheTTL time.Duration
}

type settingID struct {
	plugin string
	key    string
}

func (id settingID) cacheKey() string { return "setting:" + id.plugin + "/" + id.key }

func newSettingsService(repo domain.SettingsRepository, tracer trace.Tracer, skipCache bool, ttl time.Duration) *SettingsService {
	manager := cachemanager.NewInMemoryCacheManager[string, json.RawMessage](
		"settings", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)

	s := &SettingsService{
		repo:     repo,
		tracer:   tracer,
		cacheTTL: ttl,
	}
	s.cache = cachemanager.NewReadThroughCache[string, json.RawMessage, settingID](
		manager,
		func(ctx context.Context, id settingID) (json.RawMessage, error) {
			return repo.Get(id.plugin, id.key)
		},
		skipCache,
	)
	return s
}

// Set stores the JSON value under plugin and key, replacing any previous
// value.
func (s *SettingsService) Set(ctx context.Context, plugin, key string, value json.RawMessage) error {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixSettings+"set",
		trace.WithAttributes(
			attribute.String(tracing.AttrSettingsPlugin, plugin),
			attribute.String(tracing.AttrSettingsKey, key),
		))
	defer span.End()

	if !json.Valid(value) {
		return fmt.Errorf("invalid JSON value for %s/%s", plugin, key)
	}

	if err := s.repo.Set(plugin, key, value); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to store setting: %w", err)
	}
	_ = s.cache.Invalidate(ctx, settingID{plugin, key}.cacheKey())
	return nil
}

// Get retrieves the JSON value stored under plugin and key.
// Returns domain.SettingNotFoundError when no value is stored.
func (s *SettingsService) Get(ctx context.Context, plugin, key string) (json.RawMessage, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixSettings+"get",
		trace.WithAttributes(
			attribute.String(tracing.AttrSettingsPlugin, plugin),
			attribute.String(tracing.AttrSettingsKey, key),
		))
	defer span.End()

	id := settingID{plugin, key}
	value, err := s.cache.Get(ctx, id.cacheKey(), id, s.cacheTTL)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return value, nil
}

// Plugin retrieves all settings of one plugin keyed by setting key.
// Always reads the store; bulk reads are not cached.
func (s *SettingsService) Plugin(ctx context.Context, plugin string) (map[string]json.RawMessage, error) {
	_, span := s.tracer.Start(ctx, tracing.SpanPrefixSettings+"plugin",
		trace.WithAttributes(attribute.String(tracing.AttrSettingsPlugin, plugin)))
	defer span.End()

	settings, err := s.repo.Plugin(plugin)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return settings, nil
}

// Remove deletes the value stored under plugin and key, if any.
func (s *SettingsService) Remove(ctx context.Context, plugin, key string) error {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixSettings+"remove",
		trace.WithAttributes(
			attribute.String(tracing.AttrSettingsPlugin, plugin),
			attribute.String(tracing.AttrSettingsKey, key),
		))
	defer span.End()

	if err := s.repo.Remove(plugin, key); err != nil {
		span.RecordError(err)
		return err
	}
	_ = s.cache.Invalidate(ctx, settingID{plugin, key}.cacheKey())
	return nil
}
