// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine composes public pages. It resolves the header and footer
// templates that apply to a page, concatenates their trees around the page
// tree and renders the result. Published output is cached in memory (L1)
// and, when configured, in Valkey (L2).
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"pagecraft/internal/cache"
	"pagecraft/internal/document"
	"pagecraft/internal/metrics"
	"pagecraft/internal/models"
	"pagecraft/internal/renderer"
	"pagecraft/internal/resolver"
	"pagecraft/internal/slug"
	"pagecraft/internal/transfer"
)

// PageSource looks up published pages.
type PageSource interface {
	FindBySlug(ctx context.Context, slug string) (*models.Page, error)
	FindHomepage(ctx context.Context) (*models.Page, error)
}

// Engine renders pages with their templates. It is safe for concurrent use.
type Engine struct {
	pages    PageSource
	resolver *resolver.Resolver
	renderer *renderer.Renderer

	l1      *outputCache
	l2      *cache.RenderCache
	metrics *metrics.Metrics
	log     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRenderCache enables the Valkey L2 cache.
func WithRenderCache(c *cache.RenderCache) Option {
	return func(e *Engine) { e.l2 = c }
}

// WithMetrics records render timings and cache lookups.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithL1Size bounds the in-memory cache.
func WithL1Size(n int) Option {
	return func(e *Engine) { e.l1 = newOutputCache(n) }
}

// New creates an engine. pages may be nil when only Compose and Render are
// used.
func New(pages PageSource, res *resolver.Resolver, r *renderer.Renderer, opts ...Option) *Engine {
	e := &Engine{pages: pages, resolver: res, renderer: r}
	for _, opt := range opts {
		opt(e)
	}
	if e.l1 == nil {
		e.l1 = newOutputCache(defaultL1Size)
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	return e
}

// fragmentTypes are the template types wrapped around a page, in order.
var fragmentTypes = [2]models.TemplateType{models.TemplateTypeHeader, models.TemplateTypeFooter}

// Compose returns the header tree, content and footer tree for the page at
// pageSlug as one tree. A template lookup failure drops that fragment and
// is logged; the page itself still renders.
func (e *Engine) Compose(ctx context.Context, pageSlug string, content document.Tree) document.Tree {
	pageSlug = slug.Normalize(pageSlug)
	var header, footer document.Tree
	for i, typ := range fragmentTypes {
		t, err := e.resolver.Resolve(ctx, typ, pageSlug)
		if err != nil {
			e.log.Warn("template lookup failed", "type", typ, "slug", pageSlug, "error", err)
			continue
		}
		if t == nil {
			continue
		}
		if i == 0 {
			header = t.Content
		} else {
			footer = t.Content
		}
	}
	return document.Concat(header, content, footer)
}

// Render renders tree in the given mode. Published output goes through the
// caches; previews are always rendered fresh.
func (e *Engine) Render(ctx context.Context, tree document.Tree, mode renderer.Mode) renderer.Output {
	if mode != renderer.ModePublished {
		return e.render(tree, mode)
	}

	key, err := fingerprint(tree, mode)
	if err != nil {
		e.log.Warn("fingerprint tree", "error", err)
		return e.render(tree, mode)
	}

	if hit, ok := e.l1.get(key); ok {
		e.metrics.ObserveCache("l1", true)
		return hit.output()
	}
	e.metrics.ObserveCache("l1", false)

	if e.l2 != nil {
		if raw, ok := e.l2.Get(ctx, key); ok {
			var hit entry
			if err := json.Unmarshal(raw, &hit); err == nil {
				e.metrics.ObserveCache("l2", true)
				e.l1.put(key, hit)
				return hit.output()
			}
			e.log.Warn("decode cached render", "key", key)
		}
		e.metrics.ObserveCache("l2", false)
	}

	out := e.render(tree, mode)
	stored := entry{HTML: out.HTML, CSS: out.CSS, CacheControl: out.CacheControl}
	e.l1.put(key, stored)
	if e.l2 != nil {
		if raw, err := json.Marshal(stored); err == nil {
			e.l2.Set(ctx, key, raw)
		}
	}
	return out
}

func (e *Engine) render(tree document.Tree, mode renderer.Mode) renderer.Output {
	start := time.Now()
	out := e.renderer.Render(tree, renderer.Options{Mode: mode})
	e.metrics.ObserveRender(mode, time.Since(start), out.Skipped)
	return out
}

// RenderPage composes p with its templates and renders it.
func (e *Engine) RenderPage(ctx context.Context, p *models.Page, mode renderer.Mode) renderer.Output {
	return e.Render(ctx, e.Compose(ctx, p.Slug, p.Content), mode)
}

// RenderSlug renders the published page at pageSlug. An empty slug selects
// the homepage. Returns nil if no published page matches.
func (e *Engine) RenderSlug(ctx context.Context, pageSlug string) (*renderer.Output, error) {
	if e.pages == nil {
		return nil, fmt.Errorf("render %q: no page source", pageSlug)
	}
	pageSlug = slug.Normalize(pageSlug)

	var (
		p   *models.Page
		err error
	)
	if pageSlug == "" {
		p, err = e.pages.FindHomepage(ctx)
	} else {
		p, err = e.pages.FindBySlug(ctx, pageSlug)
	}
	if err != nil {
		return nil, fmt.Errorf("load page %q: %w", pageSlug, err)
	}
	if p == nil || !p.IsPublished() {
		return nil, nil
	}
	out := e.RenderPage(ctx, p, renderer.ModePublished)
	return &out, nil
}

// RenderNotFound renders the active 404 template for pageSlug wrapped in
// its header and footer. Returns nil if no 404 template applies.
func (e *Engine) RenderNotFound(ctx context.Context, pageSlug string) (*renderer.Output, error) {
	pageSlug = slug.Normalize(pageSlug)
	t, err := e.resolver.Resolve(ctx, models.TemplateTypeNotFound, pageSlug)
	if err != nil {
		return nil, fmt.Errorf("resolve 404 template: %w", err)
	}
	if t == nil {
		return nil, nil
	}
	out := e.Render(ctx, e.Compose(ctx, pageSlug, t.Content), renderer.ModePublished)
	return &out, nil
}

// InvalidateAll clears both cache levels. Fingerprint keys make this
// optional after edits; it frees memory after bulk changes such as an
// import.
func (e *Engine) InvalidateAll(ctx context.Context) {
	e.l1.invalidateAll()
	if e.l2 != nil {
		e.l2.InvalidateAll(ctx)
	}
}

func (c entry) output() renderer.Output {
	return renderer.Output{HTML: c.HTML, CSS: c.CSS, CacheControl: c.CacheControl}
}

func fingerprint(tree document.Tree, mode renderer.Mode) (string, error) {
	data, err := transfer.MarshalTree(tree)
	if err != nil {
		return "", err
	}
	return cache.Fingerprint([]byte(mode), data), nil
}
