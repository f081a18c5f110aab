package processors

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	sj "github.com/bitly/go-simplejson"
	"github.com/google/uuid"

	"github.com/devmaxde/notion-client/pkg/logger"
	"github.com/devmaxde/notion-client/pkg/notion"
	"github.com/devmaxde/notion-client/pkg/tracing"
	"github.com/devmaxde/notion-client/pkg/variant"
)

// DocumentKind is the top-level object type of a document.
type DocumentKind string

const (
	KindPage DocumentKind = "page"
	KindList DocumentKind = "list"
)

// Document is one raw input to decode.
type Document struct {
	Source string
	Data   []byte
}

// Result is the outcome of decoding one document. Pages holds the page for
// a page document and the results for a list document.
type Result struct {
	Source   string
	Kind     DocumentKind
	Pages    []notion.Page
	List     *notion.PageList
	Err      error
	Duration time.Duration
}

// OK reports whether the document decoded.
func (r *Result) OK() bool { return r.Err == nil }

// Pipeline decodes independent documents concurrently. Decoding shares no
// state between documents, so results never depend on scheduling.
type Pipeline struct {
	config  *PipelineConfig
	log     *logger.Logger
	tracer  *tracing.TracingService
	metrics *PipelineMetrics
}

// PipelineConfig contains configuration for the decode pipeline
type PipelineConfig struct {
	Workers int
	// Timeout bounds a whole batch; zero means no limit.
	Timeout time.Duration
}

// DefaultPipelineConfig returns the default configuration
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{Workers: 4}
}

// PipelineMetrics tracks decode statistics
type PipelineMetrics struct {
	mu               sync.RWMutex
	DocumentsDecoded int64
	PagesDecoded     int64
	ErrorCount       int64
	TotalDecodeTime  time.Duration
	LastProcessedAt  time.Time
}

// MetricsSnapshot is a copy of the pipeline counters.
type MetricsSnapshot struct {
	DocumentsDecoded int64
	PagesDecoded     int64
	ErrorCount       int64
	AverageDecode    time.Duration
	LastProcessedAt  time.Time
}

// NewPipeline creates a pipeline. Nil arguments fall back to defaults: the
// package default logger and a disabled tracer.
func NewPipeline(config *PipelineConfig, log *logger.Logger, tracer *tracing.TracingService) (*Pipeline, error) {
	if config == nil {
		config = DefaultPipelineConfig()
	}
	if config.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", config.Workers)
	}
	if log == nil {
		log = logger.GetDefault()
	}
	if tracer == nil {
		var err error
		if tracer, err = tracing.NewTracingService(nil); err != nil {
			return nil, err
		}
	}
	return &Pipeline{
		config:  config,
		log:     log.WithField("component", "pipeline"),
		tracer:  tracer,
		metrics: &PipelineMetrics{},
	}, nil
}

// DecodeDocument decodes a page or list document, dispatching on its
// "object" field.
func (p *Pipeline) DecodeDocument(ctx context.Context, doc Document) *Result {
	ctx, span := p.tracer.StartDocumentSpan(ctx, "decode", doc.Source)
	defer span.End()

	start := time.Now()
	result := &Result{Source: doc.Source}
	result.Err = decodeInto(result, doc.Data)
	result.Duration = time.Since(start)
	p.metrics.record(result)

	log := p.log.WithContext(ctx).WithFields(map[string]interface{}{
		"source":      doc.Source,
		"duration_ms": result.Duration.Milliseconds(),
	})
	if result.Err != nil {
		attrs := map[string]interface{}{}
		if path, ok := variant.PathOf(result.Err); ok {
			attrs["error.path"] = path.String()
			log = log.WithField("path", path.String())
		}
		p.tracer.RecordError(span, result.Err, attrs)
		log.WithError(result.Err).Error("document decode failed")
		return result
	}

	attrs := map[string]interface{}{
		"document.kind": string(result.Kind),
		"page.count":    len(result.Pages),
	}
	if result.Kind == KindPage {
		page := result.Pages[0]
		attrs["page.id"] = page.ID.String()
		attrs["property.count"] = len(page.Properties)
		log = log.WithField("page_id", page.ID.String())
	}
	p.tracer.AddSpanAttributes(span, attrs)
	log.WithFields(map[string]interface{}{
		"kind":  string(result.Kind),
		"pages": len(result.Pages),
	}).Debug("document decoded")
	return result
}

var documentKinds = []string{string(KindPage), string(KindList)}

func decodeInto(result *Result, data []byte) error {
	doc, err := variant.Parse(data)
	if err != nil {
		return err
	}
	kind, err := objectKind(doc)
	if err != nil {
		return err
	}
	result.Kind = kind

	switch kind {
	case KindPage:
		page, err := notion.DecodePage(doc)
		if err != nil {
			return err
		}
		result.Pages = []notion.Page{page}
	case KindList:
		list, err := notion.DecodePageList(doc)
		if err != nil {
			return err
		}
		result.List = &list
		result.Pages = list.Results
	}
	return nil
}

func objectKind(doc *sj.Json) (DocumentKind, error) {
	o, err := variant.AsObject(doc, variant.Root)
	if err != nil {
		return "", err
	}
	object, err := variant.Field(o, "object", variant.String)
	if err != nil {
		return "", err
	}
	switch DocumentKind(object) {
	case KindPage, KindList:
		return DocumentKind(object), nil
	}
	return "", &variant.UnknownDiscriminantError{Path: variant.Root, Field: "object", Value: object, Known: documentKinds}
}

// DecodeDocuments decodes docs with at most Workers running at once and
// returns one result per input, in input order. When ctx is cancelled no new
// documents are started and the remaining results carry ctx's error. The
// returned error joins every per-document failure.
func (p *Pipeline) DecodeDocuments(ctx context.Context, docs []Document) ([]*Result, error) {
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	ctx, span := p.tracer.StartBatchSpan(ctx, len(docs), p.config.Workers)
	defer span.End()

	batchID := uuid.NewString()
	log := p.log.WithContext(ctx).WithField("batch_id", batchID)
	log.Info("decoding %d documents with %d workers", len(docs), p.config.Workers)

	results := make([]*Result, len(docs))
	sem := make(chan struct{}, p.config.Workers)
	var wg sync.WaitGroup

	for i, doc := range docs {
		if !acquire(ctx, sem) {
			for j := i; j < len(docs); j++ {
				results[j] = &Result{Source: docs[j].Source, Err: ctx.Err()}
			}
			break
		}

		wg.Add(1)
		go func(idx int, doc Document) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = p.DecodeDocument(ctx, doc)
		}(i, doc)
	}

	wg.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Source, r.Err))
		}
	}
	if len(errs) > 0 {
		err := errors.Join(errs...)
		p.tracer.RecordError(span, err, map[string]interface{}{"batch.failed": len(errs)})
		log.Warn("%d of %d documents failed", len(errs), len(docs))
		return results, err
	}

	log.Info("decoded %d documents", len(docs))
	return results, nil
}

// acquire takes a worker slot, or fails once ctx is done.
func acquire(ctx context.Context, sem chan struct{}) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case sem <- struct{}{}:
		return true
	}
}

// Metrics returns a snapshot of the pipeline counters.
func (p *Pipeline) Metrics() MetricsSnapshot {
	return p.metrics.snapshot()
}

func (m *PipelineMetrics) record(r *Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DocumentsDecoded++
	m.PagesDecoded += int64(len(r.Pages))
	if r.Err != nil {
		m.ErrorCount++
	}
	m.TotalDecodeTime += r.Duration
	m.LastProcessedAt = time.Now()
}

func (m *PipelineMetrics) snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := MetricsSnapshot{
		DocumentsDecoded: m.DocumentsDecoded,
		PagesDecoded:     m.PagesDecoded,
		ErrorCount:       m.ErrorCount,
		LastProcessedAt:  m.LastProcessedAt,
	}
	if m.DocumentsDecoded > 0 {
		s.AverageDecode = m.TotalDecodeTime / time.Duration(m.DocumentsDecoded)
	}
	return s
}
