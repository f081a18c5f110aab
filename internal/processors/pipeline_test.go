package processors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/devmaxde/notion-client/pkg/logger"
	"github.com/devmaxde/notion-client/pkg/tracing"
	"github.com/devmaxde/notion-client/pkg/variant"
)

func pageJSON(id, title string) string {
	return fmt.Sprintf(`{
		"object": "page",
		"id": %q,
		"created_time": "2024-01-01T00:00:00.000Z",
		"last_edited_time": "2024-01-02T00:00:00.000Z",
		"created_by": {"object": "user", "id": "u1"},
		"last_edited_by": {"object": "user", "id": "u1"},
		"archived": false,
		"parent": {"type": "page_id", "page_id": "root"},
		"url": "https://www.notion.so/%s",
		"properties": {
			"Name": {"id": "title", "type": "title", "title": [
				{"type": "text", "text": {"content": %q}, "plain_text": %q}
			]}
		}
	}`, id, id, title, title)
}

func newTestPipeline(t *testing.T, workers int) (*Pipeline, *bytes.Buffer, *tracetest.InMemoryExporter) {
	t.Helper()
	var buf bytes.Buffer
	log := logger.NewLogger(&logger.Config{Level: logger.DebugLevel, Format: logger.JSONFormat, Output: &buf})
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := tracing.NewWithExporter(nil, exporter)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tracer.Stop(context.Background()) })

	p, err := NewPipeline(&PipelineConfig{Workers: workers}, log, tracer)
	require.NoError(t, err)
	return p, &buf, exporter
}

func TestNewPipeline_RejectsZeroWorkers(t *testing.T) {
	_, err := NewPipeline(&PipelineConfig{Workers: 0}, nil, nil)
	assert.Error(t, err)

	p, err := NewPipeline(nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, p.config.Workers)
}

func TestDecodeDocument_PageAndList(t *testing.T) {
	p, _, exporter := newTestPipeline(t, 1)

	r := p.DecodeDocument(context.Background(), Document{Source: "a.json", Data: []byte(pageJSON("a", "Alpha"))})
	require.NoError(t, r.Err)
	assert.True(t, r.OK())
	assert.Equal(t, KindPage, r.Kind)
	require.Len(t, r.Pages, 1)
	assert.Equal(t, "Alpha", r.Pages[0].Title())
	assert.Nil(t, r.List)

	list := `{"object":"list","results":[` + pageJSON("a", "Alpha") + `,` + pageJSON("b", "Beta") + `],"next_cursor":"b","has_more":true}`
	r = p.DecodeDocument(context.Background(), Document{Source: "list.json", Data: []byte(list)})
	require.NoError(t, r.Err)
	assert.Equal(t, KindList, r.Kind)
	require.Len(t, r.Pages, 2)
	require.NotNil(t, r.List)
	assert.True(t, r.List.HasMore)
	assert.Equal(t, "Beta", r.Pages[1].Title())

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "page", attrs["document.kind"].AsString())
	assert.Equal(t, "a", attrs["page.id"].AsString())
	assert.Equal(t, int64(1), attrs["property.count"].AsInt64())
	for _, kv := range spans[1].Attributes {
		assert.NotEqual(t, attribute.Key("page.id"), kv.Key)
	}
}

func TestDecodeDocument_Errors(t *testing.T) {
	p, buf, exporter := newTestPipeline(t, 1)

	r := p.DecodeDocument(context.Background(), Document{Source: "db.json", Data: []byte(`{"object":"database"}`)})
	assert.ErrorIs(t, r.Err, variant.ErrUnknownDiscriminant)

	r = p.DecodeDocument(context.Background(), Document{Source: "junk.json", Data: []byte(`{"object":`)})
	assert.Error(t, r.Err)

	bad := strings.Replace(pageJSON("c", "Gamma"), `"plain_text": "Gamma"`, `"plain_text": 7`, 1)
	r = p.DecodeDocument(context.Background(), Document{Source: "bad.json", Data: []byte(bad)})
	require.ErrorIs(t, r.Err, variant.ErrTypeMismatch)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry logger.LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "bad.json", entry.Fields["source"])
	assert.Equal(t, `properties["Name"].title[0].plain_text`, entry.Fields["path"])
	assert.NotEmpty(t, entry.TraceID)

	spans := exporter.GetSpans()
	require.Len(t, spans, 3)
	assert.Equal(t, "document.decode", spans[2].Name)
}

func TestDecodeDocuments_OrderedResults(t *testing.T) {
	p, _, exporter := newTestPipeline(t, 3)

	var docs []Document
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("p%02d", i)
		data := pageJSON(id, "Title "+id)
		if i%7 == 3 {
			data = `{"object":"page","id":"` + id + `"}`
		}
		docs = append(docs, Document{Source: id + ".json", Data: []byte(data)})
	}

	results, err := p.DecodeDocuments(context.Background(), docs)
	require.Error(t, err)
	assert.ErrorIs(t, err, variant.ErrMissingRequiredField)
	require.Len(t, results, len(docs))

	failed := 0
	for i, r := range results {
		assert.Equal(t, docs[i].Source, r.Source)
		if i%7 == 3 {
			assert.Error(t, r.Err)
			assert.Contains(t, err.Error(), r.Source)
			failed++
			continue
		}
		require.NoError(t, r.Err)
		assert.Equal(t, "Title "+strings.TrimSuffix(r.Source, ".json"), r.Pages[0].Title())
	}
	assert.Equal(t, 3, failed)

	m := p.Metrics()
	assert.Equal(t, int64(20), m.DocumentsDecoded)
	assert.Equal(t, int64(17), m.PagesDecoded)
	assert.Equal(t, int64(3), m.ErrorCount)
	assert.False(t, m.LastProcessedAt.IsZero())

	assert.Len(t, exporter.GetSpans(), 21)
}

func TestDecodeDocuments_AllSucceed(t *testing.T) {
	p, _, _ := newTestPipeline(t, 2)
	results, err := p.DecodeDocuments(context.Background(), []Document{
		{Source: "a", Data: []byte(pageJSON("a", "A"))},
		{Source: "b", Data: []byte(pageJSON("b", "B"))},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "B", results[1].Pages[0].Title())

	results, err = p.DecodeDocuments(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDecodeDocuments_Cancelled(t *testing.T) {
	p, _, _ := newTestPipeline(t, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	docs := []Document{
		{Source: "a", Data: []byte(pageJSON("a", "A"))},
		{Source: "b", Data: []byte(pageJSON("b", "B"))},
	}
	results, err := p.DecodeDocuments(ctx, docs)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
		assert.Empty(t, r.Pages)
	}
	assert.Equal(t, int64(0), p.Metrics().DocumentsDecoded)
}
