package notion

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devmaxde/notion-client/pkg/variant"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestParsePage_Fixture(t *testing.T) {
	page, err := ParsePage(readFixture(t, "page.json"))
	require.NoError(t, err)

	assert.Equal(t, ID("59833787-2cf9-4fdf-8782-e53db20768a5"), page.ID)
	assert.Equal(t, time.Date(2022, 3, 1, 19, 5, 0, 0, time.UTC), page.CreatedTime)
	assert.Equal(t, ID("ee5f0f84-409a-440f-983a-a5315961c6e4"), page.CreatedBy.ID)
	assert.False(t, page.Archived)
	assert.Equal(t, variant.Some(false), page.InTrash)
	assert.Equal(t, Emoji{Emoji: "🥬"}, page.Icon)
	assert.Equal(t, ExternalFile{URL: "https://upload.wikimedia.org/wikipedia/commons/6/62/Tuscankale.jpg"}, page.Cover)
	assert.Equal(t, DatabaseParent{DatabaseID: "d9824bdc-8445-4327-be8b-5b47500af6ce"}, page.Parent)
	assert.False(t, page.PublicURL.IsSet())
	assert.Equal(t, "Tuscan kale", page.Title())

	assert.Len(t, page.Properties, 14)
	price, ok := page.Properties.Get("Price")
	require.True(t, ok)
	assert.Equal(t, NumberProperty{ID: "BJXS", Number: mustNumber(t, "2.5")}, price)

	status, _ := page.Properties.Get("Status")
	assert.Equal(t, "In progress", status.(StatusProperty).Status.Name)

	taskID, _ := page.Properties.Get("Task ID")
	assert.Equal(t, "TASK-42", taskID.(UniqueIDProperty).UniqueID.String())

	desc, _ := page.Properties.Get("Description")
	spans := desc.(RichTextProperty).RichText
	require.Len(t, spans, 3)
	assert.Equal(t, "A dark greenRecipes", PlainText(spans))
	assert.Equal(t, Mention{Value: PageMention{ID: "90eeeed8-2cdd-4af4-9cc1-3d24aff5f63c"}}, spans[2].Content)
	assert.Equal(t, TextColor(ColorGreen), spans[1].Annotations.Or(Annotations{}).Color)

	rollup, _ := page.Properties.Get("Number of meals")
	assert.Equal(t, RollupNumber{Function: RollupCount, Number: NumberFromInt(2)}, rollup.(RollupProperty).Rollup)
}

func TestPage_RoundTrip(t *testing.T) {
	page, err := ParsePage(readFixture(t, "page.json"))
	require.NoError(t, err)

	data, err := MarshalPage(page)
	require.NoError(t, err)
	again, err := ParsePage(data)
	require.NoError(t, err)
	assert.Equal(t, page, again)

	second, err := MarshalPage(again)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(second))
}

func TestPage_JSONInterfaces(t *testing.T) {
	var page Page
	require.NoError(t, json.Unmarshal(readFixture(t, "page.json"), &page))
	assert.Equal(t, "Tuscan kale", page.Title())

	data, err := json.Marshal(page)
	require.NoError(t, err)
	var again Page
	require.NoError(t, json.Unmarshal(data, &again))
	assert.Equal(t, page, again)
}

// minimalPage returns the smallest valid page. extra holds further members,
// written as `, "key": value`, that are added or replace the base ones.
func minimalPage(extra string) string {
	fields := map[string]json.RawMessage{
		"object":           json.RawMessage(`"page"`),
		"id":               json.RawMessage(`"p1"`),
		"created_time":     json.RawMessage(`"2024-01-01T00:00:00.000Z"`),
		"last_edited_time": json.RawMessage(`"2024-01-02T00:00:00.000Z"`),
		"created_by":       json.RawMessage(`{"object": "user", "id": "u1"}`),
		"last_edited_by":   json.RawMessage(`{"object": "user", "id": "u1"}`),
		"archived":         json.RawMessage(`true`),
		"parent":           json.RawMessage(`{"type": "workspace", "workspace": true}`),
		"properties":       json.RawMessage(`{}`),
		"url":              json.RawMessage(`"https://www.notion.so/p1"`),
	}
	if extra != "" {
		var overrides map[string]json.RawMessage
		if err := json.Unmarshal([]byte("{"+strings.TrimPrefix(extra, ",")+"}"), &overrides); err != nil {
			panic(err)
		}
		for k, v := range overrides {
			fields[k] = v
		}
	}
	out, err := json.Marshal(fields)
	if err != nil {
		panic(err)
	}
	return string(out)
}

func TestParsePage_OptionalEnvelopeFields(t *testing.T) {
	page, err := ParsePage([]byte(minimalPage(`, "icon": null, "public_url": "https://acme.notion.site/p1"`)))
	require.NoError(t, err)
	assert.Nil(t, page.Icon)
	assert.Nil(t, page.Cover)
	assert.False(t, page.InTrash.IsSet())
	assert.True(t, page.Archived)
	assert.Equal(t, WorkspaceParent{}, page.Parent)
	assert.Equal(t, "https://acme.notion.site/p1", page.PublicURL.Or(""))
	assert.Empty(t, page.Properties)
	assert.Equal(t, "", page.Title())

	f, err := EncodePage(page)
	require.NoError(t, err)
	assert.NotContains(t, f, "icon")
	assert.NotContains(t, f, "cover")
	assert.NotContains(t, f, "in_trash")
	assert.Equal(t, "https://acme.notion.site/p1", f["public_url"])
	assert.Equal(t, variant.Fields{}, f["properties"])
}

func TestParsePage_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target error
		path   string
	}{
		{
			name:   "not a page",
			input:  `{"object":"database","id":"x"}`,
			target: variant.ErrUnknownDiscriminant,
			path:   "$",
		},
		{
			name:   "unknown parent",
			input:  minimalPage(`, "parent": {"type":"team_id","team_id":"t"}`),
			target: variant.ErrUnknownDiscriminant,
			path:   "parent",
		},
		{
			name:   "icon matches no shape",
			input:  minimalPage(`, "icon": {"type":"custom_emoji","custom_emoji":{}}`),
			target: variant.ErrNoMatchingVariant,
			path:   "icon",
		},
		{
			name:   "property error carries the property name",
			input:  minimalPage(`, "properties": {"Due": {"id":"d","type":"date","date":{"start":"tomorrow"}}}`),
			target: variant.ErrNoMatchingVariant,
			path:   `properties["Due"].date.start`,
		},
		{
			name:   "created_time is not an instant",
			input:  minimalPage(`, "created_time": "yesterday"`),
			target: variant.ErrTypeMismatch,
			path:   "created_time",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePage([]byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, tt.path, errorPath(t, err).String())
		})
	}
}

func TestParsePage_RejectsDuplicateFields(t *testing.T) {
	base := minimalPage("")
	dup := strings.Replace(base, `"id":"p1"`, `"id":"p1","id":"p2"`, 1)
	require.NotEqual(t, base, dup)

	_, err := ParsePage([]byte(dup))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate key "id" at $`)

	props := minimalPage(`, "properties": {"A": {"id":"1","type":"checkbox","checkbox":true}}`)
	props = strings.Replace(props, `"A":{"id":"1","type":"checkbox","checkbox":true}`,
		`"A":{"id":"1","type":"checkbox","checkbox":true},"A":{"id":"2","type":"checkbox","checkbox":false}`, 1)
	_, err = ParsePage([]byte(props))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate key "A" at properties`)
}

func TestEncodePage_RequiresParent(t *testing.T) {
	_, err := EncodePage(Page{ID: "p"})
	assert.Error(t, err)
}

func TestParsePageList(t *testing.T) {
	page := string(readFixture(t, "page.json"))
	list, err := ParsePageList([]byte(`{"object":"list","results":[` + page + `,` + minimalPage("") + `],"next_cursor":"c2","has_more":true,"type":"page_or_database","page_or_database":{}}`))
	require.NoError(t, err)
	require.Len(t, list.Results, 2)
	assert.True(t, list.HasMore)
	assert.Equal(t, variant.Some("c2"), list.NextCursor)
	assert.Equal(t, "Tuscan kale", list.Results[0].Title())

	data, err := MarshalPageList(list)
	require.NoError(t, err)
	again, err := ParsePageList(data)
	require.NoError(t, err)
	assert.Equal(t, list, again)

	last, err := ParsePageList([]byte(`{"object":"list","results":[],"next_cursor":null,"has_more":false}`))
	require.NoError(t, err)
	assert.Empty(t, last.Results)
	assert.False(t, last.NextCursor.IsSet())

	f, err := EncodePageList(last)
	require.NoError(t, err)
	assert.Contains(t, f, "next_cursor")
	assert.Nil(t, f["next_cursor"])
}

func TestParsePageList_ErrorPath(t *testing.T) {
	_, err := ParsePageList([]byte(`{"object":"list","results":[` + minimalPage("") + `,` + minimalPage(`, "icon": 7`) + `],"has_more":false}`))
	require.Error(t, err)
	assert.Equal(t, "results[1].icon", errorPath(t, err).String())
}
