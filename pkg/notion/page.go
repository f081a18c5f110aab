package notion

import (
	"fmt"
	"time"

	sj "github.com/bitly/go-simplejson"

	"github.com/devmaxde/notion-client/pkg/variant"
)

// Page is a Notion page object. Icon and Cover are nil when the page has
// none. CreatedTime and LastEditedTime are in UTC once decoded.
type Page struct {
	ID             ID
	CreatedTime    time.Time
	CreatedBy      User
	LastEditedTime time.Time
	LastEditedBy   User
	Archived       bool
	InTrash        variant.Optional[bool]
	Icon           Icon
	Cover          File
	Properties     Properties
	Parent         Parent
	URL            string
	PublicURL      variant.Optional[string]
}

// Title returns the plain text of the page's title property, or "" when the
// page has none.
func (p Page) Title() string {
	_, t, ok := p.Properties.Title()
	if !ok {
		return ""
	}
	return PlainText(t.Title)
}

func decodePage(doc *sj.Json, path variant.Path) (Page, error) {
	o, err := variant.AsObject(doc, path)
	if err != nil {
		return Page{}, err
	}
	if err := variant.Const(o, "object", "page"); err != nil {
		return Page{}, err
	}

	var p Page
	if p.ID, err = variant.Field(o, "id", decodeID); err != nil {
		return Page{}, err
	}
	if p.CreatedTime, err = variant.Field(o, "created_time", decodeTimestamp); err != nil {
		return Page{}, err
	}
	if p.CreatedBy, err = variant.Field(o, "created_by", decodeUser); err != nil {
		return Page{}, err
	}
	if p.LastEditedTime, err = variant.Field(o, "last_edited_time", decodeTimestamp); err != nil {
		return Page{}, err
	}
	if p.LastEditedBy, err = variant.Field(o, "last_edited_by", decodeUser); err != nil {
		return Page{}, err
	}
	if p.Archived, err = variant.Field(o, "archived", variant.Bool); err != nil {
		return Page{}, err
	}
	if p.InTrash, err = variant.OptionalField(o, "in_trash", variant.Bool); err != nil {
		return Page{}, err
	}

	icon, err := variant.OptionalField(o, "icon", decodeIcon)
	if err != nil {
		return Page{}, err
	}
	p.Icon = icon.Or(nil)
	cover, err := variant.OptionalField(o, "cover", decodeFile)
	if err != nil {
		return Page{}, err
	}
	p.Cover = cover.Or(nil)

	props, err := variant.Field(o, "properties", decodeProperties)
	if err != nil {
		return Page{}, err
	}
	p.Properties = Properties(props)

	if p.Parent, err = variant.Field(o, "parent", decodeParent); err != nil {
		return Page{}, err
	}
	if p.URL, err = variant.Field(o, "url", variant.String); err != nil {
		return Page{}, err
	}
	if p.PublicURL, err = variant.OptionalField(o, "public_url", variant.String); err != nil {
		return Page{}, err
	}
	return p, nil
}

func encodePage(p Page) (any, error) {
	if p.Parent == nil {
		return nil, fmt.Errorf("page %s: parent is required", p.ID)
	}
	f := variant.Fields{
		"object":   "page",
		"id":       string(p.ID),
		"archived": p.Archived,
		"url":      p.URL,
	}

	var err error
	if f["created_time"], err = encodeTimestamp(p.CreatedTime); err != nil {
		return nil, err
	}
	if f["last_edited_time"], err = encodeTimestamp(p.LastEditedTime); err != nil {
		return nil, err
	}
	if f["created_by"], err = encodeUser(p.CreatedBy); err != nil {
		return nil, err
	}
	if f["last_edited_by"], err = encodeUser(p.LastEditedBy); err != nil {
		return nil, err
	}
	if err := variant.SetOptional(f, "in_trash", p.InTrash, variant.EncodeBool); err != nil {
		return nil, err
	}
	if p.Icon != nil {
		if f["icon"], err = encodeIcon(p.Icon); err != nil {
			return nil, fmt.Errorf("icon: %w", err)
		}
	}
	if p.Cover != nil {
		if f["cover"], err = encodeFile(p.Cover); err != nil {
			return nil, fmt.Errorf("cover: %w", err)
		}
	}
	if f["properties"], err = encodeProperties(p.Properties); err != nil {
		return nil, err
	}
	if f["parent"], err = encodeParent(p.Parent); err != nil {
		return nil, err
	}
	if err := variant.SetOptional(f, "public_url", p.PublicURL, variant.EncodeString); err != nil {
		return nil, err
	}
	return f, nil
}

// DecodePage decodes a page object from a materialized document.
func DecodePage(doc *sj.Json) (Page, error) {
	return decodePage(doc, variant.Root)
}

// EncodePage encodes p as a JSON object tree that DecodePage accepts.
func EncodePage(p Page) (variant.Fields, error) {
	v, err := encodePage(p)
	if err != nil {
		return nil, err
	}
	return v.(variant.Fields), nil
}

// ParsePage parses and decodes a page document.
func ParsePage(data []byte) (Page, error) {
	doc, err := variant.Parse(data)
	if err != nil {
		return Page{}, err
	}
	return DecodePage(doc)
}

// MarshalPage renders p as canonical JSON.
func MarshalPage(p Page) ([]byte, error) {
	f, err := EncodePage(p)
	if err != nil {
		return nil, err
	}
	return variant.Render(f)
}

func (p Page) MarshalJSON() ([]byte, error) { return MarshalPage(p) }

func (p *Page) UnmarshalJSON(data []byte) error {
	v, err := ParsePage(data)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePropertyValue parses and decodes a single property value document.
func ParsePropertyValue(data []byte) (PropertyValue, error) {
	doc, err := variant.Parse(data)
	if err != nil {
		return nil, err
	}
	return DecodePropertyValue(doc)
}

// MarshalPropertyValue renders v as canonical JSON.
func MarshalPropertyValue(v PropertyValue) ([]byte, error) {
	f, err := EncodePropertyValue(v)
	if err != nil {
		return nil, err
	}
	return variant.Render(f)
}

func (p Properties) MarshalJSON() ([]byte, error) {
	v, err := encodeProperties(p)
	if err != nil {
		return nil, err
	}
	return variant.Render(v)
}

func (p *Properties) UnmarshalJSON(data []byte) error {
	doc, err := variant.Parse(data)
	if err != nil {
		return err
	}
	m, err := decodeProperties(doc, variant.Root)
	if err != nil {
		return err
	}
	*p = Properties(m)
	return nil
}

// PageList is one page of database query results.
type PageList struct {
	Results    []Page
	NextCursor variant.Optional[string]
	HasMore    bool
}

func decodePageList(doc *sj.Json, path variant.Path) (PageList, error) {
	o, err := variant.AsObject(doc, path)
	if err != nil {
		return PageList{}, err
	}
	if err := variant.Const(o, "object", "list"); err != nil {
		return PageList{}, err
	}
	var l PageList
	if l.Results, err = variant.Field(o, "results", variant.List(decodePage)); err != nil {
		return PageList{}, err
	}
	if l.NextCursor, err = variant.OptionalField(o, "next_cursor", variant.String); err != nil {
		return PageList{}, err
	}
	if l.HasMore, err = variant.Field(o, "has_more", variant.Bool); err != nil {
		return PageList{}, err
	}
	return l, nil
}

// DecodePageList decodes a list envelope of pages.
func DecodePageList(doc *sj.Json) (PageList, error) {
	return decodePageList(doc, variant.Root)
}

// EncodePageList encodes l as a JSON object tree. A missing cursor is
// written as null, the way Notion reports the last page of results.
func EncodePageList(l PageList) (variant.Fields, error) {
	results, err := variant.EncodeList(l.Results, encodePage)
	if err != nil {
		return nil, err
	}
	var cursor any
	if c, ok := l.NextCursor.Get(); ok {
		cursor = c
	}
	return variant.Fields{
		"object":      "list",
		"results":     results,
		"next_cursor": cursor,
		"has_more":    l.HasMore,
	}, nil
}

// ParsePageList parses and decodes a list document.
func ParsePageList(data []byte) (PageList, error) {
	doc, err := variant.Parse(data)
	if err != nil {
		return PageList{}, err
	}
	return DecodePageList(doc)
}

// MarshalPageList renders l as canonical JSON.
func MarshalPageList(l PageList) ([]byte, error) {
	f, err := EncodePageList(l)
	if err != nil {
		return nil, err
	}
	return variant.Render(f)
}
