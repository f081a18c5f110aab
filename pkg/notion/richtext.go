package notion

import (
	"fmt"
	"strings"

	sj "github.com/bitly/go-simplejson"

	"github.com/devmaxde/notion-client/pkg/variant"
)

// RichText is one span of formatted text.
type RichText struct {
	Content     RichTextContent
	PlainText   string
	Href        variant.Optional[string]
	Annotations variant.Optional[Annotations]
}

// Annotations is the styling applied to a span.
type Annotations struct {
	Bold          bool
	Italic        bool
	Strikethrough bool
	Underline     bool
	Code          bool
	Color         TextColor
}

// RichTextType is the wire tag of a span's content.
type RichTextType string

const (
	RichTextTypeText     RichTextType = "text"
	RichTextTypeMention  RichTextType = "mention"
	RichTextTypeEquation RichTextType = "equation"
)

// RichTextContent is implemented by Text, Mention and Equation.
type RichTextContent interface {
	Type() RichTextType
	encodeContent() (any, error)
}

// Text is literal text with an optional link.
type Text struct {
	Content string
	Link    variant.Optional[string]
}

// Equation is an inline KaTeX expression.
type Equation struct {
	Expression string
}

// Mention is an inline reference to another object.
type Mention struct {
	Value MentionValue
}

func (Text) Type() RichTextType     { return RichTextTypeText }
func (Equation) Type() RichTextType { return RichTextTypeEquation }
func (Mention) Type() RichTextType  { return RichTextTypeMention }

func (t Text) encodeContent() (any, error) {
	f := variant.Fields{"content": t.Content}
	err := variant.SetOptional(f, "link", t.Link, func(url string) (any, error) {
		return variant.Fields{"url": url}, nil
	})
	return f, err
}

func (e Equation) encodeContent() (any, error) {
	return variant.Fields{"expression": e.Expression}, nil
}

func (m Mention) encodeContent() (any, error) {
	if m.Value == nil {
		return nil, fmt.Errorf("mention has no value")
	}
	payload, err := m.Value.encodeMention()
	if err != nil {
		return nil, err
	}
	return mentions.Encode(string(m.Value.Type()), variant.Fields{string(m.Value.Type()): payload})
}

// MentionType is the wire tag of a mention.
type MentionType string

const (
	MentionTypeUser            MentionType = "user"
	MentionTypePage            MentionType = "page"
	MentionTypeDatabase        MentionType = "database"
	MentionTypeDate            MentionType = "date"
	MentionTypeLinkPreview     MentionType = "link_preview"
	MentionTypeTemplateMention MentionType = "template_mention"
)

// MentionValue is implemented by UserMention, PageMention, DatabaseMention,
// DateMention, LinkPreviewMention and TemplateMention.
type MentionValue interface {
	Type() MentionType
	encodeMention() (any, error)
}

type UserMention struct{ User User }

type PageMention struct{ ID ID }

type DatabaseMention struct{ ID ID }

type DateMention struct{ Date DateValue }

type LinkPreviewMention struct{ URL string }

// TemplateMention is a placeholder resolved when a template is applied.
// Kind is "template_mention_date" or "template_mention_user"; Value is e.g.
// "today", "now" or "me".
type TemplateMention struct {
	Kind  string
	Value string
}

func (UserMention) Type() MentionType        { return MentionTypeUser }
func (PageMention) Type() MentionType        { return MentionTypePage }
func (DatabaseMention) Type() MentionType    { return MentionTypeDatabase }
func (DateMention) Type() MentionType        { return MentionTypeDate }
func (LinkPreviewMention) Type() MentionType { return MentionTypeLinkPreview }
func (TemplateMention) Type() MentionType    { return MentionTypeTemplateMention }

func (m UserMention) encodeMention() (any, error) { return encodeUser(m.User) }

func (m PageMention) encodeMention() (any, error) {
	return variant.Fields{"id": string(m.ID)}, nil
}

func (m DatabaseMention) encodeMention() (any, error) {
	return variant.Fields{"id": string(m.ID)}, nil
}

func (m DateMention) encodeMention() (any, error) { return encodeDateValue(m.Date) }

func (m LinkPreviewMention) encodeMention() (any, error) {
	return variant.Fields{"url": m.URL}, nil
}

func (m TemplateMention) encodeMention() (any, error) {
	return templateMentions.Encode(m.Kind, variant.Fields{m.Kind: m.Value})
}

var decodeRefID = variant.ObjectOf(func(o variant.Object) (ID, error) {
	return variant.Field(o, "id", decodeID)
})

var templateMentions = variant.NewTagged[MentionValue]("template mention", "type",
	variant.On("template_mention_date", func(o variant.Object) (MentionValue, error) {
		v, err := variant.Field(o, "template_mention_date", variant.String)
		return TemplateMention{Kind: "template_mention_date", Value: v}, err
	}),
	variant.On("template_mention_user", func(o variant.Object) (MentionValue, error) {
		v, err := variant.Field(o, "template_mention_user", variant.String)
		return TemplateMention{Kind: "template_mention_user", Value: v}, err
	}),
)

var mentions = variant.NewTagged[MentionValue]("mention", "type",
	variant.On(string(MentionTypeUser), func(o variant.Object) (MentionValue, error) {
		u, err := variant.Field(o, "user", decodeUser)
		return UserMention{User: u}, err
	}),
	variant.On(string(MentionTypePage), func(o variant.Object) (MentionValue, error) {
		id, err := variant.Field(o, "page", decodeRefID)
		return PageMention{ID: id}, err
	}),
	variant.On(string(MentionTypeDatabase), func(o variant.Object) (MentionValue, error) {
		id, err := variant.Field(o, "database", decodeRefID)
		return DatabaseMention{ID: id}, err
	}),
	variant.On(string(MentionTypeDate), func(o variant.Object) (MentionValue, error) {
		d, err := variant.Field(o, "date", decodeDateValue)
		return DateMention{Date: d}, err
	}),
	variant.On(string(MentionTypeLinkPreview), func(o variant.Object) (MentionValue, error) {
		url, err := variant.Field(o, "link_preview", variant.ObjectOf(func(p variant.Object) (string, error) {
			return variant.Field(p, "url", variant.String)
		}))
		return LinkPreviewMention{URL: url}, err
	}),
	variant.On(string(MentionTypeTemplateMention), func(o variant.Object) (MentionValue, error) {
		return variant.Field(o, "template_mention", templateMentions.Decode)
	}),
)

var richTextContents = variant.NewTagged[RichTextContent]("rich text", "type",
	variant.On(string(RichTextTypeText), func(o variant.Object) (RichTextContent, error) {
		return variant.Field(o, "text", variant.ObjectOf(func(p variant.Object) (RichTextContent, error) {
			content, err := variant.Field(p, "content", variant.String)
			if err != nil {
				return nil, err
			}
			link, err := variant.OptionalField(p, "link", variant.ObjectOf(func(l variant.Object) (string, error) {
				return variant.Field(l, "url", variant.String)
			}))
			if err != nil {
				return nil, err
			}
			return Text{Content: content, Link: link}, nil
		}))
	}),
	variant.On(string(RichTextTypeMention), func(o variant.Object) (RichTextContent, error) {
		v, err := variant.Field(o, "mention", mentions.Decode)
		if err != nil {
			return nil, err
		}
		return Mention{Value: v}, nil
	}),
	variant.On(string(RichTextTypeEquation), func(o variant.Object) (RichTextContent, error) {
		expr, err := variant.Field(o, "equation", variant.ObjectOf(func(p variant.Object) (string, error) {
			return variant.Field(p, "expression", variant.String)
		}))
		return Equation{Expression: expr}, err
	}),
)

var decodeAnnotations = variant.ObjectOf(func(o variant.Object) (Annotations, error) {
	var (
		a   Annotations
		err error
	)
	flags := []struct {
		name string
		dst  *bool
	}{
		{"bold", &a.Bold},
		{"italic", &a.Italic},
		{"strikethrough", &a.Strikethrough},
		{"underline", &a.Underline},
		{"code", &a.Code},
	}
	for _, flag := range flags {
		if *flag.dst, err = variant.Field(o, flag.name, variant.Bool); err != nil {
			return Annotations{}, err
		}
	}
	if a.Color, err = variant.Field(o, "color", textColors.Decode); err != nil {
		return Annotations{}, err
	}
	return a, nil
})

func encodeAnnotations(a Annotations) (any, error) {
	color, err := textColors.Encode(a.Color)
	if err != nil {
		return nil, err
	}
	return variant.Fields{
		"bold":          a.Bold,
		"italic":        a.Italic,
		"strikethrough": a.Strikethrough,
		"underline":     a.Underline,
		"code":          a.Code,
		"color":         color,
	}, nil
}

func decodeRichText(doc *sj.Json, path variant.Path) (RichText, error) {
	o, err := variant.AsObject(doc, path)
	if err != nil {
		return RichText{}, err
	}
	var rt RichText
	if rt.Content, err = richTextContents.DecodeObject(o); err != nil {
		return RichText{}, err
	}
	if rt.PlainText, err = variant.Field(o, "plain_text", variant.String); err != nil {
		return RichText{}, err
	}
	if rt.Href, err = variant.OptionalField(o, "href", variant.String); err != nil {
		return RichText{}, err
	}
	if rt.Annotations, err = variant.OptionalField(o, "annotations", decodeAnnotations); err != nil {
		return RichText{}, err
	}
	return rt, nil
}

func encodeRichText(rt RichText) (any, error) {
	if rt.Content == nil {
		return nil, fmt.Errorf("rich text has no content")
	}
	content, err := rt.Content.encodeContent()
	if err != nil {
		return nil, err
	}
	f, err := richTextContents.Encode(string(rt.Content.Type()), variant.Fields{
		string(rt.Content.Type()): content,
		"plain_text":              rt.PlainText,
	})
	if err != nil {
		return nil, err
	}
	if err := variant.SetOptional(f, "href", rt.Href, variant.EncodeString); err != nil {
		return nil, err
	}
	if err := variant.SetOptional(f, "annotations", rt.Annotations, encodeAnnotations); err != nil {
		return nil, err
	}
	return f, nil
}

// PlainText concatenates the plain text of spans.
func PlainText(spans []RichText) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.PlainText)
	}
	return b.String()
}
