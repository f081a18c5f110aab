package notion

import (
	"fmt"
	"sort"
	"time"

	sj "github.com/bitly/go-simplejson"

	"github.com/devmaxde/notion-client/pkg/variant"
)

// PropertyType is the wire tag of a page property value.
type PropertyType string

const (
	PropertyTypeCheckbox       PropertyType = "checkbox"
	PropertyTypeCreatedBy      PropertyType = "created_by"
	PropertyTypeCreatedTime    PropertyType = "created_time"
	PropertyTypeDate           PropertyType = "date"
	PropertyTypeEmail          PropertyType = "email"
	PropertyTypeFiles          PropertyType = "files"
	PropertyTypeFormula        PropertyType = "formula"
	PropertyTypeLastEditedBy   PropertyType = "last_edited_by"
	PropertyTypeLastEditedTime PropertyType = "last_edited_time"
	PropertyTypeMultiSelect    PropertyType = "multi_select"
	PropertyTypeNumber         PropertyType = "number"
	PropertyTypePeople         PropertyType = "people"
	PropertyTypePhoneNumber    PropertyType = "phone_number"
	PropertyTypeRelation       PropertyType = "relation"
	PropertyTypeRollup         PropertyType = "rollup"
	PropertyTypeRichText       PropertyType = "rich_text"
	PropertyTypeSelect         PropertyType = "select"
	PropertyTypeStatus         PropertyType = "status"
	PropertyTypeTitle          PropertyType = "title"
	PropertyTypeURL            PropertyType = "url"
	PropertyTypeUniqueID       PropertyType = "unique_id"
	PropertyTypeVerification   PropertyType = "verification"
)

// PropertyValue is the value of one page property. Every variant carries the
// property's stable ID, which is distinct from its name and survives renames.
type PropertyValue interface {
	PropertyID() string
	Type() PropertyType
	encodePayload() (variant.Fields, error)
}

type CheckboxProperty struct {
	ID       string
	Checkbox bool
}

type CreatedByProperty struct {
	ID        string
	CreatedBy User
}

// CreatedTimeProperty holds the creation instant, in UTC once decoded.
type CreatedTimeProperty struct {
	ID          string
	CreatedTime time.Time
}

type DateProperty struct {
	ID   string
	Date DateValue
}

type EmailProperty struct {
	ID    string
	Email string
}

type FilesProperty struct {
	ID    string
	Files []FileValue
}

type FormulaProperty struct {
	ID      string
	Formula FormulaValue
}

type LastEditedByProperty struct {
	ID           string
	LastEditedBy User
}

// LastEditedTimeProperty holds the last edit instant, in UTC once decoded.
type LastEditedTimeProperty struct {
	ID             string
	LastEditedTime time.Time
}

type MultiSelectProperty struct {
	ID          string
	MultiSelect []SelectOption
}

type NumberProperty struct {
	ID     string
	Number Number
}

type PeopleProperty struct {
	ID     string
	People []User
}

type PhoneNumberProperty struct {
	ID          string
	PhoneNumber string
}

// RelationProperty lists related pages. HasMore is set when Notion truncated
// the list and the rest must be fetched through the property endpoint.
type RelationProperty struct {
	ID       string
	Relation []RelationRef
	HasMore  bool
}

type RollupProperty struct {
	ID     string
	Rollup RollupValue
}

type RichTextProperty struct {
	ID       string
	RichText []RichText
}

type SelectProperty struct {
	ID     string
	Select SelectOption
}

type StatusProperty struct {
	ID     string
	Status SelectOption
}

type TitleProperty struct {
	ID    string
	Title []RichText
}

type URLProperty struct {
	ID  string
	URL string
}

type UniqueIDProperty struct {
	ID       string
	UniqueID UniqueID
}

type VerificationProperty struct {
	ID           string
	Verification Verification
}

func (p CheckboxProperty) PropertyID() string       { return p.ID }
func (p CreatedByProperty) PropertyID() string      { return p.ID }
func (p CreatedTimeProperty) PropertyID() string    { return p.ID }
func (p DateProperty) PropertyID() string           { return p.ID }
func (p EmailProperty) PropertyID() string          { return p.ID }
func (p FilesProperty) PropertyID() string          { return p.ID }
func (p FormulaProperty) PropertyID() string        { return p.ID }
func (p LastEditedByProperty) PropertyID() string   { return p.ID }
func (p LastEditedTimeProperty) PropertyID() string { return p.ID }
func (p MultiSelectProperty) PropertyID() string    { return p.ID }
func (p NumberProperty) PropertyID() string         { return p.ID }
func (p PeopleProperty) PropertyID() string         { return p.ID }
func (p PhoneNumberProperty) PropertyID() string    { return p.ID }
func (p RelationProperty) PropertyID() string       { return p.ID }
func (p RollupProperty) PropertyID() string         { return p.ID }
func (p RichTextProperty) PropertyID() string       { return p.ID }
func (p SelectProperty) PropertyID() string         { return p.ID }
func (p StatusProperty) PropertyID() string         { return p.ID }
func (p TitleProperty) PropertyID() string          { return p.ID }
func (p URLProperty) PropertyID() string            { return p.ID }
func (p UniqueIDProperty) PropertyID() string       { return p.ID }
func (p VerificationProperty) PropertyID() string   { return p.ID }

func (CheckboxProperty) Type() PropertyType       { return PropertyTypeCheckbox }
func (CreatedByProperty) Type() PropertyType      { return PropertyTypeCreatedBy }
func (CreatedTimeProperty) Type() PropertyType    { return PropertyTypeCreatedTime }
func (DateProperty) Type() PropertyType           { return PropertyTypeDate }
func (EmailProperty) Type() PropertyType          { return PropertyTypeEmail }
func (FilesProperty) Type() PropertyType          { return PropertyTypeFiles }
func (FormulaProperty) Type() PropertyType        { return PropertyTypeFormula }
func (LastEditedByProperty) Type() PropertyType   { return PropertyTypeLastEditedBy }
func (LastEditedTimeProperty) Type() PropertyType { return PropertyTypeLastEditedTime }
func (MultiSelectProperty) Type() PropertyType    { return PropertyTypeMultiSelect }
func (NumberProperty) Type() PropertyType         { return PropertyTypeNumber }
func (PeopleProperty) Type() PropertyType         { return PropertyTypePeople }
func (PhoneNumberProperty) Type() PropertyType    { return PropertyTypePhoneNumber }
func (RelationProperty) Type() PropertyType       { return PropertyTypeRelation }
func (RollupProperty) Type() PropertyType         { return PropertyTypeRollup }
func (RichTextProperty) Type() PropertyType       { return PropertyTypeRichText }
func (SelectProperty) Type() PropertyType         { return PropertyTypeSelect }
func (StatusProperty) Type() PropertyType         { return PropertyTypeStatus }
func (TitleProperty) Type() PropertyType          { return PropertyTypeTitle }
func (URLProperty) Type() PropertyType            { return PropertyTypeURL }
func (UniqueIDProperty) Type() PropertyType       { return PropertyTypeUniqueID }
func (VerificationProperty) Type() PropertyType   { return PropertyTypeVerification }

// single builds a payload with one field from an encoded value.
func single[T any](name string, v T, enc variant.Encoder[T]) (variant.Fields, error) {
	out, err := enc(v)
	if err != nil {
		return nil, err
	}
	return variant.Fields{name: out}, nil
}

func list[T any](name string, items []T, enc variant.Encoder[T]) (variant.Fields, error) {
	out, err := variant.EncodeList(items, enc)
	if err != nil {
		return nil, err
	}
	return variant.Fields{name: out}, nil
}

func (p CheckboxProperty) encodePayload() (variant.Fields, error) {
	return variant.Fields{"checkbox": p.Checkbox}, nil
}

func (p CreatedByProperty) encodePayload() (variant.Fields, error) {
	return single("created_by", p.CreatedBy, encodeUser)
}

func (p CreatedTimeProperty) encodePayload() (variant.Fields, error) {
	return single("created_time", p.CreatedTime, encodeTimestamp)
}

func (p DateProperty) encodePayload() (variant.Fields, error) {
	return single("date", p.Date, encodeDateValue)
}

func (p EmailProperty) encodePayload() (variant.Fields, error) {
	return variant.Fields{"email": p.Email}, nil
}

func (p FilesProperty) encodePayload() (variant.Fields, error) {
	return list("files", p.Files, encodeFileValue)
}

func (p FormulaProperty) encodePayload() (variant.Fields, error) {
	return single("formula", p.Formula, encodeFormula)
}

func (p LastEditedByProperty) encodePayload() (variant.Fields, error) {
	return single("last_edited_by", p.LastEditedBy, encodeUser)
}

func (p LastEditedTimeProperty) encodePayload() (variant.Fields, error) {
	return single("last_edited_time", p.LastEditedTime, encodeTimestamp)
}

func (p MultiSelectProperty) encodePayload() (variant.Fields, error) {
	return list("multi_select", p.MultiSelect, encodeSelectOption)
}

func (p NumberProperty) encodePayload() (variant.Fields, error) {
	return single("number", p.Number, encodeNumber)
}

func (p PeopleProperty) encodePayload() (variant.Fields, error) {
	return list("people", p.People, encodeUser)
}

func (p PhoneNumberProperty) encodePayload() (variant.Fields, error) {
	return variant.Fields{"phone_number": p.PhoneNumber}, nil
}

func (p RelationProperty) encodePayload() (variant.Fields, error) {
	f, err := list("relation", p.Relation, encodeRelationRef)
	if err != nil {
		return nil, err
	}
	f["has_more"] = p.HasMore
	return f, nil
}

func (p RollupProperty) encodePayload() (variant.Fields, error) {
	return single("rollup", p.Rollup, encodeRollup)
}

func (p RichTextProperty) encodePayload() (variant.Fields, error) {
	return list("rich_text", p.RichText, encodeRichText)
}

func (p SelectProperty) encodePayload() (variant.Fields, error) {
	return single("select", p.Select, encodeSelectOption)
}

func (p StatusProperty) encodePayload() (variant.Fields, error) {
	return single("status", p.Status, encodeSelectOption)
}

func (p TitleProperty) encodePayload() (variant.Fields, error) {
	return list("title", p.Title, encodeRichText)
}

func (p URLProperty) encodePayload() (variant.Fields, error) {
	return variant.Fields{"url": p.URL}, nil
}

func (p UniqueIDProperty) encodePayload() (variant.Fields, error) {
	return single("unique_id", p.UniqueID, encodeUniqueID)
}

func (p VerificationProperty) encodePayload() (variant.Fields, error) {
	return single("verification", p.Verification, encodeVerification)
}

// payload reads the id shared by every property variant and the variant's
// single payload field, which is named after its wire tag.
func payload[T any](o variant.Object, t PropertyType, dec variant.Decoder[T]) (string, T, error) {
	var zero T
	id, err := variant.Field(o, "id", variant.String)
	if err != nil {
		return "", zero, err
	}
	v, err := variant.Field(o, string(t), dec)
	if err != nil {
		return "", zero, err
	}
	return id, v, nil
}

// property declares the dispatch case for a variant whose payload is a single
// field named after its tag.
func property[T any](t PropertyType, dec variant.Decoder[T], build func(id string, v T) PropertyValue) variant.Case[PropertyValue] {
	return variant.On(string(t), func(o variant.Object) (PropertyValue, error) {
		id, v, err := payload(o, t, dec)
		if err != nil {
			return nil, err
		}
		return build(id, v), nil
	})
}

var properties = variant.NewTagged[PropertyValue]("property", "type",
	property(PropertyTypeCheckbox, variant.Bool, func(id string, v bool) PropertyValue {
		return CheckboxProperty{ID: id, Checkbox: v}
	}),
	property(PropertyTypeCreatedBy, decodeUser, func(id string, v User) PropertyValue {
		return CreatedByProperty{ID: id, CreatedBy: v}
	}),
	property(PropertyTypeCreatedTime, decodeTimestamp, func(id string, v time.Time) PropertyValue {
		return CreatedTimeProperty{ID: id, CreatedTime: v}
	}),
	property(PropertyTypeDate, decodeDateValue, func(id string, v DateValue) PropertyValue {
		return DateProperty{ID: id, Date: v}
	}),
	property(PropertyTypeEmail, variant.String, func(id string, v string) PropertyValue {
		return EmailProperty{ID: id, Email: v}
	}),
	property(PropertyTypeFiles, variant.List(decodeFileValue), func(id string, v []FileValue) PropertyValue {
		return FilesProperty{ID: id, Files: v}
	}),
	property(PropertyTypeFormula, formulas.Decode, func(id string, v FormulaValue) PropertyValue {
		return FormulaProperty{ID: id, Formula: v}
	}),
	property(PropertyTypeLastEditedBy, decodeUser, func(id string, v User) PropertyValue {
		return LastEditedByProperty{ID: id, LastEditedBy: v}
	}),
	property(PropertyTypeLastEditedTime, decodeTimestamp, func(id string, v time.Time) PropertyValue {
		return LastEditedTimeProperty{ID: id, LastEditedTime: v}
	}),
	property(PropertyTypeMultiSelect, variant.List(decodeSelectOption), func(id string, v []SelectOption) PropertyValue {
		return MultiSelectProperty{ID: id, MultiSelect: v}
	}),
	property(PropertyTypeNumber, decodeNumber, func(id string, v Number) PropertyValue {
		return NumberProperty{ID: id, Number: v}
	}),
	property(PropertyTypePeople, variant.List(decodeUser), func(id string, v []User) PropertyValue {
		return PeopleProperty{ID: id, People: v}
	}),
	property(PropertyTypePhoneNumber, variant.String, func(id string, v string) PropertyValue {
		return PhoneNumberProperty{ID: id, PhoneNumber: v}
	}),
	variant.On(string(PropertyTypeRelation), func(o variant.Object) (PropertyValue, error) {
		id, refs, err := payload(o, PropertyTypeRelation, variant.List(decodeRelationRef))
		if err != nil {
			return nil, err
		}
		hasMore, err := variant.Field(o, "has_more", variant.Bool)
		if err != nil {
			return nil, err
		}
		return RelationProperty{ID: id, Relation: refs, HasMore: hasMore}, nil
	}),
	property(PropertyTypeRollup, decodeRollup, func(id string, v RollupValue) PropertyValue {
		return RollupProperty{ID: id, Rollup: v}
	}),
	property(PropertyTypeRichText, variant.List(decodeRichText), func(id string, v []RichText) PropertyValue {
		return RichTextProperty{ID: id, RichText: v}
	}),
	property(PropertyTypeSelect, decodeSelectOption, func(id string, v SelectOption) PropertyValue {
		return SelectProperty{ID: id, Select: v}
	}),
	property(PropertyTypeStatus, decodeSelectOption, func(id string, v SelectOption) PropertyValue {
		return StatusProperty{ID: id, Status: v}
	}),
	property(PropertyTypeTitle, variant.List(decodeRichText), func(id string, v []RichText) PropertyValue {
		return TitleProperty{ID: id, Title: v}
	}),
	property(PropertyTypeURL, variant.String, func(id string, v string) PropertyValue {
		return URLProperty{ID: id, URL: v}
	}),
	property(PropertyTypeUniqueID, decodeUniqueID, func(id string, v UniqueID) PropertyValue {
		return UniqueIDProperty{ID: id, UniqueID: v}
	}),
	property(PropertyTypeVerification, decodeVerification, func(id string, v Verification) PropertyValue {
		return VerificationProperty{ID: id, Verification: v}
	}),
)

// PropertyTypes returns every supported property kind in dispatch order.
func PropertyTypes() []PropertyType {
	tags := properties.Tags()
	out := make([]PropertyType, len(tags))
	for i, t := range tags {
		out[i] = PropertyType(t)
	}
	return out
}

// DecodePropertyValue decodes one property value object.
func DecodePropertyValue(doc *sj.Json) (PropertyValue, error) {
	return decodePropertyValue(doc, variant.Root)
}

func decodePropertyValue(doc *sj.Json, path variant.Path) (PropertyValue, error) {
	return properties.Decode(doc, path)
}

// EncodePropertyValue encodes v as a JSON object tree.
func EncodePropertyValue(v PropertyValue) (variant.Fields, error) {
	if v == nil {
		return nil, fmt.Errorf("property value is nil")
	}
	f, err := v.encodePayload()
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", v.Type(), err)
	}
	f["id"] = v.PropertyID()
	return properties.Encode(string(v.Type()), f)
}

// Properties maps property names to values. Names are unique within a page;
// iteration order carries no meaning.
type Properties map[string]PropertyValue

// Names returns the property names sorted.
func (p Properties) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the value of the named property.
func (p Properties) Get(name string) (PropertyValue, bool) {
	v, ok := p[name]
	return v, ok
}

// ByID returns the property with the given stable ID and its current name.
func (p Properties) ByID(id string) (string, PropertyValue, bool) {
	for _, name := range p.Names() {
		if v := p[name]; v != nil && v.PropertyID() == id {
			return name, v, true
		}
	}
	return "", nil, false
}

// Title returns the name and value of the title property.
func (p Properties) Title() (string, TitleProperty, bool) {
	for _, name := range p.Names() {
		if t, ok := p[name].(TitleProperty); ok {
			return name, t, true
		}
	}
	return "", TitleProperty{}, false
}

var decodeProperties = variant.Map(decodePropertyValue)

func encodeProperties(p Properties) (any, error) {
	out := make(variant.Fields, len(p))
	for _, name := range p.Names() {
		v, err := EncodePropertyValue(p[name])
		if err != nil {
			return nil, fmt.Errorf("properties[%q]: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}
