package variant

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	sj "github.com/bitly/go-simplejson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shape interface{ area() int }

type square struct{ side int }

func (s square) area() int { return s.side * s.side }

type rect struct{ w, h int }

func (r rect) area() int { return r.w * r.h }

func intField(o Object, name string) (int, error) {
	n, err := Field(o, name, Number)
	if err != nil {
		return 0, err
	}
	v, err := n.Int64()
	return int(v), err
}

var shapes = NewTagged[shape]("shape", "type",
	On("square", func(o Object) (shape, error) {
		side, err := intField(o, "side")
		return square{side: side}, err
	}),
	On("rect", func(o Object) (shape, error) {
		w, err := intField(o, "w")
		if err != nil {
			return nil, err
		}
		h, err := intField(o, "h")
		return rect{w: w, h: h}, err
	}),
)

func mustParse(t *testing.T, s string) *sj.Json {
	t.Helper()
	doc, err := Parse([]byte(s))
	require.NoError(t, err)
	return doc
}

func TestTagged_Dispatch(t *testing.T) {
	v, err := shapes.Decode(mustParse(t, `{"type":"square","side":3}`), Root)
	require.NoError(t, err)
	assert.Equal(t, square{side: 3}, v)

	v, err = shapes.Decode(mustParse(t, `{"type":"rect","w":2,"h":5}`), Root)
	require.NoError(t, err)
	assert.Equal(t, rect{w: 2, h: 5}, v)
}

func TestTagged_Errors(t *testing.T) {
	t.Run("unknown tag", func(t *testing.T) {
		_, err := shapes.Decode(mustParse(t, `{"type":"circle","r":1}`), Root.Field("shape"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownDiscriminant)

		var ude *UnknownDiscriminantError
		require.True(t, errors.As(err, &ude))
		assert.Equal(t, "type", ude.Field)
		assert.Equal(t, "circle", ude.Value)
		assert.Equal(t, []string{"square", "rect"}, ude.Known)
		assert.Contains(t, err.Error(), "shape.type")
	})

	t.Run("tag is case sensitive", func(t *testing.T) {
		_, err := shapes.Decode(mustParse(t, `{"type":"Square","side":1}`), Root)
		assert.ErrorIs(t, err, ErrUnknownDiscriminant)
	})

	t.Run("missing discriminant", func(t *testing.T) {
		_, err := shapes.Decode(mustParse(t, `{"side":1}`), Root)
		var mrf *MissingRequiredFieldError
		require.True(t, errors.As(err, &mrf))
		assert.Equal(t, "type", mrf.Field)
	})

	t.Run("missing payload field keeps variant context", func(t *testing.T) {
		_, err := shapes.Decode(mustParse(t, `{"type":"rect","w":2}`), Root.Field("s"))
		assert.ErrorIs(t, err, ErrMissingRequiredField)
		assert.Contains(t, err.Error(), `shape "rect"`)
		assert.Contains(t, err.Error(), `"h"`)
	})

	t.Run("wrong payload type", func(t *testing.T) {
		_, err := shapes.Decode(mustParse(t, `{"type":"square","side":"3"}`), Root)
		var tm *TypeMismatchError
		require.True(t, errors.As(err, &tm))
		assert.Equal(t, "number", tm.Expected)
		assert.Equal(t, "string", tm.Actual)
		assert.Equal(t, "side", tm.Path.String())
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := shapes.Decode(mustParse(t, `[1,2]`), Root)
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})
}

func TestTagged_Encode(t *testing.T) {
	out, err := shapes.Encode("square", Fields{"side": 2})
	require.NoError(t, err)
	assert.Equal(t, Fields{"type": "square", "side": 2}, out)

	_, err = shapes.Encode("circle", Fields{})
	assert.ErrorIs(t, err, ErrUnknownDiscriminant)
}

func TestNewTagged_PanicsOnDuplicateTag(t *testing.T) {
	dec := func(o Object) (int, error) { return 0, nil }
	assert.Panics(t, func() {
		NewTagged[int]("dup", "type", On("a", dec), On("a", dec))
	})
	assert.Panics(t, func() {
		NewTagged[int]("empty", "type", On("", dec))
	})
}

// Both candidates accept any object carrying "name"; the first declared wins.
type labelled struct {
	via  string
	name string
}

func nameCandidate(via string) Decoder[labelled] {
	return ObjectOf(func(o Object) (labelled, error) {
		name, err := Field(o, "name", String)
		return labelled{via: via, name: name}, err
	})
}

func TestUntagged_FirstDeclaredWins(t *testing.T) {
	ab := NewUntagged("labelled", Try("a", nameCandidate("a")), Try("b", nameCandidate("b")))
	ba := NewUntagged("labelled", Try("b", nameCandidate("b")), Try("a", nameCandidate("a")))
	doc := mustParse(t, `{"name":"x"}`)

	for i := 0; i < 20; i++ {
		v, err := ab.Decode(doc, Root)
		require.NoError(t, err)
		assert.Equal(t, "a", v.via)

		v, err = ba.Decode(doc, Root)
		require.NoError(t, err)
		assert.Equal(t, "b", v.via)
	}
	assert.Equal(t, []string{"a", "b"}, ab.Candidates())
}

func TestUntagged_FallsThrough(t *testing.T) {
	strict := ObjectOf(func(o Object) (labelled, error) {
		if err := Const(o, "kind", "strict"); err != nil {
			return labelled{}, err
		}
		return labelled{via: "strict"}, nil
	})
	u := NewUntagged("labelled", Try("strict", strict), Try("loose", nameCandidate("loose")))

	v, err := u.Decode(mustParse(t, `{"name":"n"}`), Root)
	require.NoError(t, err)
	assert.Equal(t, labelled{via: "loose", name: "n"}, v)
}

func TestUntagged_NoMatch(t *testing.T) {
	u := NewUntagged("labelled", Try("a", nameCandidate("a")), Try("b", nameCandidate("b")))
	_, err := u.Decode(mustParse(t, `{"title":"x"}`), Root.Field("icon"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoMatchingVariant)

	var nm *NoMatchingVariantError
	require.True(t, errors.As(err, &nm))
	assert.Equal(t, []string{"a", "b"}, nm.Attempted)
	assert.Len(t, nm.Causes, 2)
	assert.Equal(t, "icon", nm.Path.String())
	assert.True(t, strings.HasPrefix(err.Error(), "no labelled variant matched at icon"))
}

type color string

var colors = NewEnum[color]("color", "red", "green")

func TestEnum(t *testing.T) {
	doc := mustParse(t, `{"color":"green","bad":"magenta","num":1}`)
	o, err := AsObject(doc, Root.Field("select"))
	require.NoError(t, err)

	c, err := Field(o, "color", colors.Decode)
	require.NoError(t, err)
	assert.Equal(t, color("green"), c)

	_, err = Field(o, "bad", colors.Decode)
	var ude *UnknownDiscriminantError
	require.True(t, errors.As(err, &ude))
	assert.Equal(t, "bad", ude.Field)
	assert.Equal(t, "magenta", ude.Value)
	assert.Equal(t, "select", ude.Path.String())

	_, err = Field(o, "num", colors.Decode)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = colors.Encode("blue")
	assert.ErrorIs(t, err, ErrUnknownDiscriminant)

	_, err = colors.Parse("RED")
	assert.ErrorIs(t, err, ErrUnknownDiscriminant)
}

func TestOptionalField(t *testing.T) {
	o, err := AsObject(mustParse(t, `{"a":"x","b":null}`), Root)
	require.NoError(t, err)

	a, err := OptionalField(o, "a", String)
	require.NoError(t, err)
	assert.Equal(t, Some("x"), a)

	b, err := OptionalField(o, "b", String)
	require.NoError(t, err)
	assert.False(t, b.IsSet())

	c, err := OptionalField(o, "c", String)
	require.NoError(t, err)
	assert.False(t, c.IsSet())
	assert.Equal(t, "dflt", c.Or("dflt"))

	_, err = Field(o, "b", String)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestSetOptional_OmitsAbsent(t *testing.T) {
	f := Fields{}
	require.NoError(t, SetOptional(f, "present", Some("v"), EncodeString))
	require.NoError(t, SetOptional(f, "absent", None[string](), EncodeString))

	assert.Equal(t, Fields{"present": "v"}, f)
	_, ok := f["absent"]
	assert.False(t, ok)

	data, err := Render(f)
	require.NoError(t, err)
	assert.Equal(t, `{"present":"v"}`, string(data))
}

func TestList(t *testing.T) {
	strs := List(String)
	v, err := strs(mustParse(t, `["a","b"]`), Root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v)

	v, err = strs(mustParse(t, `[]`), Root)
	require.NoError(t, err)
	assert.NotNil(t, v)
	assert.Empty(t, v)

	_, err = strs(mustParse(t, `["a",2]`), Root.Field("tags"))
	var tm *TypeMismatchError
	require.True(t, errors.As(err, &tm))
	assert.Equal(t, "tags[1]", tm.Path.String())
}

// nest is a recursive tagged value used to exercise the depth bound.
type nest struct{ children []nest }

var nests *Tagged[nest]

func init() {
	nests = NewTagged[nest]("nest", "type", On("nest", func(o Object) (nest, error) {
		kids, err := Field(o, "children", List(nests.Decode))
		return nest{children: kids}, err
	}))
}

func nestedJSON(depth int) string {
	return strings.Repeat(`{"type":"nest","children":[`, depth) + strings.Repeat(`]}`, depth)
}

func TestDepth(t *testing.T) {
	v, err := nests.Decode(mustParse(t, nestedJSON(50)), Root)
	require.NoError(t, err)
	levels := 0
	for len(v.children) > 0 {
		v = v.children[0]
		levels++
	}
	assert.Equal(t, 49, levels)

	_, err = nests.Decode(mustParse(t, nestedJSON(MaxDepth)), Root)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDepthExceeded)
}

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(`{"n":12345678901234567890.000000001}`))
	require.NoError(t, err)
	o, err := AsObject(doc, Root)
	require.NoError(t, err)
	n, err := Field(o, "n", Number)
	require.NoError(t, err)
	assert.Equal(t, "12345678901234567890.000000001", n.String())

	_, err = Parse([]byte(`{"n":1} trailing`))
	assert.Error(t, err)

	_, err = Parse([]byte("{\"s\":\"a\xffb\"}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UTF-8")

	doc, err = Parse([]byte(`{"s":"caf\u00e9 ✓"}`))
	require.NoError(t, err)
	s, err := doc.Get("s").String()
	require.NoError(t, err)
	assert.Equal(t, "café ✓", s)
}

func TestParse_DuplicateKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		err  string
	}{
		{"top level", `{"id":"1","id":"2"}`, `duplicate key "id" at $`},
		{"nested", `{"props":{"A":{"id":"1"},"A":{"id":"2"}}}`, `duplicate key "A" at props`},
		{"inside array", `{"items":[{"k":1},{"k":1,"k":2}]}`, `duplicate key "k" at items[1]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			require.Error(t, err)
			assert.Equal(t, tt.err, err.Error())
		})
	}

	// The same key in sibling objects is fine.
	_, err := Parse([]byte(`{"a":{"id":"1"},"b":{"id":"1"},"c":[{"id":1},{"id":2}]}`))
	assert.NoError(t, err)
}

func TestParse_DeepNestingLeftToDecoders(t *testing.T) {
	in := strings.Repeat(`{"a":`, MaxDepth+10) + `{"x":1,"x":2}` + strings.Repeat(`}`, MaxDepth+10)
	doc, err := Parse([]byte(in))
	require.NoError(t, err)
	assert.NotNil(t, doc)
}

func TestWrap_RoundTripsEncodedTree(t *testing.T) {
	enc, err := shapes.Encode("rect", Fields{"w": json.Number("4"), "h": json.Number("2")})
	require.NoError(t, err)
	v, err := shapes.Decode(Wrap(enc), Root)
	require.NoError(t, err)
	assert.Equal(t, rect{w: 4, h: 2}, v)
}

func TestPathOf(t *testing.T) {
	_, err := shapes.Decode(mustParse(t, `{"type":"rect","w":2,"h":"tall"}`), Root.Field("shapes").Index(1))
	require.Error(t, err)
	path, ok := PathOf(err)
	require.True(t, ok)
	assert.Equal(t, "shapes[1].h", path.String())

	_, ok = PathOf(errors.New("plain"))
	assert.False(t, ok)
}
