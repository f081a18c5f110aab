package variant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	sj "github.com/bitly/go-simplejson"
)

// MaxDepth bounds the number of path segments a decoder will descend through.
// Recursive payloads (rollup arrays) stay well inside it; adversarial nesting
// fails with a DepthExceededError instead of exhausting the stack.
const MaxDepth = 256

// Parse materializes a JSON document. Numbers are kept as json.Number so no
// precision is lost before a decoder sees them. Invalid UTF-8 and duplicate
// object keys are rejected rather than repaired or collapsed.
func Parse(data []byte) (*sj.Json, error) {
	if !json.Valid(data) {
		return nil, errors.New("invalid JSON document")
	}
	if !utf8.Valid(data) {
		return nil, errors.New("invalid UTF-8 in JSON document")
	}
	if err := checkDuplicateKeys(data); err != nil {
		return nil, err
	}
	doc, err := sj.NewJson(data)
	if err != nil {
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}
	return doc, nil
}

// checkDuplicateKeys walks the token stream of a syntactically valid
// document. Nesting beyond MaxDepth is left to the decoders, which reject it.
func checkDuplicateKeys(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := walkKeys(dec, Root); err != nil && !errors.Is(err, errStopWalk) {
		return err
	}
	return nil
}

var errStopWalk = errors.New("walk stopped at max depth")

func walkKeys(dec *json.Decoder, path Path) error {
	if path.Depth() > MaxDepth {
		return errStopWalk
	}
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}
	switch delim {
	case '{':
		seen := make(map[string]struct{})
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			key, _ := tok.(string)
			if _, dup := seen[key]; dup {
				return fmt.Errorf("duplicate key %q at %s", key, path)
			}
			seen[key] = struct{}{}
			if err := walkKeys(dec, path.Field(key)); err != nil {
				return err
			}
		}
	case '[':
		for i := 0; dec.More(); i++ {
			if err := walkKeys(dec, path.Index(i)); err != nil {
				return err
			}
		}
	}
	_, err = dec.Token()
	return err
}

// Wrap turns an already materialized tree (as produced by encoders in this
// module, or by json.Decoder with UseNumber) into a document.
func Wrap(tree any) *sj.Json {
	doc := sj.New()
	doc.SetPath(nil, tree)
	return doc
}

// Render serializes an encoded tree. Map keys come out sorted and HTML
// characters are not escaped.
func Render(tree any) ([]byte, error) {
	return render(tree, "")
}

// RenderIndent is Render with indentation.
func RenderIndent(tree any, indent string) ([]byte, error) {
	return render(tree, indent)
}

func render(tree any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(tree); err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func checkDepth(path Path) error {
	if path.Depth() > MaxDepth {
		return &DepthExceededError{Path: path, Limit: MaxDepth}
	}
	return nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number, float64, float32, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
