package notion

import (
	"fmt"

	sj "github.com/bitly/go-simplejson"

	"github.com/devmaxde/notion-client/pkg/variant"
)

// Icon is a page icon: a File (HostedFile or ExternalFile) or an Emoji.
type Icon interface {
	isIcon()
}

// Emoji is an emoji icon.
type Emoji struct {
	Emoji string
}

func (Emoji) isIcon() {}

var decodeEmoji = variant.ObjectOf(func(o variant.Object) (Emoji, error) {
	if err := variant.Const(o, "type", "emoji"); err != nil {
		return Emoji{}, err
	}
	e, err := variant.Field(o, "emoji", variant.String)
	if err != nil {
		return Emoji{}, err
	}
	return Emoji{Emoji: e}, nil
})

// The icon field carries no tag of its own. File shapes are tried before the
// emoji shape; both are self-describing through their inner "type" so the
// order only matters if the two ever overlap.
var icons = variant.NewUntagged("icon",
	variant.Try("file", func(doc *sj.Json, path variant.Path) (Icon, error) {
		return decodeFile(doc, path)
	}),
	variant.Try("emoji", func(doc *sj.Json, path variant.Path) (Icon, error) {
		return decodeEmoji(doc, path)
	}),
)

func decodeIcon(doc *sj.Json, path variant.Path) (Icon, error) {
	return icons.Decode(doc, path)
}

func encodeIcon(icon Icon) (any, error) {
	switch v := icon.(type) {
	case File:
		return encodeFile(v)
	case Emoji:
		return variant.Fields{"type": "emoji", "emoji": v.Emoji}, nil
	default:
		return nil, fmt.Errorf("unsupported icon %T", icon)
	}
}
