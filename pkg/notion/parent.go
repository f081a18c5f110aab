package notion

import (
	"fmt"

	sj "github.com/bitly/go-simplejson"

	"github.com/devmaxde/notion-client/pkg/variant"
)

// ParentType is the wire tag of a Parent.
type ParentType string

const (
	ParentTypeDatabase  ParentType = "database_id"
	ParentTypePage      ParentType = "page_id"
	ParentTypeWorkspace ParentType = "workspace"
	ParentTypeBlock     ParentType = "block_id"
)

// Parent is the container of a page. It is implemented by DatabaseParent,
// PageParent, WorkspaceParent and BlockParent.
type Parent interface {
	Type() ParentType
	encodeParent() variant.Fields
}

type DatabaseParent struct{ DatabaseID ID }

type PageParent struct{ PageID ID }

// WorkspaceParent marks a top-level page.
type WorkspaceParent struct{}

type BlockParent struct{ BlockID ID }

func (DatabaseParent) Type() ParentType  { return ParentTypeDatabase }
func (PageParent) Type() ParentType      { return ParentTypePage }
func (WorkspaceParent) Type() ParentType { return ParentTypeWorkspace }
func (BlockParent) Type() ParentType     { return ParentTypeBlock }

func (p DatabaseParent) encodeParent() variant.Fields {
	return variant.Fields{"database_id": string(p.DatabaseID)}
}

func (p PageParent) encodeParent() variant.Fields {
	return variant.Fields{"page_id": string(p.PageID)}
}

func (WorkspaceParent) encodeParent() variant.Fields {
	return variant.Fields{"workspace": true}
}

func (p BlockParent) encodeParent() variant.Fields {
	return variant.Fields{"block_id": string(p.BlockID)}
}

var parents = variant.NewTagged[Parent]("parent", "type",
	variant.On(string(ParentTypeDatabase), func(o variant.Object) (Parent, error) {
		id, err := variant.Field(o, "database_id", decodeID)
		return DatabaseParent{DatabaseID: id}, err
	}),
	variant.On(string(ParentTypePage), func(o variant.Object) (Parent, error) {
		id, err := variant.Field(o, "page_id", decodeID)
		return PageParent{PageID: id}, err
	}),
	variant.On(string(ParentTypeWorkspace), func(o variant.Object) (Parent, error) {
		_, err := variant.Field(o, "workspace", variant.True)
		return WorkspaceParent{}, err
	}),
	variant.On(string(ParentTypeBlock), func(o variant.Object) (Parent, error) {
		id, err := variant.Field(o, "block_id", decodeID)
		return BlockParent{BlockID: id}, err
	}),
)

func decodeParent(doc *sj.Json, path variant.Path) (Parent, error) {
	return parents.Decode(doc, path)
}

func encodeParent(p Parent) (any, error) {
	if p == nil {
		return nil, fmt.Errorf("parent is nil")
	}
	return parents.Encode(string(p.Type()), p.encodeParent())
}
