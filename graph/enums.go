package graph

import (
	"errors"

	"gopkg.in/yaml.v3"
)

//*******************************************
// enums
//*******************************************

type Direction byte

const (
	BACKWARD Direction = 0
	FORWARD  Direction = 1
)

type IndexType byte

const (
	// quadtree when it can be built, scan otherwise
	INDEX_AUTO     IndexType = 0
	INDEX_QUADTREE IndexType = 1
	INDEX_SCAN     IndexType = 2
)

func (self IndexType) String() string {
	switch self {
	case INDEX_AUTO:
		return "auto"
	case INDEX_QUADTREE:
		return "quadtree"
	case INDEX_SCAN:
		return "scan"
	default:
		panic("unknown index type")
	}
}
func (self IndexType) MarshalYAML() (any, error) {
	return self.String(), nil
}
func (self *IndexType) UnmarshalYAML(value *yaml.Node) error {
	typ, err := IndexTypeFromString(value.Value)
	if err != nil {
		return err
	}
	*self = typ
	return nil
}

func IndexTypeFromString(s string) (IndexType, error) {
	switch s {
	case "auto", "":
		return INDEX_AUTO, nil
	case "quadtree":
		return INDEX_QUADTREE, nil
	case "scan":
		return INDEX_SCAN, nil
	default:
		return INDEX_AUTO, errors.New("unknown index type")
	}
}
