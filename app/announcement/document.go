package announcement

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Kind tags the variant held by a Node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field is one member of an object, kept in document order.
type Field struct {
	Key   string
	Value Node
}

// Node is a parsed JSON value. Only the members matching Kind are set.
type Node struct {
	Kind   Kind
	Bool   bool
	Number float64
	Str    string
	Items  []Node
	Fields []Field
}

// Lookup returns the value of the last member named key, as JSON decoders do
// for duplicate keys.
func (n Node) Lookup(key string) (Node, bool) {
	if n.Kind != KindObject {
		return Node{}, false
	}
	for i := len(n.Fields) - 1; i >= 0; i-- {
		if n.Fields[i].Key == key {
			return n.Fields[i].Value, true
		}
	}
	return Node{}, false
}

// Members returns the object's fields with duplicate keys collapsed: each key
// keeps the position of its first occurrence and the value of its last.
func (n Node) Members() []Field {
	if n.Kind != KindObject {
		return nil
	}
	index := make(map[string]int, len(n.Fields))
	members := make([]Field, 0, len(n.Fields))
	for _, f := range n.Fields {
		if i, ok := index[f.Key]; ok {
			members[i].Value = f.Value
			continue
		}
		index[f.Key] = len(members)
		members = append(members, f)
	}
	return members
}

// ParseDocument parses an article body. Object members keep their source order,
// which the flattener depends on.
func ParseDocument(raw string) (Node, error) {
	if !gjson.Valid(raw) {
		return Node{}, ErrMalformedDocument
	}
	return fromResult(gjson.Parse(raw)), nil
}

func fromResult(r gjson.Result) Node {
	switch r.Type {
	case gjson.Null:
		return Node{Kind: KindNull}
	case gjson.False, gjson.True:
		return Node{Kind: KindBool, Bool: r.Bool()}
	case gjson.Number:
		return Node{Kind: KindNumber, Number: r.Num}
	case gjson.String:
		return Node{Kind: KindString, Str: r.Str}
	}

	if r.IsArray() {
		node := Node{Kind: KindArray}
		r.ForEach(func(_, value gjson.Result) bool {
			node.Items = append(node.Items, fromResult(value))
			return true
		})
		return node
	}

	node := Node{Kind: KindObject}
	r.ForEach(func(key, value gjson.Result) bool {
		node.Fields = append(node.Fields, Field{Key: key.Str, Value: fromResult(value)})
		return true
	})
	return node
}
