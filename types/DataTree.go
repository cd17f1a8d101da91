package types

import (
	"fmt"
	"sort"
	"time"

	"github.com/araddon/dateparse"
)

// DataTreeNode is one node of the hierarchical view of an interface's values.
// A node is either a branch with children or a leaf carrying a value, never
// both. Leaves of datastream interfaces also carry the reception timestamp.
type DataTreeNode struct {
	// Path from the interface root, eg /kitchen/temperature
	Path      string
	Value     any
	Timestamp time.Time
	Children  map[string]*DataTreeNode
}

func (n *DataTreeNode) IsLeaf() bool {
	return n.Children == nil
}

// Leaves returns all leaf nodes below n in path order.
func (n *DataTreeNode) Leaves() []*DataTreeNode {
	if n.IsLeaf() {
		return []*DataTreeNode{n}
	}
	names := make([]string, 0, len(n.Children))
	for name := range n.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	var leaves []*DataTreeNode
	for _, name := range names {
		leaves = append(leaves, n.Children[name].Leaves()...)
	}
	return leaves
}

// FoldInterfaceValues folds the raw value document returned for a device
// interface into a tree keyed by the interface's declared structure.
//
// Properties and individually aggregated datastreams nest maps per path
// segment; a datastream leaf arrives as a {value, timestamp} sample (or a
// list of samples, of which the most recent is kept). Object-aggregated
// datastreams keep the whole object as one leaf per base path.
func FoldInterfaceValues(iface *Interface, raw any) (*DataTreeNode, error) {
	root := &DataTreeNode{Path: ""}
	err := foldValue(iface, root, raw)
	if err != nil {
		return nil, fmt.Errorf("FoldInterfaceValues: interface '%s': %w", iface.Name, err)
	}
	return root, nil
}

func foldValue(iface *Interface, node *DataTreeNode, raw any) error {
	switch v := raw.(type) {
	case map[string]any:
		if sample, ok := asSample(iface, v); ok {
			node.Value = sample.value
			node.Timestamp = sample.timestamp
			return nil
		}
		node.Children = make(map[string]*DataTreeNode, len(v))
		for name, child := range v {
			childNode := &DataTreeNode{Path: node.Path + "/" + name}
			if err := foldValue(iface, childNode, child); err != nil {
				return err
			}
			node.Children[name] = childNode
		}
		return nil
	case []any:
		// a list of datastream samples; keep the most recent
		if len(v) == 0 {
			node.Value = nil
			return nil
		}
		last, ok := v[len(v)-1].(map[string]any)
		if !ok {
			node.Value = v
			return nil
		}
		if sample, ok := asSample(iface, last); ok {
			node.Value = sample.value
			node.Timestamp = sample.timestamp
			return nil
		}
		node.Value = v
		return nil
	default:
		node.Value = raw
		return nil
	}
}

type sample struct {
	value     any
	timestamp time.Time
}

// asSample recognizes a {value, timestamp} datastream sample. For
// object-aggregated datastreams the whole object below the base path is the
// value, keyed under "value" with a shared timestamp.
func asSample(iface *Interface, m map[string]any) (sample, bool) {
	if iface.Type != InterfaceTypeDatastream {
		return sample{}, false
	}
	rawValue, hasValue := m["value"]
	if !hasValue && iface.Aggregation != AggregationObject {
		return sample{}, false
	}
	s := sample{value: rawValue}
	if iface.Aggregation == AggregationObject {
		// object samples carry the member values next to the timestamp
		obj := make(map[string]any, len(m))
		for k, v := range m {
			if k != "timestamp" && k != "reception_timestamp" {
				obj[k] = v
			}
		}
		if len(obj) == 0 {
			return sample{}, false
		}
		s.value = obj
	} else {
		// reject maps with keys besides the sample fields
		for k := range m {
			if k != "value" && k != "timestamp" && k != "reception_timestamp" {
				return sample{}, false
			}
		}
	}
	ts, hasTS := m["timestamp"].(string)
	if !hasTS {
		ts, hasTS = m["reception_timestamp"].(string)
	}
	if hasTS {
		if parsed, err := dateparse.ParseAny(ts); err == nil {
			s.timestamp = parsed
		}
	} else if iface.Aggregation == AggregationObject {
		// without a timestamp a bare object is indistinguishable from a branch
		return sample{}, false
	}
	return s, true
}
