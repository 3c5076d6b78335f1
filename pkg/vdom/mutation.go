package vdom

import (
	"encoding/json"
	"fmt"
)

// MutationOp identifies one primitive applier operation.
type MutationOp uint8

const (
	OpPushRoot MutationOp = iota + 1
	OpCreateElement
	OpCreateTextNode
	OpCreatePlaceholder
	OpSetText
	OpSetAttribute
	OpRemoveAttribute
	OpNewEventListener
	OpRemoveEventListener
	OpAppendChildren
	OpInsertBefore
	OpInsertAfter
	OpReplaceWith
	OpRemove
	OpAssignID
	OpReplacePlaceholder
	OpHydrateText
	OpLoadTemplate
)

var mutationOpNames = map[MutationOp]string{
	OpPushRoot:            "PushRoot",
	OpCreateElement:       "CreateElement",
	OpCreateTextNode:      "CreateTextNode",
	OpCreatePlaceholder:   "CreatePlaceholder",
	OpSetText:             "SetText",
	OpSetAttribute:        "SetAttribute",
	OpRemoveAttribute:     "RemoveAttribute",
	OpNewEventListener:    "NewEventListener",
	OpRemoveEventListener: "RemoveEventListener",
	OpAppendChildren:      "AppendChildren",
	OpInsertBefore:        "InsertBefore",
	OpInsertAfter:         "InsertAfter",
	OpReplaceWith:         "ReplaceWith",
	OpRemove:              "Remove",
	OpAssignID:            "AssignId",
	OpReplacePlaceholder:  "ReplacePlaceholder",
	OpHydrateText:         "HydrateText",
	OpLoadTemplate:        "LoadTemplate",
}

var mutationOpValues = func() map[string]MutationOp {
	m := make(map[string]MutationOp, len(mutationOpNames))
	for op, name := range mutationOpNames {
		m[name] = op
	}
	return m
}()

// String returns the stable wire name of the op.
func (op MutationOp) String() string {
	if name, ok := mutationOpNames[op]; ok {
		return name
	}
	return fmt.Sprintf("MutationOp(%d)", uint8(op))
}

// MarshalJSON encodes the op by its stable name.
func (op MutationOp) MarshalJSON() ([]byte, error) {
	name, ok := mutationOpNames[op]
	if !ok {
		return nil, fmt.Errorf("unknown mutation op %d", uint8(op))
	}
	return json.Marshal(name)
}

// UnmarshalJSON decodes the op from its stable name.
func (op *MutationOp) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, ok := mutationOpValues[name]
	if !ok {
		return fmt.Errorf("unknown mutation op %q", name)
	}
	*op = v
	return nil
}

// Mutation is one primitive operation the applier performs on the real
// display tree. Field names are stable for cross-process appliers;
// id 0 designates the mount container. Only the fields of the active
// op are meaningful.
type Mutation struct {
	Op MutationOp `json:"op"`

	ID          uint64 `json:"id,omitempty"`
	ReferenceID uint64 `json:"reference_id,omitempty"`

	Tag   string `json:"tag,omitempty"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
	Text  string `json:"text,omitempty"`
	NS    string `json:"ns,omitempty"`

	Children []uint64 `json:"children,omitempty"`
	Path     []byte   `json:"path,omitempty"`
	Index    int      `json:"index,omitempty"`
}

// String returns a compact debug form of the record.
func (m Mutation) String() string {
	switch m.Op {
	case OpCreateElement:
		return fmt.Sprintf("CreateElement{%s, id=%d}", m.Tag, m.ID)
	case OpCreateTextNode:
		return fmt.Sprintf("CreateTextNode{%q, id=%d}", m.Text, m.ID)
	case OpSetText:
		return fmt.Sprintf("SetText{%q, id=%d}", m.Value, m.ID)
	case OpSetAttribute:
		return fmt.Sprintf("SetAttribute{%s=%q, id=%d}", m.Name, m.Value, m.ID)
	case OpRemoveAttribute:
		return fmt.Sprintf("RemoveAttribute{%s, id=%d}", m.Name, m.ID)
	case OpNewEventListener:
		return fmt.Sprintf("NewEventListener{%s, id=%d}", m.Name, m.ID)
	case OpRemoveEventListener:
		return fmt.Sprintf("RemoveEventListener{%s, id=%d}", m.Name, m.ID)
	case OpAppendChildren:
		return fmt.Sprintf("AppendChildren{id=%d, %v}", m.ID, m.Children)
	case OpInsertBefore:
		return fmt.Sprintf("InsertBefore{ref=%d, %v}", m.ReferenceID, m.Children)
	case OpInsertAfter:
		return fmt.Sprintf("InsertAfter{ref=%d, %v}", m.ReferenceID, m.Children)
	case OpReplaceWith:
		return fmt.Sprintf("ReplaceWith{id=%d, %v}", m.ID, m.Children)
	case OpRemove:
		return fmt.Sprintf("Remove{id=%d}", m.ID)
	default:
		return fmt.Sprintf("%s{id=%d}", m.Op, m.ID)
	}
}
