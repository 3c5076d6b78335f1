package protocol

import (
	"github.com/krishpranav/nexa/internal/errors"
	"github.com/krishpranav/nexa/pkg/vdom"
)

// EncodeMutations appends a mutation batch to e: a count followed by
// one record per mutation. Per record: opcode byte, then the fields of
// that op in declaration order.
func EncodeMutations(e *Encoder, batch []vdom.Mutation) {
	e.PutUvarint(uint64(len(batch)))
	for _, m := range batch {
		e.PutByte(byte(m.Op))
		switch m.Op {
		case vdom.OpPushRoot, vdom.OpCreatePlaceholder, vdom.OpRemove:
			e.PutUvarint(m.ID)
		case vdom.OpCreateElement:
			e.PutString(m.Tag)
			e.PutUvarint(m.ID)
		case vdom.OpCreateTextNode:
			e.PutString(m.Text)
			e.PutUvarint(m.ID)
		case vdom.OpSetText:
			e.PutString(m.Value)
			e.PutUvarint(m.ID)
		case vdom.OpSetAttribute:
			e.PutString(m.Name)
			e.PutString(m.Value)
			e.PutUvarint(m.ID)
			e.PutString(m.NS)
		case vdom.OpRemoveAttribute:
			e.PutString(m.Name)
			e.PutUvarint(m.ID)
			e.PutString(m.NS)
		case vdom.OpNewEventListener, vdom.OpRemoveEventListener:
			e.PutString(m.Name)
			e.PutUvarint(m.ID)
		case vdom.OpAppendChildren, vdom.OpReplaceWith:
			e.PutUvarint(m.ID)
			putIDList(e, m.Children)
		case vdom.OpInsertBefore, vdom.OpInsertAfter:
			e.PutUvarint(m.ReferenceID)
			putIDList(e, m.Children)
		case vdom.OpAssignID:
			e.PutBytes(m.Path)
			e.PutUvarint(m.ID)
		case vdom.OpReplacePlaceholder:
			e.PutBytes(m.Path)
			putIDList(e, m.Children)
		case vdom.OpHydrateText:
			e.PutBytes(m.Path)
			e.PutString(m.Value)
			e.PutUvarint(m.ID)
		case vdom.OpLoadTemplate:
			e.PutString(m.Name)
			e.PutUvarint(uint64(m.Index))
			e.PutUvarint(m.ID)
		}
	}
}

// DecodeMutations reads a mutation batch previously written by
// EncodeMutations.
func DecodeMutations(d *Decoder) ([]vdom.Mutation, error) {
	count, err := d.Count()
	if err != nil {
		return nil, errors.New("E100").Wrap(err)
	}
	batch := make([]vdom.Mutation, 0, count)
	for i := 0; i < count; i++ {
		op, err := d.Byte()
		if err != nil {
			return nil, errors.New("E100").Wrap(err)
		}
		m := vdom.Mutation{Op: vdom.MutationOp(op)}
		switch m.Op {
		case vdom.OpPushRoot, vdom.OpCreatePlaceholder, vdom.OpRemove:
			m.ID, err = d.Uvarint()
		case vdom.OpCreateElement:
			m.Tag, m.ID, err = stringThenID(d)
		case vdom.OpCreateTextNode:
			m.Text, m.ID, err = stringThenID(d)
		case vdom.OpSetText:
			m.Value, m.ID, err = stringThenID(d)
		case vdom.OpSetAttribute:
			if m.Name, err = d.String(); err == nil {
				if m.Value, err = d.String(); err == nil {
					if m.ID, err = d.Uvarint(); err == nil {
						m.NS, err = d.String()
					}
				}
			}
		case vdom.OpRemoveAttribute:
			if m.Name, m.ID, err = stringThenID(d); err == nil {
				m.NS, err = d.String()
			}
		case vdom.OpNewEventListener, vdom.OpRemoveEventListener:
			m.Name, m.ID, err = stringThenID(d)
		case vdom.OpAppendChildren, vdom.OpReplaceWith:
			if m.ID, err = d.Uvarint(); err == nil {
				m.Children, err = idList(d)
			}
		case vdom.OpInsertBefore, vdom.OpInsertAfter:
			if m.ReferenceID, err = d.Uvarint(); err == nil {
				m.Children, err = idList(d)
			}
		case vdom.OpAssignID:
			if m.Path, err = d.Bytes(); err == nil {
				m.ID, err = d.Uvarint()
			}
		case vdom.OpReplacePlaceholder:
			if m.Path, err = d.Bytes(); err == nil {
				m.Children, err = idList(d)
			}
		case vdom.OpHydrateText:
			if m.Path, err = d.Bytes(); err == nil {
				if m.Value, err = d.String(); err == nil {
					m.ID, err = d.Uvarint()
				}
			}
		case vdom.OpLoadTemplate:
			if m.Name, err = d.String(); err == nil {
				var idx uint64
				if idx, err = d.Uvarint(); err == nil {
					m.Index = int(idx)
					m.ID, err = d.Uvarint()
				}
			}
		default:
			return nil, errors.New("E101").WithDetailf("opcode 0x%02x", op)
		}
		if err != nil {
			return nil, errors.New("E100").Wrap(err)
		}
		batch = append(batch, m)
	}
	return batch, nil
}

func putIDList(e *Encoder, ids []uint64) {
	e.PutUvarint(uint64(len(ids)))
	for _, id := range ids {
		e.PutUvarint(id)
	}
}

func idList(d *Decoder) ([]uint64, error) {
	count, err := d.Count()
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, count)
	for i := range ids {
		if ids[i], err = d.Uvarint(); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func stringThenID(d *Decoder) (string, uint64, error) {
	s, err := d.String()
	if err != nil {
		return "", 0, err
	}
	id, err := d.Uvarint()
	return s, id, err
}
