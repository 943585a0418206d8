package delta

import (
	"encoding/json"
	"fmt"
)

// Wire format. A delta sequence is the interchange format itself: an
// ordered list of entries, each either
//
//	{"insert": "text", "length": n, "attributes": {...}}
//	{"insert": {"block": "paragraph"}, "length": 1, "attributes": {...}}
//
// Operation lists encode the op kind as the carrying field:
//
//	{"retain": n, "attributes": {...}}
//	{"delete": n}
//	{"insert": payload, "length": n, "attributes": {...}}
//	{"swap": payload, "attributes": {...}}
//
// The length field on entries is informative; decoding recomputes it.

type blockPayload struct {
	Block BlockType `json:"block"`
}

// payloadJSON renders the insert/swap payload for an entry shape.
func payloadJSON(text string, block BlockType) interface{} {
	if block != "" {
		return blockPayload{Block: block}
	}
	return text
}

// decodePayload parses a payload that is either a string or {"block": t}.
func decodePayload(raw json.RawMessage) (string, BlockType, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, "", nil
	}
	var bp blockPayload
	if err := json.Unmarshal(raw, &bp); err != nil || bp.Block == "" {
		return "", "", fmt.Errorf("malformed insert payload: %s", raw)
	}
	return "", bp.Block, nil
}

// MarshalJSON encodes the entry in the wire format.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Insert     interface{} `json:"insert"`
		Length     int         `json:"length"`
		Attributes Attributes  `json:"attributes,omitempty"`
	}{
		Insert:     payloadJSON(e.Text, e.Block),
		Length:     e.Length(),
		Attributes: e.Attributes,
	})
}

// UnmarshalJSON decodes the wire format. The length field is ignored and
// recomputed from the payload.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Insert     json.RawMessage `json:"insert"`
		Attributes Attributes      `json:"attributes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	text, block, err := decodePayload(raw.Insert)
	if err != nil {
		return err
	}
	*e = Entry{Text: text, Block: block, Attributes: raw.Attributes}
	return nil
}

// wireOp is the decoded shape of one operation.
type wireOp struct {
	Insert     json.RawMessage `json:"insert,omitempty"`
	Swap       json.RawMessage `json:"swap,omitempty"`
	Retain     *int            `json:"retain,omitempty"`
	Delete     *int            `json:"delete,omitempty"`
	Length     int             `json:"length,omitempty"`
	Attributes Attributes      `json:"attributes,omitempty"`
}

// MarshalJSON encodes the operation list in the wire format.
func (ops Ops) MarshalJSON() ([]byte, error) {
	out := make([]interface{}, 0, len(ops))
	for _, op := range ops {
		switch o := op.(type) {
		case Retain:
			n := o.N
			out = append(out, wireOp{Retain: &n, Attributes: o.Attributes})
		case Delete:
			n := o.N
			out = append(out, wireOp{Delete: &n})
		case Insert:
			payload, err := json.Marshal(payloadJSON(o.Text, o.Block))
			if err != nil {
				return nil, err
			}
			out = append(out, wireOp{Insert: payload, Length: o.Length(), Attributes: o.Attributes})
		case Swap:
			payload, err := json.Marshal(payloadJSON(o.Text, o.Block))
			if err != nil {
				return nil, err
			}
			out = append(out, wireOp{Swap: payload, Attributes: o.Attributes})
		default:
			return nil, fmt.Errorf("unknown operation %T", op)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes an operation list from the wire format.
func (ops *Ops) UnmarshalJSON(data []byte) error {
	var raws []wireOp
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(Ops, 0, len(raws))
	for _, w := range raws {
		switch {
		case w.Retain != nil:
			out = append(out, Retain{N: *w.Retain, Attributes: w.Attributes})
		case w.Delete != nil:
			out = append(out, Delete{N: *w.Delete})
		case w.Insert != nil:
			text, block, err := decodePayload(w.Insert)
			if err != nil {
				return err
			}
			out = append(out, Insert{Entry{Text: text, Block: block, Attributes: w.Attributes}})
		case w.Swap != nil:
			text, block, err := decodePayload(w.Swap)
			if err != nil {
				return err
			}
			out = append(out, Swap{Entry{Text: text, Block: block, Attributes: w.Attributes}})
		default:
			return fmt.Errorf("operation carries none of insert/retain/delete/swap")
		}
	}
	*ops = out
	return nil
}
