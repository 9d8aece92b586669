package order

import "encoding/json"

// Requirements is the buyer-supplied account details for an order. Legacy
// orders stored a single free-text string; current orders store a mapping
// from requirement key (see product.FieldKey) to the entered value. The
// variant is resolved once, when the stored JSON is decoded.
type Requirements struct {
	// Text holds the legacy free-text form. Empty when Fields is set.
	Text string
	// Fields holds the structured form. Nil for legacy orders.
	Fields map[string]string
}

// Structured reports whether the requirements carry the keyed form.
func (r Requirements) Structured() bool {
	return r.Fields != nil
}

// StructuredRequirements wraps a key-value mapping in the variant.
func StructuredRequirements(fields map[string]string) Requirements {
	if fields == nil {
		fields = map[string]string{}
	}
	return Requirements{Fields: fields}
}

// MarshalJSON writes the mapping form when structured, the bare string
// otherwise, matching both historical storage shapes.
func (r Requirements) MarshalJSON() ([]byte, error) {
	if r.Structured() {
		return json.Marshal(r.Fields)
	}
	return json.Marshal(r.Text)
}

// UnmarshalJSON accepts either shape.
func (r *Requirements) UnmarshalJSON(data []byte) error {
	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err == nil {
		r.Fields = fields
		r.Text = ""
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	r.Fields = nil
	r.Text = text
	return nil
}
