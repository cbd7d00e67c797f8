package payload

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
)

// Scalar is a loosely typed JSON field coerced to text.
// Strings, numbers, booleans and null are accepted; objects and arrays are not.
// A null reads as the text "null" but is falsy.
type Scalar struct {
	text    string
	present bool
	truthy  bool
	null    bool
}

// Text builds a present Scalar from a string.
func Text(s string) Scalar {
	return Scalar{text: s, present: true, truthy: s != ""}
}

// String returns the textual form. Absent scalars are empty.
func (s Scalar) String() string {
	return s.text
}

// Present reports whether the field appeared in the document, null included.
func (s Scalar) Present() bool {
	return s.present
}

// Truthy follows the usual scripting rules: "", 0, false and null are falsy.
func (s Scalar) Truthy() bool {
	return s.truthy
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*s = Scalar{}

	if len(data) == 0 {
		return errors.New("empty value")
	}

	switch data[0] {
	case 'n':
		if !bytes.Equal(data, []byte("null")) {
			return errors.Newf("invalid literal %s", data)
		}
		*s = Scalar{text: "null", present: true, null: true}
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*s = Scalar{text: strconv.FormatBool(b), present: true, truthy: b}
		return nil
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Text(str)
		return nil
	case '{', '[':
		return errors.Newf("expected a string, number or boolean, got %s", kindOf(data[0]))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		f, err := n.Float64()
		if err != nil {
			return errors.Wrapf(err, "number %s", n)
		}
		*s = Scalar{text: formatNumber(f), present: true, truthy: f != 0}
		return nil
	}
}

// MarshalJSON implements json.Marshaler.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.present || s.null {
		return []byte("null"), nil
	}
	return json.Marshal(s.text)
}

// JSONSchema describes Scalar for the schema reflector.
func (Scalar) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "number"},
			{Type: "boolean"},
			{Type: "null"},
		},
	}
}

// formatNumber prints f the way scripting runtimes stringify numbers:
// 1.50 is "1.5", 1e2 is "100", and exponent form only outside [1e-6, 1e21).
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	// Go pads the exponent to two digits: 1e-07 becomes 1e-7.
	text := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(text, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}

func kindOf(b byte) string {
	if b == '{' {
		return "object"
	}
	return "array"
}
