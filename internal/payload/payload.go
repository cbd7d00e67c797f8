package payload

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

// DefaultTitle is shown when the payload has no usable title.
const DefaultTitle = "Select one or more items"

// ErrInvalidPayload marks every parse failure. Callers report it as
// "Invalid or missing JSON payload" and exit 1.
var ErrInvalidPayload = errors.New("invalid or missing JSON payload")

// Request is a normalized selection request.
type Request struct {
	Title   string
	Choices []Choice
}

// Choice is one selectable line item.
// Message is what the prompt displays, Value is what it returns.
type Choice struct {
	Name    string
	Message string
	Value   string
}

// Document is the wire shape of the payload.
type Document struct {
	Title   Scalar          `json:"title,omitempty"`
	Choices json.RawMessage `json:"choices,omitempty"`
}

// ChoiceDocument is the wire shape of one choices entry.
type ChoiceDocument struct {
	Name    Scalar `json:"name" jsonschema:"required,description=Identifier written to stdout when selected"`
	Message Scalar `json:"message,omitempty" jsonschema:"description=Display text. Defaults to name"`
}

type options struct {
	defaultTitle string
}

// Option customizes Parse.
type Option func(*options)

// WithDefaultTitle overrides DefaultTitle.
func WithDefaultTitle(title string) Option {
	return func(o *options) {
		if title != "" {
			o.defaultTitle = title
		}
	}
}

// Parse decodes text into a normalized Request.
func Parse(text string, opts ...Option) (*Request, error) {
	o := options{defaultTitle: DefaultTitle}
	for _, opt := range opts {
		opt(&o)
	}

	if strings.TrimSpace(text) == "" {
		return nil, errors.Mark(errors.New("payload is empty"), ErrInvalidPayload)
	}

	var raw json.RawMessage
	if err := decodeStrict([]byte(text), &raw); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decoding payload"), ErrInvalidPayload)
	}
	if !isObject(raw) {
		return nil, errors.Mark(errors.New("payload must be a JSON object"), ErrInvalidPayload)
	}

	var doc Document
	if err := decodeStrict(raw, &doc); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decoding payload"), ErrInvalidPayload)
	}

	entries, err := splitChoices(doc.Choices)
	if err != nil {
		return nil, errors.Mark(err, ErrInvalidPayload)
	}

	req := &Request{
		Title:   o.defaultTitle,
		Choices: make([]Choice, 0, len(entries)),
	}
	if doc.Title.Truthy() {
		req.Title = doc.Title.String()
	}

	for i, entry := range entries {
		c, err := normalizeChoice(entry)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "choice %d", i), ErrInvalidPayload)
		}
		req.Choices = append(req.Choices, c)
	}

	return req, nil
}

func splitChoices(raw json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '[' {
		return nil, errors.New("choices must be an array")
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, errors.Wrap(err, "decoding choices")
	}
	return entries, nil
}

func normalizeChoice(raw json.RawMessage) (Choice, error) {
	if !isObject(raw) {
		return Choice{}, errors.New("must be an object")
	}

	var doc ChoiceDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Choice{}, err
	}
	// A null name is kept as "null"; only an absent one is rejected.
	if !doc.Name.Present() {
		return Choice{}, errors.New("missing name")
	}

	name := doc.Name.String()
	message := name
	if doc.Message.Truthy() {
		message = doc.Message.String()
	}

	return Choice{Name: name, Message: message, Value: name}, nil
}

// decodeStrict decodes exactly one JSON value and rejects trailing data.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after top-level value")
	}
	return nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
