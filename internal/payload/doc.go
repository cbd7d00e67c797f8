// Package payload parses the JSON document describing a selection prompt.
//
// # Shape
//
//	{
//	  "title": "string (optional)",
//	  "choices": [
//	    { "name": "string (required)", "message": "string (optional)" }
//	  ]
//	}
//
// # Normalization
//
// Loosely typed fields are decoded into Scalar, which accepts any JSON
// string, number or boolean and keeps its textual form. Defaults follow
// truthiness: an empty, zero, false or null title becomes DefaultTitle,
// and such a message falls back to the choice name.
//
// Every failure is marked with ErrInvalidPayload:
//
//	req, err := payload.Parse(text)
//	if errors.Is(err, payload.ErrInvalidPayload) {
//	    // report and exit 1
//	}
package payload
