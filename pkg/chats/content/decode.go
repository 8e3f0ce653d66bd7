package content

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// wirePart mirrors the JSON encoding of a content part. Exactly one payload
// group is populated depending on the "type" tag.
type wirePart struct {
	Type string `json:"type"`

	// type="text"
	Text string `json:"text,omitempty"`

	// type="image"
	URL      string `json:"url,omitempty"`
	Data     string `json:"data,omitempty"` // base64
	MIMEType string `json:"mimeType,omitempty"`

	// type="resource"
	Resource *wireResource `json:"resource,omitempty"`
}

type wireResource struct {
	URI         string `json:"uri"`
	Text        string `json:"text,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	MIMEType    string `json:"mimeType,omitempty"`
}

// DecodeResult parses a JSON tool result of the form
// {"content":[...],"isError":bool}. An absent content field yields a nil
// Content slice, which callers treat differently from an empty one.
func DecodeResult(data []byte) (*ToolCallResult, error) {
	var wire struct {
		Content []json.RawMessage `json:"content"`
		IsError bool              `json:"isError"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("content: decode result: %w", err)
	}

	res := &ToolCallResult{IsError: wire.IsError}
	if wire.Content == nil {
		return res, nil
	}

	res.Content = make([]Part, 0, len(wire.Content))
	for _, raw := range wire.Content {
		part, err := DecodePart(raw)
		if err != nil {
			return nil, err
		}
		res.Content = append(res.Content, part)
	}

	return res, nil
}

// DecodePart parses a single JSON content item into its typed Part. Items
// with an unrecognized "type" tag decode into Unknown with the original JSON
// preserved, never an error.
func DecodePart(raw json.RawMessage) (Part, error) {
	var wire wirePart
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("content: decode part: %w", err)
	}

	switch wire.Type {
	case "text":
		return Text{Text: wire.Text}, nil

	case "image":
		img := Image{URL: wire.URL, MediaType: wire.MIMEType}
		if wire.Data != "" {
			// An undecodable payload leaves Data nil; the formatter's
			// shape check drops such items.
			if data, err := base64.StdEncoding.DecodeString(wire.Data); err == nil {
				img.Data = data
			}
		}
		return img, nil

	case "resource":
		if wire.Resource == nil {
			return Resource{}, nil
		}
		return Resource{
			URI:         wire.Resource.URI,
			Text:        wire.Resource.Text,
			Name:        wire.Resource.Name,
			Description: wire.Resource.Description,
			MIMEType:    wire.Resource.MIMEType,
		}, nil

	default:
		cp := make([]byte, len(raw))
		copy(cp, raw)
		return Unknown{Type: wire.Type, Raw: cp}, nil
	}
}
