package resultfmt

import "encoding/json"

// Block kinds. Provider-native image encodings (inline data, base64 source)
// are produced by per-provider ImageFormatter entries; the default
// configuration only emits text and image_url blocks.
const (
	BlockText     = "text"
	BlockImageURL = "image_url"
)

// Block is one element of array-shaped formatted output.
type Block struct {
	Kind string
	Text string // set when Kind == BlockText
	URL  string // set when Kind == BlockImageURL
}

// TextBlock constructs a text block.
func TextBlock(text string) Block {
	return Block{Kind: BlockText, Text: text}
}

// ImageURLBlock constructs an image_url block referencing the given URL.
func ImageURLBlock(url string) Block {
	return Block{Kind: BlockImageURL, URL: url}
}

type textBlockWire struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type imageURLWire struct {
	URL string `json:"url"`
}

type imageBlockWire struct {
	Type     string       `json:"type"`
	ImageURL imageURLWire `json:"image_url"`
}

// MarshalJSON emits only the fields relevant to the block kind.
func (b Block) MarshalJSON() ([]byte, error) {
	if b.Kind == BlockImageURL {
		return json.Marshal(imageBlockWire{
			Type:     BlockImageURL,
			ImageURL: imageURLWire{URL: b.URL},
		})
	}
	return json.Marshal(textBlockWire{Type: BlockText, Text: b.Text})
}

// Output is the normalized primary content of a tool result: either a single
// flattened string or an ordered sequence of blocks, never both.
type Output struct {
	Text   string
	Blocks []Block
}

// IsArray reports whether the output is block-shaped.
func (o Output) IsArray() bool {
	return o.Blocks != nil
}
