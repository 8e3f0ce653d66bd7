package resultfmt

import (
	"encoding/base64"
	"strings"

	"github.com/LexLubbers/soev.ai/pkg/chats/content"
)

// formatImage picks the provider's registered formatter, falling back to the
// URL/data-URL default.
func (f Formatter) formatImage(provider string, img content.Image) Block {
	if fn, ok := f.ImageFormatters[provider]; ok && fn != nil {
		return fn(img)
	}
	return DefaultImageFormatter(img)
}

// DefaultImageFormatter emits an image_url block: an absolute http(s) URL
// passes through verbatim, anything else becomes a data URL synthesized from
// the MIME type and base64 payload.
func DefaultImageFormatter(img content.Image) Block {
	if isAbsoluteURL(img.URL) {
		return ImageURLBlock(img.URL)
	}
	data := base64.StdEncoding.EncodeToString(img.Data)
	return ImageURLBlock("data:" + img.MediaType + ";base64," + data)
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// imageShapeOK rejects items carrying neither a fetchable URL nor raw bytes;
// such items are dropped silently and the pass continues.
func imageShapeOK(img content.Image) bool {
	return isAbsoluteURL(img.URL) || len(img.Data) > 0
}
