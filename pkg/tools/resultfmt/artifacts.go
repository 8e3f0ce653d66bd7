package resultfmt

import "github.com/LexLubbers/soev.ai/pkg/chats/content"

// Artifacts is the keyed side-channel bundle extracted while formatting a
// tool result. Each key is present only when the pass actually produced it;
// a nil *Artifacts means nothing was extracted, which callers must not
// conflate with a bundle holding empty lists.
type Artifacts struct {
	// Images are the image_url references encountered during the pass.
	Images []Block `json:"images,omitempty"`
	// UIResources are ui:// resources collected verbatim for embedded
	// interactive widgets.
	UIResources []content.Resource `json:"ui_resources,omitempty"`
	// FileSearch carries citation sources extracted from
	// artifact://file_search resources.
	FileSearch *FileSearchArtifact `json:"file_search,omitempty"`
}
