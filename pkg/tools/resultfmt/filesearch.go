package resultfmt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/LexLubbers/soev.ai/pkg/chats/content"
)

const (
	uiResourcePrefix    = "ui://"
	fileSearchURIPrefix = "artifact://file_search"

	// sourceTypeFileSearch stamps every accepted source with its origin
	// subsystem.
	sourceTypeFileSearch = "file_search"

	// citationMarkerPrefix is the literal six characters backslash-u-e-2-0-2.
	// Downstream rendering matches this exact substring positionally against
	// the sources list, so it must never be the decoded escape it spells.
	citationMarkerPrefix = `\ue202`
	citationSessionToken = "turn0file"

	citationGuideHeading = "Cite sources inline by copying these markers verbatim:"
)

// FileSearchSource is a structured reference to a retrieved document used to
// ground a citation, with a relevance score and optional per-page scores.
type FileSearchSource struct {
	FileID        string             `json:"fileId"`
	FileName      string             `json:"fileName,omitempty"`
	Relevance     float64            `json:"relevance"`
	Pages         []int              `json:"pages,omitempty"`
	PageRelevance map[string]float64 `json:"pageRelevance,omitempty"`
	Metadata      map[string]any     `json:"metadata,omitempty"`
	SourceType    string             `json:"sourceType"`
}

// FileSearchArtifact accumulates citation data across one formatting pass.
// Repeated file_search resources within a call concatenate their sources in
// encounter order and OR their fileCitations flags.
type FileSearchArtifact struct {
	Sources       []FileSearchSource `json:"sources"`
	FileCitations bool               `json:"fileCitations"`
}

// fileSearchPayload mirrors the JSON document embedded in a file_search
// resource's text field. Candidates decode individually so one malformed
// entry cannot poison the rest.
type fileSearchPayload struct {
	FileCitations any               `json:"fileCitations"`
	Sources       []json.RawMessage `json:"sources"`
}

type sourceCandidate struct {
	FileID        *string            `json:"fileId"`
	FileName      string             `json:"fileName"`
	Relevance     *float64           `json:"relevance"`
	Pages         []int              `json:"pages"`
	PageRelevance map[string]float64 `json:"pageRelevance"`
	Metadata      map[string]any     `json:"metadata"`
}

// mergeFileSearch parses the resource's embedded JSON and folds the surviving
// sources into the pass's file-search artifact. Parse failures are recoverable:
// they log a warning and leave sibling items untouched.
func (f Formatter) mergeFileSearch(st *passState, res content.Resource) {
	if strings.TrimSpace(res.Text) == "" {
		f.logger().Warn("file search resource has no payload", "uri", res.URI)
		return
	}

	var payload fileSearchPayload
	if err := json.Unmarshal([]byte(res.Text), &payload); err != nil {
		f.logger().Warn("skipping malformed file search payload", "uri", res.URI, "error", err)
		return
	}

	accepted := filterSources(payload.Sources)
	fileCitations := coerceBool(payload.FileCitations)

	if st.fileSearch == nil {
		st.fileSearch = &FileSearchArtifact{}
	}
	offset := len(st.fileSearch.Sources)
	st.fileSearch.Sources = append(st.fileSearch.Sources, accepted...)
	st.fileSearch.FileCitations = st.fileSearch.FileCitations || fileCitations

	if fileCitations && len(accepted) > 0 {
		st.appendText(citationGuide(accepted, offset))
	}
}

// filterSources keeps only candidates carrying both a fileId and a relevance
// field; everything else is dropped silently.
func filterSources(raw []json.RawMessage) []FileSearchSource {
	var accepted []FileSearchSource
	for _, r := range raw {
		var cand sourceCandidate
		if err := json.Unmarshal(r, &cand); err != nil {
			continue
		}
		if cand.FileID == nil || *cand.FileID == "" || cand.Relevance == nil {
			continue
		}
		accepted = append(accepted, FileSearchSource{
			FileID:        *cand.FileID,
			FileName:      cand.FileName,
			Relevance:     *cand.Relevance,
			Pages:         cand.Pages,
			PageRelevance: cand.PageRelevance,
			Metadata:      cand.Metadata,
			SourceType:    sourceTypeFileSearch,
		})
	}
	return accepted
}

// coerceBool applies loose truthiness to fileCitations, which is not
// guaranteed to arrive as a JSON boolean.
func coerceBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	case float64:
		return t != 0
	}
	return false
}

// CitationMarker returns the literal marker for the source at the given
// zero-based position in the artifact's sources list.
func CitationMarker(index int) string {
	return citationMarkerPrefix + citationSessionToken + strconv.Itoa(index)
}

// citationGuide renders the heading plus one marker line per source. Offset
// is the number of sources already accumulated before this resource, so
// marker indices stay aligned with the merged sources list.
func citationGuide(sources []FileSearchSource, offset int) string {
	lines := make([]string, 0, len(sources)+1)
	lines = append(lines, citationGuideHeading)

	for i, src := range sources {
		name := src.FileName
		if name == "" {
			name = src.FileID
		}

		pages := ""
		if len(src.Pages) > 0 {
			nums := make([]string, len(src.Pages))
			for j, p := range src.Pages {
				nums[j] = strconv.Itoa(p)
			}
			pages = fmt.Sprintf(" (pages %s)", strings.Join(nums, ", "))
		}

		lines = append(lines, fmt.Sprintf("- %s%s: %s", name, pages, CitationMarker(offset+i)))
	}

	return strings.Join(lines, "\n")
}
