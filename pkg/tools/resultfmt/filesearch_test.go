package resultfmt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/LexLubbers/soev.ai/pkg/chats/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileSearchResource(payload string) content.Resource {
	return content.Resource{URI: fileSearchURIPrefix, Text: payload}
}

func TestMergeFileSearch_SingleSource(t *testing.T) {
	res := &content.ToolCallResult{Content: []content.Part{
		fileSearchResource(`{"fileCitations":true,"sources":[{"fileId":"f1","relevance":0.9}]}`),
	}}

	out, arts := Format(res, "anthropic")

	require.NotNil(t, arts)
	require.NotNil(t, arts.FileSearch)
	require.Len(t, arts.FileSearch.Sources, 1)
	assert.Equal(t, "f1", arts.FileSearch.Sources[0].FileID)
	assert.Equal(t, 0.9, arts.FileSearch.Sources[0].Relevance)
	assert.Equal(t, sourceTypeFileSearch, arts.FileSearch.Sources[0].SourceType)
	assert.True(t, arts.FileSearch.FileCitations)

	require.Len(t, out.Blocks, 1)
	assert.Contains(t, out.Blocks[0].Text, citationGuideHeading)
	assert.Contains(t, out.Blocks[0].Text, `- f1: \ue202turn0file0`)
}

func TestMergeFileSearch_GuideIndicesMatchSourcePositions(t *testing.T) {
	payload := `{"fileCitations":true,"sources":[
		{"fileId":"f1","fileName":"alpha.pdf","relevance":0.9,"pages":[1,3]},
		{"fileId":"f2","fileName":"beta.md","relevance":0.4},
		{"fileId":"f3","relevance":0.2}
	]}`
	res := &content.ToolCallResult{Content: []content.Part{fileSearchResource(payload)}}

	out, arts := Format(res, "anthropic")

	require.NotNil(t, arts.FileSearch)
	require.Len(t, arts.FileSearch.Sources, 3)

	require.Len(t, out.Blocks, 1)
	guide := out.Blocks[0].Text

	markerLines := 0
	for _, line := range strings.Split(guide, "\n") {
		if strings.HasPrefix(line, "- ") {
			markerLines++
		}
	}
	assert.Equal(t, 3, markerLines)

	assert.Contains(t, guide, `- alpha.pdf (pages 1, 3): \ue202turn0file0`)
	assert.Contains(t, guide, `- beta.md: \ue202turn0file1`)
	assert.Contains(t, guide, `- f3: \ue202turn0file2`)

	for i, src := range arts.FileSearch.Sources {
		assert.Contains(t, guide, CitationMarker(i), src.FileID)
	}
}

func TestMergeFileSearch_MarkerIsLiteralEscapeText(t *testing.T) {
	marker := CitationMarker(0)

	// Six literal characters, not the decoded rune.
	assert.Equal(t, `\ue202turn0file0`, marker)
	assert.False(t, strings.ContainsRune(marker, '\ue202'))
}

func TestMergeFileSearch_InvalidCandidatesDropped(t *testing.T) {
	payload := `{"fileCitations":true,"sources":[
		{"fileId":"ok","relevance":0.5},
		{"fileId":"no-relevance"},
		{"relevance":0.7},
		{"fileId":"","relevance":0.1},
		{"fileId":123,"relevance":0.2},
		"not-an-object"
	]}`
	res := &content.ToolCallResult{Content: []content.Part{fileSearchResource(payload)}}

	_, arts := Format(res, "anthropic")

	require.NotNil(t, arts.FileSearch)
	require.Len(t, arts.FileSearch.Sources, 1)
	assert.Equal(t, "ok", arts.FileSearch.Sources[0].FileID)
}

func TestMergeFileSearch_ZeroRelevanceIsStillPresent(t *testing.T) {
	payload := `{"fileCitations":false,"sources":[{"fileId":"f1","relevance":0}]}`
	res := &content.ToolCallResult{Content: []content.Part{fileSearchResource(payload)}}

	_, arts := Format(res, "anthropic")

	require.NotNil(t, arts.FileSearch)
	require.Len(t, arts.FileSearch.Sources, 1)
	assert.Zero(t, arts.FileSearch.Sources[0].Relevance)
}

func TestMergeFileSearch_NoGuideWhenCitationsDisabled(t *testing.T) {
	payload := `{"sources":[{"fileId":"f1","relevance":0.9}]}`
	res := &content.ToolCallResult{Content: []content.Part{fileSearchResource(payload)}}

	out, arts := Format(res, "anthropic")

	require.NotNil(t, arts.FileSearch)
	assert.False(t, arts.FileSearch.FileCitations)
	require.Len(t, arts.FileSearch.Sources, 1)
	assert.Empty(t, out.Blocks)
}

func TestMergeFileSearch_MalformedJSONLeavesSiblingsIntact(t *testing.T) {
	res := &content.ToolCallResult{Content: []content.Part{
		content.Text{Text: "before"},
		fileSearchResource(`{"fileCitations":true,`),
		content.Text{Text: "after"},
	}}

	out, arts := Format(res, "anthropic")

	require.Len(t, out.Blocks, 1)
	assert.Equal(t, "before\n\nafter", out.Blocks[0].Text)
	assert.Nil(t, arts)
}

func TestMergeFileSearch_WhitespacePayloadSkipped(t *testing.T) {
	res := &content.ToolCallResult{Content: []content.Part{
		fileSearchResource("   \n\t "),
	}}

	_, arts := Format(res, "anthropic")
	assert.Nil(t, arts)
}

func TestMergeFileSearch_RepeatedResourcesConcatenate(t *testing.T) {
	res := &content.ToolCallResult{Content: []content.Part{
		fileSearchResource(`{"fileCitations":true,"sources":[{"fileId":"f1","relevance":0.9}]}`),
		fileSearchResource(`{"fileCitations":false,"sources":[{"fileId":"f2","relevance":0.5}]}`),
	}}

	out, arts := Format(res, "anthropic")

	require.NotNil(t, arts.FileSearch)
	require.Len(t, arts.FileSearch.Sources, 2)
	assert.Equal(t, "f1", arts.FileSearch.Sources[0].FileID)
	assert.Equal(t, "f2", arts.FileSearch.Sources[1].FileID)

	// fileCitations is OR-ed across resources.
	assert.True(t, arts.FileSearch.FileCitations)

	// Only the first resource asked for a guide; its marker indexes into the
	// merged list, and the second resource produced no guide lines.
	require.Len(t, out.Blocks, 1)
	assert.Contains(t, out.Blocks[0].Text, `- f1: \ue202turn0file0`)
	assert.NotContains(t, out.Blocks[0].Text, "f2")
}

func TestMergeFileSearch_SecondResourceGuideUsesOffsetIndices(t *testing.T) {
	res := &content.ToolCallResult{Content: []content.Part{
		fileSearchResource(`{"fileCitations":true,"sources":[{"fileId":"f1","relevance":0.9}]}`),
		fileSearchResource(`{"fileCitations":true,"sources":[{"fileId":"f2","relevance":0.5}]}`),
	}}

	out, arts := Format(res, "anthropic")

	require.Len(t, arts.FileSearch.Sources, 2)
	require.Len(t, out.Blocks, 1)
	assert.Contains(t, out.Blocks[0].Text, `- f1: \ue202turn0file0`)
	assert.Contains(t, out.Blocks[0].Text, `- f2: \ue202turn0file1`)
}

func TestMergeFileSearch_PageRelevanceAndMetadataCarried(t *testing.T) {
	payload := `{"fileCitations":true,"sources":[
		{"fileId":"f1","relevance":0.9,"pages":[2,5],"pageRelevance":{"2":0.8,"5":0.3},"metadata":{"collection":"docs"}}
	]}`
	res := &content.ToolCallResult{Content: []content.Part{fileSearchResource(payload)}}

	_, arts := Format(res, "anthropic")

	src := arts.FileSearch.Sources[0]
	assert.Equal(t, []int{2, 5}, src.Pages)
	assert.Equal(t, map[string]float64{"2": 0.8, "5": 0.3}, src.PageRelevance)
	assert.Equal(t, map[string]any{"collection": "docs"}, src.Metadata)
}

func TestCoerceBool(t *testing.T) {
	cases := []struct {
		in   any
		want bool
	}{
		{true, true},
		{false, false},
		{"true", true},
		{"false", false},
		{"yes", false},
		{float64(1), true},
		{float64(0), false},
		{nil, false},
		{map[string]any{}, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, coerceBool(tc.in), fmt.Sprintf("%v", tc.in))
	}
}

func TestCitationGuide_Offset(t *testing.T) {
	sources := []FileSearchSource{
		{FileID: "f9", Relevance: 0.9},
	}
	guide := citationGuide(sources, 4)

	assert.Contains(t, guide, `- f9: \ue202turn0file4`)
}
