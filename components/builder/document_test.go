package builder

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutDocumentRoundTrip(t *testing.T) {
	doc := NewLayoutDocument(fixedNow, demoLayout("a"), demoLayout("b"))

	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf))
	assert.Contains(t, buf.String(), "version: \"1\"")

	decoded, err := DecodeLayoutDocument(&buf)
	require.NoError(t, err)
	require.Len(t, decoded.Layouts, 2)
	assert.True(t, fixedNow.Equal(decoded.ExportedAt))

	first := decoded.Layouts[0]
	assert.Equal(t, "a", first.ID)
	assert.Equal(t, DemoPlacements(), first.Placements)
	require.Len(t, first.Elements, 4)
	chart, ok := first.Element("chart-1")
	require.True(t, ok)
	assert.Equal(t, []string{"Jan", "Feb", "Mar", "Apr", "May"}, chart.Properties.ChartData.Labels)
}

func TestNewLayoutDocumentCopiesLayouts(t *testing.T) {
	layout := demoLayout("a")
	doc := NewLayoutDocument(fixedNow, layout)
	doc.Layouts[0].Elements[0].Label = "changed"
	assert.NotEqual(t, "changed", layout.Elements[0].Label)
}

func TestDecodeLayoutDocumentDefaults(t *testing.T) {
	doc, err := DecodeLayoutDocument(strings.NewReader("layouts:\n  - name: Empty\n"))
	require.NoError(t, err)
	assert.Equal(t, DocumentVersion, doc.Version)
	assert.NotNil(t, doc.Layouts[0].Elements)
	assert.NotNil(t, doc.Layouts[0].Placements)
}

func TestDecodeLayoutDocumentErrors(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"version":      "version: \"2\"\nlayouts: []\n",
		"unknown key":  "version: \"1\"\nlayouts: []\nowner: me\n",
		"missing name": "layouts:\n  - id: a\n",
		"duplicate id": "layouts:\n  - id: a\n    name: A\n  - id: a\n    name: B\n",
		"bad type": `layouts:
  - name: A
    layout: [{i: v, x: 0, y: 0, w: 4, h: 3}]
    elements: [{id: v, type: video, label: clip}]
`,
		"lockstep": `layouts:
  - name: A
    layout: []
    elements: [{id: t, type: text, label: hi}]
`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeLayoutDocument(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "quarterly-sales.yaml", ExportFileName(Layout{ID: "x", Name: "Quarterly Sales"}))
	assert.Equal(t, "srv-12.yaml", ExportFileName(Layout{ID: "srv-12"}))
	assert.Equal(t, "layout.yaml", ExportFileName(Layout{}))
}

func TestLayoutDocumentFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layouts.yaml")
	require.NoError(t, NewLayoutDocument(fixedNow, demoLayout("a")).WriteFile(path))

	doc, err := ReadLayoutDocument(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source)
	assert.Equal(t, "Layout a", doc.Layouts[0].Name)

	_, err = ReadLayoutDocument(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
