package builder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sinkCall struct {
	added   *Element
	updated string
	patch   ElementPatch
}

type recordingSink struct {
	calls []sinkCall
	err   error
}

func (s *recordingSink) AddElement(_ context.Context, el Element) error {
	s.calls = append(s.calls, sinkCall{added: &el})
	return s.err
}

func (s *recordingSink) UpdateElement(_ context.Context, id string, patch ElementPatch) error {
	s.calls = append(s.calls, sinkCall{updated: id, patch: patch})
	return s.err
}

func TestFormReady(t *testing.T) {
	cases := []struct {
		name string
		form Form
		want bool
	}{
		{"no type", Form{Label: "x"}, false},
		{"text blank", Form{Type: ElementText, Label: "   "}, false},
		{"text filled", Form{Type: ElementText, Label: "hi"}, true},
		{"image needs url", Form{Type: ElementImage, Label: "logo"}, false},
		{"image filled", Form{Type: ElementImage, URL: "https://x/y.png"}, true},
		{"chart needs text", Form{Type: ElementChart, ChartType: "bar"}, false},
		{"chart filled", Form{Type: ElementChart, ChartText: "garbage"}, true},
		{"table filled", Form{Type: ElementTable, TableText: "a\n1"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.form.Ready())
		})
	}
	assert.Equal(t, "chartText", RequiredField(ElementChart))
	assert.Equal(t, "", RequiredField("video"))
}

func TestEditorSubmitCreatesChart(t *testing.T) {
	editor := NewEditor(nil, func() time.Time { return fixedNow })
	editor.Sync(Reduce(loadedState(), TypeSelected{Type: ElementChart}))
	assert.Equal(t, ElementChart, editor.Form().Type)

	editor.SetForm(Form{Type: ElementChart, Label: " Sales ", ChartText: "Jan,Feb|Sales:10,20"})
	sink := &recordingSink{}
	require.NoError(t, editor.Submit(context.Background(), sink))

	require.Len(t, sink.calls, 1)
	el := sink.calls[0].added
	require.NotNil(t, el)
	assert.Equal(t, NewElementID(ElementChart, fixedNow), el.ID)
	assert.Empty(t, el.Label)
	assert.Equal(t, DefaultChartType, el.Properties.ChartType)
	require.NotNil(t, el.Properties.ChartData)
	assert.Equal(t, []string{"Jan", "Feb"}, el.Properties.ChartData.Labels)
	assert.Equal(t, "#8B5CF6", el.Properties.Color)
	assert.Equal(t, float64(80), el.Properties.Size)
	assert.Equal(t, &Position{X: 100, Y: 100}, el.Properties.Position)
	assert.Equal(t, Form{}, editor.Form())
}

func TestEditorSubmitKeepsUnparsableChartAsPlaceholder(t *testing.T) {
	editor := NewEditor(nil, func() time.Time { return fixedNow })
	editor.SetForm(Form{Type: ElementChart, ChartText: "Jan,Feb", ChartType: "pie"})
	sink := &recordingSink{}
	require.NoError(t, editor.Submit(context.Background(), sink))

	el := sink.calls[0].added
	assert.Equal(t, "pie", el.Properties.ChartType)
	assert.Nil(t, el.Properties.ChartData)
}

func TestEditorSubmitRequiresTypeAndContent(t *testing.T) {
	editor := NewEditor(nil, nil)
	sink := &recordingSink{}

	assert.ErrorIs(t, editor.Submit(context.Background(), sink), ErrNoTypeSelected)
	editor.SetForm(Form{Type: ElementImage, Label: "logo"})
	assert.ErrorIs(t, editor.Submit(context.Background(), sink), ErrMissingContent)
	assert.Empty(t, sink.calls)
	assert.Equal(t, "logo", editor.Form().Label)
}

func TestEditorAvoidsIDCollisions(t *testing.T) {
	existing := Element{ID: NewElementID(ElementText, fixedNow), Type: ElementText, Label: "a"}
	state := loadedState(Layout{ID: "a", Name: "A", Elements: []Element{existing}, Placements: []Placement{DefaultPlacement(existing.ID)}})

	editor := NewEditor(nil, func() time.Time { return fixedNow })
	editor.Sync(state)
	editor.SetForm(Form{Type: ElementText, Label: "b"})
	sink := &recordingSink{}
	require.NoError(t, editor.Submit(context.Background(), sink))

	assert.Equal(t, NewElementID(ElementText, fixedNow.Add(time.Millisecond)), sink.calls[0].added.ID)
}

func TestEditorEditsExistingElement(t *testing.T) {
	state := loadedState(demoLayout("a"))
	state = Reduce(state, EditingStarted{ID: "table-1"})

	editor := NewEditor(nil, nil)
	editor.Sync(state)
	editing, ok := editor.Editing()
	require.True(t, ok)
	assert.Equal(t, "table-1", editing.ID)
	assert.Equal(t, ElementTable, editor.Form().Type)
	assert.Contains(t, editor.Form().TableText, "Name,Age,City,Role\nJohn Doe,25,New York,Developer")

	editor.SetForm(Form{Type: ElementText, TableText: "A,B\n1,2"})
	assert.Equal(t, ElementTable, editor.Form().Type)

	sink := &recordingSink{}
	require.NoError(t, editor.Submit(context.Background(), sink))
	require.Len(t, sink.calls, 1)
	call := sink.calls[0]
	assert.Equal(t, "table-1", call.updated)
	require.NotNil(t, call.patch.Properties)
	assert.Equal(t, &TableData{Headers: []string{"A", "B"}, Rows: [][]string{{"1", "2"}}}, call.patch.Properties.TableData)
	assert.Equal(t, "#F97316", call.patch.Properties.Color)
	_, ok = editor.Editing()
	assert.False(t, ok)
}

func TestEditorSyncDiscardsEditOnLayoutSwitch(t *testing.T) {
	state := loadedState(demoLayout("a"), demoLayout("b"))
	editor := NewEditor(nil, nil)
	editor.Sync(Reduce(state, EditingStarted{ID: "text-1"}))
	_, ok := editor.Editing()
	require.True(t, ok)

	editor.Sync(Reduce(state, LayoutSelected{ID: "b"}))
	_, ok = editor.Editing()
	assert.False(t, ok)
	assert.Equal(t, Form{}, editor.Form())
}

func TestFormForChart(t *testing.T) {
	form := FormFor(DemoElements()[2])
	assert.Equal(t, ElementChart, form.Type)
	assert.Equal(t, "bar", form.ChartType)
	assert.Equal(t, "Jan,Feb,Mar,Apr,May|Sales:12,19,3,5,2|Revenue:8,15,7,12,9", form.ChartText)
}

func TestEditorLabelOnlyForText(t *testing.T) {
	editor := NewEditor(nil, func() time.Time { return fixedNow })
	editor.SetForm(Form{Type: ElementText, Label: "  Quarterly notes  "})
	sink := &recordingSink{}
	require.NoError(t, editor.Submit(context.Background(), sink))
	assert.Equal(t, "  Quarterly notes  ", sink.calls[0].added.Label)

	state := Reduce(loadedState(demoLayout("a")), EditingStarted{ID: "image-1"})
	editor.Sync(state)
	editor.SetForm(Form{Label: "stale", URL: "https://x/y.png"})
	require.NoError(t, editor.Submit(context.Background(), sink))
	require.Len(t, sink.calls, 2)
	require.NotNil(t, sink.calls[1].patch.Label)
	assert.Empty(t, *sink.calls[1].patch.Label)
	assert.Equal(t, "https://x/y.png", sink.calls[1].patch.Properties.URL)
}
