package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChartData(t *testing.T) {
	data := ParseChartData("Jan, Feb ,Mar|Sales: 10,20,30|Revenue:1.5,2,2.5")
	require.NotNil(t, data)

	assert.Equal(t, []string{"Jan", "Feb", "Mar"}, data.Labels)
	require.Len(t, data.Datasets, 2)
	assert.Equal(t, "Sales", data.Datasets[0].Label)
	assert.Equal(t, []float64{10, 20, 30}, data.Datasets[0].Data)
	assert.Equal(t, "hsl(0, 70%, 50%)", data.Datasets[0].BackgroundColor)
	assert.Equal(t, "hsl(0, 70%, 40%)", data.Datasets[0].BorderColor)
	assert.Equal(t, 1, data.Datasets[0].BorderWidth)
	assert.Equal(t, "Revenue", data.Datasets[1].Label)
	assert.Equal(t, "hsl(60, 70%, 50%)", data.Datasets[1].BackgroundColor)
}

func TestParseChartDataRejectsMalformedText(t *testing.T) {
	cases := map[string]string{
		"no series":        "Jan,Feb",
		"missing colon":    "Jan,Feb|Sales 10,20",
		"not a number":     "Jan,Feb|Sales:10,abc",
		"length mismatch":  "Jan,Feb|Sales:10",
		"infinite value":   "Jan|Sales:Inf",
		"not a number nan": "Jan|Sales:NaN",
		"empty value":      "Jan,Feb|Sales:10,",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, ParseChartData(text))
		})
	}
}

func TestFormatChartDataRoundTrip(t *testing.T) {
	text := "Jan,Feb|Sales:10,20.5|Cost:3,4"
	data := ParseChartData(text)
	require.NotNil(t, data)

	assert.Equal(t, text, FormatChartData(data))
	again := ParseChartData(FormatChartData(data))
	require.NotNil(t, again)
	assert.Equal(t, data.Labels, again.Labels)
	assert.Equal(t, data.Datasets, again.Datasets)
	assert.Empty(t, FormatChartData(nil))
}

func TestParseTableData(t *testing.T) {
	data := ParseTableData("Name,Age\nAlice,30\n\nBob, 40\n")
	require.NotNil(t, data)

	assert.Equal(t, []string{"Name", "Age"}, data.Headers)
	assert.Equal(t, [][]string{{"Alice", "30"}, {"Bob", "40"}}, data.Rows)
	assert.False(t, data.Ragged())
}

func TestParseTableDataKeepsRaggedRows(t *testing.T) {
	data := ParseTableData("A,B,C\n1,2\n1,2,3,4")
	require.NotNil(t, data)

	assert.Equal(t, [][]string{{"1", "2"}, {"1", "2", "3", "4"}}, data.Rows)
	assert.True(t, data.Ragged())
}

func TestParseTableDataNeedsARow(t *testing.T) {
	assert.Nil(t, ParseTableData(""))
	assert.Nil(t, ParseTableData("Name,Age"))
	assert.Nil(t, ParseTableData("\n\nName,Age\n  \n"))
}

func TestFormatTableData(t *testing.T) {
	data := &TableData{Headers: []string{"Name", "Age"}, Rows: [][]string{{"Alice", "30"}}}
	assert.Equal(t, "Name,Age\nAlice,30", FormatTableData(data))
	assert.Equal(t, data, ParseTableData(FormatTableData(data)))
	assert.Empty(t, FormatTableData(nil))
}
