package builder

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	chartGroupSeparator  = "|"
	chartSeriesSeparator = ":"
	listSeparator        = ","
	rowSeparator         = "\n"
)

// ParseChartData reads "L1,L2|Series1:v1,v2|Series2:v1,v2" into a chart
// payload. It returns nil when the text has no series group, a series lacks its
// name separator, a value is not a finite number, or a series length does not
// match the label count.
func ParseChartData(text string) *ChartData {
	groups := strings.Split(text, chartGroupSeparator)
	if len(groups) < 2 {
		return nil
	}
	labels := splitTrimmed(groups[0])
	datasets := make([]Dataset, 0, len(groups)-1)
	for idx, group := range groups[1:] {
		name, values, ok := strings.Cut(group, chartSeriesSeparator)
		if !ok {
			return nil
		}
		data, err := parseFloats(values)
		if err != nil {
			return nil
		}
		if len(data) != len(labels) {
			return nil
		}
		datasets = append(datasets, newDataset(idx, strings.TrimSpace(name), data))
	}
	return &ChartData{Labels: labels, Datasets: datasets}
}

// FormatChartData renders a chart payload back into the editor text format.
func FormatChartData(data *ChartData) string {
	if data == nil {
		return ""
	}
	groups := make([]string, 0, len(data.Datasets)+1)
	groups = append(groups, strings.Join(data.Labels, listSeparator))
	for _, ds := range data.Datasets {
		values := make([]string, len(ds.Data))
		for i, v := range ds.Data {
			values[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		groups = append(groups, ds.Label+chartSeriesSeparator+strings.Join(values, listSeparator))
	}
	return strings.Join(groups, chartGroupSeparator)
}

// ParseTableData reads newline separated, comma delimited rows. The first
// non-blank line holds the headers. At least one data row is required. Rows
// with a different column count than the headers are kept as they are.
func ParseTableData(text string) *TableData {
	lines := make([]string, 0, 8)
	for _, line := range strings.Split(text, rowSeparator) {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil
	}
	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, splitTrimmed(line))
	}
	return &TableData{Headers: splitTrimmed(lines[0]), Rows: rows}
}

// FormatTableData renders a table payload back into the editor text format.
func FormatTableData(data *TableData) string {
	if data == nil {
		return ""
	}
	lines := make([]string, 0, len(data.Rows)+1)
	lines = append(lines, strings.Join(data.Headers, listSeparator))
	for _, row := range data.Rows {
		lines = append(lines, strings.Join(row, listSeparator))
	}
	return strings.Join(lines, rowSeparator)
}

// SeriesHue is the hue assigned to the series at index.
func SeriesHue(index int) int {
	return index * 60
}

func newDataset(index int, name string, data []float64) Dataset {
	hue := SeriesHue(index)
	return Dataset{
		Label:           name,
		Data:            data,
		BackgroundColor: fmt.Sprintf("hsl(%d, 70%%, 50%%)", hue),
		BorderColor:     fmt.Sprintf("hsl(%d, 70%%, 40%%)", hue),
		BorderWidth:     1,
	}
}

func parseFloats(list string) ([]float64, error) {
	parts := strings.Split(list, listSeparator)
	out := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("builder: value %q is not finite", part)
		}
		out[i] = v
	}
	return out, nil
}

func splitTrimmed(line string) []string {
	parts := strings.Split(line, listSeparator)
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}
