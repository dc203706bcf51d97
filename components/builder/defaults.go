package builder

const (
	// DefaultChartType is the chart kind used when an element does not specify one.
	DefaultChartType = "bar"

	fallbackColor = "#6B7280"
	fallbackSize  = 40
)

var stringList = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string"},
}

var defaultElementDefinitions = []ElementDefinition{
	{
		Type:  ElementText,
		Label: "Text",
		Icon:  "T",
		Color: "#3B82F6",
		Size:  16,
		Order: 0,
		Schema: map[string]any{
			"type":     "object",
			"required": []any{"id", "type", "label"},
			"properties": map[string]any{
				"label": map[string]any{"type": "string"},
			},
		},
	},
	{
		Type:  ElementImage,
		Label: "Image",
		Icon:  "🖼️",
		Color: "#10B981",
		Size:  100,
		Order: 1,
		Schema: map[string]any{
			"type":     "object",
			"required": []any{"id", "type", "properties"},
			"properties": map[string]any{
				"properties": map[string]any{
					"type":     "object",
					"required": []any{"url"},
					"properties": map[string]any{
						"url": map[string]any{"type": "string"},
					},
				},
			},
		},
	},
	{
		Type:  ElementChart,
		Label: "Chart",
		Icon:  "📊",
		Color: "#8B5CF6",
		Size:  80,
		Order: 2,
		Schema: map[string]any{
			"type":     "object",
			"required": []any{"id", "type"},
			"properties": map[string]any{
				"properties": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"chartType": map[string]any{"type": "string", "enum": []any{"bar", "line", "pie"}},
						"chartData": map[string]any{
							"type":     "object",
							"required": []any{"labels", "datasets"},
							"properties": map[string]any{
								"labels": stringList,
								"datasets": map[string]any{
									"type":     "array",
									"minItems": 1,
									"items": map[string]any{
										"type":     "object",
										"required": []any{"label", "data"},
										"properties": map[string]any{
											"label": map[string]any{"type": "string"},
											"data": map[string]any{
												"type":  "array",
												"items": map[string]any{"type": "number"},
											},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	},
	{
		Type:  ElementTable,
		Label: "Table",
		Icon:  "📋",
		Color: "#F97316",
		Size:  60,
		Order: 3,
		Schema: map[string]any{
			"type":     "object",
			"required": []any{"id", "type"},
			"properties": map[string]any{
				"properties": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"tableData": map[string]any{
							"type":     "object",
							"required": []any{"headers", "rows"},
							"properties": map[string]any{
								"headers": stringList,
								"rows": map[string]any{
									"type":  "array",
									"items": stringList,
								},
							},
						},
					},
				},
			},
		},
	},
}

// DefaultElementDefinitions returns the built-in widget palette.
func DefaultElementDefinitions() []ElementDefinition {
	out := make([]ElementDefinition, len(defaultElementDefinitions))
	copy(out, defaultElementDefinitions)
	return out
}

// DemoElements returns the demonstration set applied by ReplaceWithDefaults:
// one element per widget type with canned content.
func DemoElements() []Element {
	return []Element{
		{
			ID:    "text-1",
			Type:  ElementText,
			Label: "Welcome to your dashboard! This is a sample text element that you can edit by clicking on it.",
			Properties: Properties{
				Color:    "#3B82F6",
				Size:     16,
				Position: &Position{X: 0, Y: 0},
			},
		},
		{
			ID:   "image-1",
			Type: ElementImage,
			Properties: Properties{
				URL:      "https://picsum.photos/400/300?random=1",
				Color:    "#10B981",
				Size:     100,
				Position: &Position{X: 4, Y: 0},
			},
		},
		{
			ID:   "chart-1",
			Type: ElementChart,
			Properties: Properties{
				ChartType: DefaultChartType,
				ChartData: &ChartData{
					Labels: []string{"Jan", "Feb", "Mar", "Apr", "May"},
					Datasets: []Dataset{
						{
							Label:           "Sales",
							Data:            []float64{12, 19, 3, 5, 2},
							BackgroundColor: "rgba(59, 130, 246, 0.8)",
							BorderColor:     "rgba(59, 130, 246, 1)",
							BorderWidth:     1,
						},
						{
							Label:           "Revenue",
							Data:            []float64{8, 15, 7, 12, 9},
							BackgroundColor: "rgba(16, 185, 129, 0.8)",
							BorderColor:     "rgba(16, 185, 129, 1)",
							BorderWidth:     1,
						},
					},
				},
				Color:    "#8B5CF6",
				Size:     80,
				Position: &Position{X: 0, Y: 4},
			},
		},
		{
			ID:   "table-1",
			Type: ElementTable,
			Properties: Properties{
				TableData: &TableData{
					Headers: []string{"Name", "Age", "City", "Role"},
					Rows: [][]string{
						{"John Doe", "25", "New York", "Developer"},
						{"Jane Smith", "30", "Los Angeles", "Designer"},
						{"Bob Johnson", "35", "Chicago", "Manager"},
						{"Alice Brown", "28", "Houston", "Analyst"},
					},
				},
				Color:    "#F97316",
				Size:     60,
				Position: &Position{X: 4, Y: 4},
			},
		},
	}
}

// DemoPlacements returns the grid arrangement matching DemoElements.
func DemoPlacements() []Placement {
	return []Placement{
		{ID: "text-1", X: 0, Y: 0, W: 4, H: 3},
		{ID: "image-1", X: 4, Y: 0, W: 4, H: 3},
		{ID: "chart-1", X: 0, Y: 3, W: 6, H: 4},
		{ID: "table-1", X: 6, Y: 3, W: 6, H: 4},
	}
}
