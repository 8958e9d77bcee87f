package core

type (
	// RenderableSeries is a label/value sequence ready for a chart primitive.
	// Labels and Values always have the same length.
	RenderableSeries struct {
		Labels []string  `json:"labels"`
		Values []float64 `json:"values"`
	}

	// TaggedSeries is a RenderableSeries that belongs to one category.
	TaggedSeries struct {
		Category string `json:"category"`
		RenderableSeries
	}

	// Matrix is a set of category series aligned on one shared axis.
	Matrix struct {
		Axis   []string       `json:"axis"`
		Series []TaggedSeries `json:"series"`
	}

	// ReportTable is a flat export: a header, data rows and an optional
	// summary row that is appended after a blank separator.
	ReportTable struct {
		Header  []string
		Rows    [][]string
		Summary []string
	}
)

// Len returns the number of points in the series.
func (s RenderableSeries) Len() int {
	return len(s.Labels)
}

// Records flattens the table into rows in output order.
func (t ReportTable) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+3)
	out = append(out, t.Header)
	out = append(out, t.Rows...)
	if t.Summary != nil {
		out = append(out, []string{}, t.Summary)
	}
	return out
}
