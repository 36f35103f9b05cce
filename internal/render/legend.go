package render

import (
	"bytes"
	"html/template"

	"github.com/couchcryptid/quake-map/internal/domain"
)

var legendTemplate = template.Must(template.New("legend").Parse(
	`<h4>Depth</h4>{{range .}}<i style="background: {{.Color}}"></i><span>{{.Label}}</span><br>{{end}}`))

type legendRow struct {
	Color template.CSS
	Label string
}

type legendControl struct {
	bands []domain.LegendBand
}

// LegendControl renders depth bands as a legend: a heading, then one colored
// swatch and range label per band, in the order given.
func LegendControl(bands []domain.LegendBand) Control {
	return legendControl{bands: bands}
}

func (l legendControl) Class() string { return "info legend" }

func (l legendControl) HTML() (template.HTML, error) {
	rows := make([]legendRow, len(l.bands))
	for i, b := range l.bands {
		rows[i] = legendRow{Color: template.CSS(b.ColorHex), Label: b.RangeLabel}
	}

	var buf bytes.Buffer
	if err := legendTemplate.Execute(&buf, rows); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}
