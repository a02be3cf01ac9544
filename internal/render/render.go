package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/vkm/heatlamp/internal/heatmap"
)

const instanceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Coordinate}} &middot; instance {{.Instance.Index}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; line-height: 2.2; }
h2 { margin-bottom: 0.2rem; }
.labels { color: #555; margin-bottom: 1.5rem; }
.field-name { font-weight: bold; margin-top: 1rem; }
mark { padding: 0.15em 0.3em; margin: 0 0.2em; border-radius: 0.25em;
       box-decoration-break: clone; -webkit-box-decoration-break: clone; }
</style>
</head>
<body>
<h2>{{.Coordinate}} &mdash; instance {{.Instance.Index}}</h2>
<p class="labels">true: {{label .Instance.True}} &middot; predicted: {{label .Instance.Predicted}}</p>
{{range .Instance.Fields}}<p class="field-name">{{.Name}}</p>
<p>{{range .Tokens}}<mark style="background: {{.Color}}" title="{{printf "%.4f" .Attribution}}">{{.Token}}</mark>{{end}}</p>
{{end}}</body>
</html>
`

const indexTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Coordinate}} heatmaps</title>
</head>
<body>
<h2>{{.Coordinate}}</h2>
<ul>
{{range .Files}}<li><a href="{{.}}">{{.}}</a></li>
{{end}}</ul>
</body>
</html>
`

var funcs = template.FuncMap{
	"label": func(l heatmap.Label) string {
		if l.Name == "" {
			return fmt.Sprintf("#%d", l.Index)
		}
		return fmt.Sprintf("%s (#%d)", l.Name, l.Index)
	},
}

var (
	instanceTmpl = template.Must(template.New("instance").Funcs(funcs).Parse(instanceTemplate))
	indexTmpl    = template.Must(template.New("index").Parse(indexTemplate))
)

// WriteInstance renders one heatmap instance as a full HTML page.
func WriteInstance(w io.Writer, coordinate string, inst *heatmap.Instance) error {
	data := struct {
		Coordinate string
		Instance   *heatmap.Instance
	}{coordinate, inst}
	if err := instanceTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render instance %d: %w", inst.Index, err)
	}
	return nil
}

// WriteIndex renders the listing page that links every instance file.
func WriteIndex(w io.Writer, coordinate string, files []string) error {
	data := struct {
		Coordinate string
		Files      []string
	}{coordinate, files}
	if err := indexTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render index: %w", err)
	}
	return nil
}
