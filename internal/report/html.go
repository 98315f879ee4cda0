package report

import (
	"html/template"
	"io"
)

// reportTemplate is the single-page summary embedding the chart images.
// Kept self-contained so the published page has no external assets
// beyond the PNGs in the same directory.
const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 40px; text-align: center; background-color: #f4f4f4; }
.container { background-color: white; padding: 20px; border-radius: 10px; box-shadow: 0 0 10px rgba(0,0,0,0.1); display: inline-block; }
h1 { color: #333; }
p.meta { color: #666; font-size: .875rem; }
img { margin: 20px; border: 1px solid #ddd; border-radius: 5px; max-width: 90%; }
hr { border: 0; border-top: 1px solid #eee; margin: 40px 0; }
.nodata { color: #a33; font-size: 1.25rem; padding: 40px; }
</style>
</head>
<body>
<div class="container">
<h1>{{.Title}}{{if .WindowInfo}} ({{.WindowInfo}}){{end}}</h1>
<p class="meta">Analysis based on the most recent response for each participant. Generated {{.GeneratedAt}}.</p>
{{if .HasData}}
<hr>
<h2>1. Player Type Distribution</h2>
<img src="{{.PlayerChart}}" alt="Player type breakdown">
<hr>
<h2>2. Overall Evacuation Choice</h2>
<img src="{{.OverallChart}}" alt="Overall evacuation choices">
<hr>
<h2>3. Evacuation Choice by Player Type</h2>
<img src="{{.ByTypeChart}}" alt="Evacuation choice by player type">
{{else}}
<hr>
<div class="nodata">No data in range.</div>
{{end}}
</div>
</body>
</html>
`

var reportTmpl = template.Must(template.New("report").Parse(reportTemplate))

// reportData feeds the HTML template
type reportData struct {
	Title        string
	WindowInfo   string
	GeneratedAt  string
	HasData      bool
	PlayerChart  string
	OverallChart string
	ByTypeChart  string
}

// renderHTML writes the report page for the given data
func renderHTML(w io.Writer, data reportData) error {
	return reportTmpl.Execute(w, data)
}
