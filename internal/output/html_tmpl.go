package output

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root {
  --bg: #fff; --fg: #1a1a2e; --card-bg: #f8f9fa; --border: #dee2e6; --muted: #6c757d;
}
@media (prefers-color-scheme: dark) {
  :root { --bg: #1a1a2e; --fg: #e9ecef; --card-bg: #16213e; --border: #495057; --muted: #adb5bd; }
}
* { box-sizing: border-box; margin: 0; padding: 0; }
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; background: var(--bg); color: var(--fg); line-height: 1.5; padding: 1rem; max-width: 1400px; margin: 0 auto; }
header { margin-bottom: 1.5rem; }
header h1 { font-size: 1.5rem; margin-bottom: .25rem; }
header p { color: var(--muted); font-size: .875rem; }
header .description { margin-top: .5rem; }
header .description p { color: var(--fg); font-size: 1rem; }
.widgets { display: grid; grid-template-columns: repeat(2, 1fr); gap: 1rem; }
@media (max-width: 768px) { .widgets { grid-template-columns: 1fr; } }
.widget { background: var(--card-bg); border: 1px solid var(--border); border-radius: 8px; padding: 1rem; }
.widget h3 { font-size: .875rem; margin-bottom: .5rem; }
</style>
{{- range .Libraries}}
<script src="{{.}}"></script>
{{- end}}
</head>
<body data-ares-fingerprint="{{.Fingerprint}}">
<header>
<h1>{{.Title}}</h1>
{{- if .GeneratedAt}}
<p>Generated {{.GeneratedAt}}</p>
{{- end}}
{{- if .Description}}
<div class="description">
{{.Description}}</div>
{{- end}}
</header>
<main class="widgets">
{{- range .Widgets}}
<section class="widget">
{{- if .Title}}
<h3>{{.Title}}</h3>
{{- end}}
<div id="{{.ID}}" data-family="{{.Family}}"{{if .Height}} style="height: {{.Height}}px"{{end}}></div>
</section>
{{- end}}
</main>
<script>
{{.Script}}
{{.OnReady}}
</script>
</body>
</html>
`
