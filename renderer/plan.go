package renderer

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/etnz/rebalance"
)

// planMarkdownTemplate is the template for rendering a Plan in Markdown.
const planMarkdownTemplate = `# 🎯 Portfolio Allocation and Actions

Account Value: **{{ .AccountValue }}** ({{ .AccountType }})
{{- if .Withdrawal.IsPositive }}

Withdrawal: **{{ .Withdrawal }}**, Target Value: **{{ .DesiredAccountValue }}**
{{- end }}

| Symbol | Action | Shares | Amount | Holdings | Current % | Desired % | Resulting % |
|:---|:---|---:|---:|:---|---:|---:|---:|
{{- range .Rows }}
| {{ .Symbol }} | {{ .Action }} | {{ .Shares }} | {{ .Amount }} | {{ .Holdings }} | {{ .Current }} | {{ .Desired }} | {{ .Resulting }} |
{{- end }}
{{- if .Notes }}

## Notes
{{ range .Notes }}
* {{ . }}
{{- end }}
{{- end }}
`

var planTemplate = template.Must(template.New("plan").Parse(planMarkdownTemplate))

// RenderPlan renders the Plan view to a markdown string.
func RenderPlan(p *Plan) string {
	var b strings.Builder
	if err := planTemplate.Execute(&b, p); err != nil {
		return fmt.Sprintf("Error executing template: %v", err)
	}
	return b.String()
}

// PlanMarkdown renders a plan computed against t.
func PlanMarkdown(p *rebalance.Plan, t *rebalance.Targets) string {
	return RenderPlan(NewPlan(p, t))
}
