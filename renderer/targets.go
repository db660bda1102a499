package renderer

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/etnz/rebalance"
)

const targetsMarkdownTemplate = `# 📐 Target Allocation

| Category | Allocation | Primary | Holdovers |
|:---|---:|:---|:---|
{{- range .Rows }}
| {{ .Category }} | {{ .Allocation }} | {{ .Primary }} | {{ .Holdovers }} |
{{- end }}
| **Total** | **{{ .Total }}** | | |

{{ if .Err }}❌ {{ .Err }}{{ else }}✅ Allocations sum to 100%.{{ end }}
`

var targetsTemplate = template.Must(template.New("targets").Parse(targetsMarkdownTemplate))

type targetRow struct {
	Category, Allocation, Primary, Holdovers string
}

// TargetsMarkdown renders the target table along with its validation result.
func TargetsMarkdown(t *rebalance.Targets) string {
	data := struct {
		Rows  []targetRow
		Total rebalance.Percent
		Err   error
	}{
		Total: rebalance.FromFraction(t.Sum()),
		Err:   rebalance.Validate(t),
	}
	for c := range t.Classes() {
		row := targetRow{
			Category:   c.Category,
			Allocation: rebalance.FromFraction(c.Allocation).String(),
			Primary:    c.Primary,
			Holdovers:  strings.Join(c.Holdovers, ", "),
		}
		if row.Holdovers == "" {
			row.Holdovers = "-"
		}
		data.Rows = append(data.Rows, row)
	}

	var b strings.Builder
	if err := targetsTemplate.Execute(&b, data); err != nil {
		return fmt.Sprintf("Error executing template: %v", err)
	}
	return b.String()
}
