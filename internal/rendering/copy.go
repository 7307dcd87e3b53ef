package rendering

import (
	"strings"
	"text/template"
)

// copyData is the data available to report copy templates.
type copyData struct {
	Name    string
	Partner string
	Date    string
}

const copySource = `
{{- define "intro.married" -}}
{{.Name}}, thank you for investing in your marriage. This report reflects how you see your relationship today across the areas that matter most in a lifelong partnership.

Read it with curiosity rather than judgment. Scores describe current patterns, and patterns can change with intention.
{{- end}}

{{- define "intro.engaged" -}}
{{.Name}}, congratulations on your engagement. Preparing for marriage is one of the best gifts you can give your future together, and this report is a starting point for those conversations.

Read it with curiosity rather than judgment. Scores describe current patterns, and patterns can change with intention.
{{- end}}

{{- define "intro.dating" -}}
{{.Name}}, thank you for taking time to reflect on your relationship. Whether you are early in dating or considering a long-term commitment, this report highlights what you already bring and what to explore next.

Read it with curiosity rather than judgment. Scores describe current patterns, and patterns can change with intention.
{{- end}}

{{- define "intro.default" -}}
{{.Name}}, thank you for completing the assessment. This report summarizes how you approach the core areas of a healthy relationship.

Read it with curiosity rather than judgment. Scores describe current patterns, and patterns can change with intention.
{{- end}}

{{- define "sections.intro" -}}
Each bar shows your result for one area of the assessment. Colors follow the legend below.
{{- end}}

{{- define "stats.intro" -}}
The figures below compare your results with the average scores of all respondents.
{{- end}}

{{- define "nextsteps.individual" -}}
Share this report with someone you trust and talk through one strength and one growth area.
Pick a single improvement area and set a small, specific goal for the next 30 days.
Revisit your strengths list when things feel hard; those habits are already working.
Consider retaking the assessment in six months to see how your patterns have shifted.
{{- end}}

{{- define "about" -}}
This assessment measures self-reported attitudes and habits across several areas of relationship health. Section scores are the share of available points earned in that area, and the overall score combines all sections.

Results are educational and are not a clinical diagnosis. If a result raises concerns about safety or wellbeing, please contact a licensed professional.
{{- end}}

{{- define "couple.intro" -}}
This report places the results of {{.Name}} and {{.Partner}} side by side. It highlights where you already see things the same way and where a conversation could bring you closer.
{{- end}}

{{- define "couple.compatibility" -}}
The compatibility score starts from how close your overall results are and adjusts for each area you both answered: close agreement adds to the score and wide gaps subtract from it. Scores range from 30 to 95.
{{- end}}

{{- define "couple.table" -}}
Alignment tiers: Strong means a difference under 10 points, Moderate under 20 points, and Discuss 20 points or more.
{{- end}}

{{- define "nextsteps.couple" -}}
Schedule an unhurried conversation to read this report together.
Start with an area where you align and name what makes it work.
Choose one area marked Discuss and ask each other what shaped your answers.
Agree on one shared habit to practice for the next month.
Consider meeting with a mentor couple or counselor to go deeper.
{{- end}}
`

var copyTemplates = template.Must(template.New("copy").Parse(copySource))

// renderCopy executes a named copy template.
func renderCopy(name string, data copyData) (string, error) {
	var sb strings.Builder
	if err := copyTemplates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", &TemplateError{Message: "failed to execute " + name, Cause: err}
	}
	return sb.String(), nil
}

// paragraphs splits copy on blank lines.
func paragraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// items splits copy into one item per line.
func items(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// introTemplate picks the intro branch for a relationship status.
func introTemplate(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "married":
		return "intro.married"
	case "engaged":
		return "intro.engaged"
	case "dating", "in a relationship":
		return "intro.dating"
	default:
		return "intro.default"
	}
}
