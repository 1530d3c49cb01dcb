package bot

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/rbhz/tg-vocab-trainer/app/ai"
)

const lookupTemplate = `<b>{{ html .Result.OriginalWord }}</b> <i>({{ .Result.IdentifiedLanguage }})</i>
{{- range $i, $t := .Result.Translations }}

<b>{{ inc $i }}. {{ html $t.Translation }}</b>{{ with $t.PartOfSpeech }} <i>{{ html (deref .) }}</i>{{ end }}
{{- range $e := $t.Examples }}
  • {{ html $e }}
{{- end }}
{{- end }}
{{- if .Result.GeneralExamples }}

<u>Examples</u>:
{{- range $e := .Result.GeneralExamples }}
• {{ html $e }}
{{- end }}
{{- end }}
`

const evaluationTemplate = `<i>Word</i>: <b>{{ html .Review.Prompt }}</b>
<i>Your answer</i>: {{ html .Result.Answer }}
{{ verdictMark .Result.Verdict }} <b>{{ .Result.Verdict }}</b>
{{- with .Result.Explanation }}
{{ html . }}
{{- end }}
{{- with .Result.CorrectedAnswer }}
<i>Correct</i>: <code>{{ html (deref .) }}</code>
{{- end }}
<i>Accepted</i>: {{ range $i, $e := .Review.Expected }}{{ if $i }}, {{ end }}<code>{{ html $e }}</code>{{ end }}
`

const undeterminedTemplate = `Could not check your answer right now.
<i>Word</i>: <b>{{ html .Review.Prompt }}</b>
<i>Your answer</i>: {{ html .Answer }}
<i>Accepted</i>: {{ range $i, $e := .Review.Expected }}{{ if $i }}, {{ end }}<code>{{ html $e }}</code>{{ end }}
How well did you remember it?`

var templates = template.Must(template.New("bot").Funcs(template.FuncMap{
	"inc": func(i int) int {
		return i + 1
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"verdictMark": func(v ai.Verdict) string {
		switch v {
		case ai.VerdictCorrect:
			return "✅"
		case ai.VerdictPartiallyCorrect:
			return "☑️"
		}
		return "❌"
	},
}).Parse(""))

func init() {
	template.Must(templates.New("lookup").Parse(lookupTemplate))
	template.Must(templates.New("evaluation").Parse(evaluationTemplate))
	template.Must(templates.New("undetermined").Parse(undeterminedTemplate))
}

func renderTemplate(name string, data interface{}) (string, error) {
	buf := &bytes.Buffer{}
	if err := templates.ExecuteTemplate(buf, name, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.String(), nil
}

func htmlEscape(s string) string {
	return template.HTMLEscapeString(s)
}
