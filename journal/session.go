package journal

import (
	"fmt"
	"io"
	"text/template"
	"time"
)

// Session summarizes one finished simulation for the org-mode report.
type Session struct {
	RunID   string
	Created time.Time
	Seed    int64
	Days    int

	Instruments []string

	StartBalance float64
	EndValue     float64
	NetReturn    float64
	ReturnPct    float64

	Transactions int
	Buys         int
	Sells        int
	Spent        float64
	Received     float64

	// Best and Worst are preformatted ("TechCorp (Day 3) +12.50"); empty when
	// no sale was matched.
	Best  string
	Worst string

	Notes []string
}

var sessionOrgFuncs = template.FuncMap{
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var sessionOrg = template.Must(template.New("session").Funcs(sessionOrgFuncs).Parse(SessionOrgTemplate))

// WriteOrg renders the session as an Org-mode entry.
func (s *Session) WriteOrg(w io.Writer) error {
	if err := sessionOrg.Execute(w, s); err != nil {
		return fmt.Errorf("render session: %w", err)
	}
	return nil
}

// WriteOrgFile renders the session into path.
func (s *Session) WriteOrgFile(path string) error {
	return writeFile(path, s.WriteOrg)
}

const SessionOrgTemplate = `* SESSION: {{range $i, $n := .Instruments}}{{if $i}} / {{end}}{{$n}}{{end}} ({{.Days}} days)
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:SEED:        {{.Seed}}
:DAYS:        {{.Days}}
:START_BAL:   {{printf "%.2f" .StartBalance}}
:END_VALUE:   {{printf "%.2f" .EndValue}}
:NET_RETURN:  {{printf "%.2f" .NetReturn}}
:RETURN_PCT:  {{printf "%.2f" .ReturnPct}}
:TRADES:      {{.Transactions}}
:BUYS:        {{.Buys}}
:SELLS:       {{.Sells}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Net Return:       *{{printf "%.2f" .NetReturn}}*
- Return:           *{{printf "%.2f" .ReturnPct}}%*
- Total Spent:      *{{printf "%.2f" .Spent}}*
- Total Received:   *{{printf "%.2f" .Received}}*
{{- if .Best }}
- Best Trade:       *{{.Best}}*
{{- end }}
{{- if .Worst }}
- Worst Trade:      *{{.Worst}}*
{{- end }}

** Trade Distribution
| Side  | Count |
|-------+-------|
| Buys  | {{.Buys}} |
| Sells | {{.Sells}} |
| Total | {{.Transactions}} |

{{- if .Notes }}

** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
