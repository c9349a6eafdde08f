package client

import (
	"fmt"
	"html/template"
	"io"

	"leetboard/internal/domain/model"

	"github.com/gosimple/slug"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

type card struct {
	Position   int
	Anchor     string
	Medal      string // gold, silver, bronze or empty
	Username   string
	ProfileURL string
	RankText   string
	Indicators []indicatorView
}

type indicatorView struct {
	Label   string
	Tier    string
	Solved  string
	Total   string
	Ratio   string
	Percent string
}

type page struct {
	Title   string
	State   string
	Message string
	Cards   []card
}

// Renderer turns a View into the board page. A page is written either in one
// go with Render, or streamed as RenderShell followed by RenderSettled.
type Renderer struct {
	tiers Tiers
	tmpl  *template.Template
}

func NewRenderer(tiers Tiers) *Renderer {
	return &Renderer{
		tiers: tiers,
		tmpl:  template.Must(template.New("board").Parse(boardTemplate)),
	}
}

func (r *Renderer) Render(w io.Writer, v View) error {
	if v.State == StateLoading {
		if err := r.RenderShell(w); err != nil {
			return err
		}
		return r.tmpl.ExecuteTemplate(w, "close", nil)
	}
	p := r.page(v)
	if err := r.tmpl.ExecuteTemplate(w, "open", p); err != nil {
		return err
	}
	return r.tmpl.ExecuteTemplate(w, "settled", p)
}

// RenderShell writes the document head and the loading view.
func (r *Renderer) RenderShell(w io.Writer) error {
	p := r.page(View{State: StateLoading})
	if err := r.tmpl.ExecuteTemplate(w, "open", p); err != nil {
		return err
	}
	return r.tmpl.ExecuteTemplate(w, "loading", p)
}

// RenderSettled completes a page started by RenderShell. It hides the loading
// view so only the settled state is visible.
func (r *Renderer) RenderSettled(w io.Writer, v View) error {
	if _, err := io.WriteString(w, hideLoading); err != nil {
		return err
	}
	return r.tmpl.ExecuteTemplate(w, "settled", r.page(v))
}

func (r *Renderer) page(v View) page {
	p := page{Title: "LeetBoard", State: v.State.String(), Message: v.Message}
	switch v.State {
	case StateLoading:
		p.Message = "Loading leaderboard…"
	case StateLoaded:
		for _, e := range model.Entries(v.Snapshot) {
			p.Cards = append(p.Cards, r.card(e))
		}
	}
	return p
}

func (r *Renderer) card(e model.LeaderboardEntry) card {
	s := e.Stats
	c := card{
		Position:   e.Position,
		Anchor:     fmt.Sprintf("card-%d-%s", e.Position, slug.Make(s.Username)),
		Medal:      medal(e.Position),
		Username:   s.Username,
		ProfileURL: s.ProfileURL,
		RankText:   r.rankText(s.WorldwideRank),
	}
	for _, ind := range r.tiers.Indicators(s) {
		c.Indicators = append(c.Indicators, indicatorView{
			Label:   ind.Label,
			Tier:    ind.Tier,
			Solved:  optional(ind.Solved),
			Total:   printer.Sprintf("%d", ind.Total),
			Ratio:   fmt.Sprintf("%.4f", ind.Ratio),
			Percent: fmt.Sprintf("%.0f%%", ind.Ratio*100),
		})
	}
	return c
}

func (r *Renderer) rankText(rank *int) string {
	if rank == nil {
		return ""
	}
	return printer.Sprintf("#%d / %d", *rank, r.tiers.TotalUsers)
}

func medal(position int) string {
	switch position {
	case 1:
		return "gold"
	case 2:
		return "silver"
	case 3:
		return "bronze"
	}
	return ""
}

// Unknown counts render as a dash, never as 0.
func optional(v *int) string {
	if v == nil {
		return "-"
	}
	return printer.Sprintf("%d", *v)
}

const hideLoading = "<style>#loading{display:none}</style>\n"

const boardTemplate = `
{{- define "open" -}}
<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
{{end}}

{{- define "loading" -}}
<p id="loading" class="loading" data-state="loading">{{.Message}}</p>
{{end}}

{{- define "close" -}}
</body>
</html>
{{end}}

{{- define "settled" -}}
{{- if eq .State "error" -}}
<div class="error" role="alert" data-state="error">
<p><strong>Error Loading Data!</strong></p>
<p>{{.Message}}</p>
</div>
{{- else if eq .State "empty" -}}
<p class="empty" data-state="empty">{{.Message}}</p>
{{- else -}}
<ol class="leaderboard" data-state="loaded">
{{- range .Cards}}
<li id="{{.Anchor}}" class="card{{if .Medal}} medal-{{.Medal}}{{end}}">
<a href="{{.ProfileURL}}" target="_blank" rel="noopener noreferrer">
<span class="position">{{.Position}}</span>
<span class="username">@{{.Username}}</span>
<span class="rank">Rank: {{.RankText}}</span>
{{- range .Indicators}}
<span class="stat stat-{{.Tier}}" data-ratio="{{.Ratio}}">{{.Label}} {{.Solved}}/{{.Total}}
<progress value="{{.Ratio}}" max="1">{{.Percent}}</progress></span>
{{- end}}
</a>
</li>
{{- end}}
</ol>
{{- end}}
{{template "close"}}
{{- end}}
`
