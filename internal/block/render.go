package block

import (
	"bytes"
	"html/template"
	"log"

	"github.com/i474232898/weather-block/internal/weather"
)

// DefaultErrorMessage is the only failure text users ever see.
const DefaultErrorMessage = "Unable to load weather right now."

var (
	loadingTmpl = template.Must(template.New("loading").Parse(`
<div class="weather-skeleton" aria-hidden="true">
  <div class="bar"></div>
  <div class="bar short"></div>
</div>
`))

	errorTmpl = template.Must(template.New("error").Parse(
		`<div class="weather-error" role="alert">{{.}}</div>`))

	cardTmpl = template.Must(template.New("card").Parse(`
<article class="weather-card" aria-live="polite">
  <header class="weather-city">{{.City}}</header>
  <div class="weather-temp">{{.RoundedTemp}}°C</div>
  <div class="weather-cond">{{.Condition}}</div>
</article>
`))
)

// RenderLoading replaces the region with a decorative skeleton.
func RenderLoading(r Region) {
	r.SetHTML(execute(loadingTmpl, nil))
}

// RenderError replaces the region with an alert. An empty message selects
// DefaultErrorMessage.
func RenderError(r Region, message string) {
	if message == "" {
		message = DefaultErrorMessage
	}
	r.SetHTML(execute(errorTmpl, message))
}

// RenderSuccess replaces the region with the weather card.
func RenderSuccess(r Region, m weather.DisplayModel) {
	r.SetHTML(execute(cardTmpl, m))
}

func execute(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		// Templates are static and their inputs are plain values.
		log.Printf("ERROR: render %s: %v", t.Name(), err)
		return ""
	}
	return buf.String()
}
