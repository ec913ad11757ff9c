package view

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/w-h-a/recipes/storer"
)

// DefaultSimilarity pre-fills the search form when no cutoff was submitted.
const DefaultSimilarity = 0.4

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type form struct {
	Query      string
	Similarity string
}

type result struct {
	Id         int64
	Title      string
	Similarity float64
	Scored     bool
}

type page struct {
	Form    form
	Heading string
	Results []result
}

// Index renders every record with an empty search form.
func Index(w io.Writer, records []storer.Record) error {
	results := make([]result, 0, len(records))
	for _, rec := range records {
		results = append(results, result{Id: rec.Id, Title: rec.Title})
	}

	return render(w, page{
		Form:    form{Similarity: formatSimilarity(DefaultSimilarity)},
		Heading: "All Recipes",
		Results: results,
	})
}

// Search renders ranked matches with the form echoing the submitted values.
func Search(w io.Writer, query string, similarity float64, matches []storer.Match) error {
	results := make([]result, 0, len(matches))
	for _, m := range matches {
		results = append(results, result{Id: m.Id, Title: m.Title, Similarity: m.Similarity, Scored: true})
	}

	return render(w, page{
		Form:    form{Query: query, Similarity: formatSimilarity(similarity)},
		Results: results,
	})
}

// render buffers so a template failure never leaves a half-written page.
func render(w io.Writer, p page) error {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, "layout", p); err != nil {
		return goerr.Wrap(err, "failed to render page")
	}
	if _, err := buf.WriteTo(w); err != nil {
		return goerr.Wrap(err, "failed to write page")
	}
	return nil
}

func formatSimilarity(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
