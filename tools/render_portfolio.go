package main

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"portfolio-editor/internal/normalize"
	"portfolio-editor/internal/preview"
)

// Renders a portfolio document from a JSON file straight to HTML, for
// eyeballing template changes without a running server.
func main() {
	in := "portfolio_sample.json"
	if len(os.Args) > 1 {
		in = os.Args[1]
	}
	b, err := os.ReadFile(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read document: %v\n", err)
		os.Exit(2)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal: %v\n", err)
		os.Exit(2)
	}

	doc := normalize.Normalize(m)
	page := map[string]interface{}{
		"Name":     doc.String("name"),
		"Theme":    doc.SelectedTheme(),
		"Sections": preview.Project(doc, doc.SectionOrder(), nil),
		"Draft":    false,
	}

	tpl, err := template.ParseFiles(filepath.Join("templates", "portfolio.html"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse tpl: %v\n", err)
		os.Exit(2)
	}

	outFile := "portfolio_preview.html"
	f, err := os.Create(outFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create out: %v\n", err)
		os.Exit(2)
	}
	defer f.Close()
	if err := tpl.Execute(f, page); err != nil {
		fmt.Fprintf(os.Stderr, "execute tpl: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("wrote %s\n", outFile)
}
