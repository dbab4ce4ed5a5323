package view

import (
	"embed"
	htmltemplate "html/template"
	"io"
	texttemplate "text/template"
)

//go:embed templates/*
var templateFS embed.FS

var (
	htmlTemplate = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/dashboard.html"))
	textTemplate = texttemplate.Must(texttemplate.New("dashboard.txt").
		Funcs(texttemplate.FuncMap{"inc": func(i int) int { return i + 1 }}).
		ParseFS(templateFS, "templates/dashboard.txt"))
)

func RenderHTML(w io.Writer, p *Page) error {
	return htmlTemplate.ExecuteTemplate(w, "dashboard.html", p)
}

func RenderText(w io.Writer, p *Page) error {
	return textTemplate.ExecuteTemplate(w, "dashboard.txt", p)
}
