package descriptor

import (
	"strings"
	"text/template"
)

const documentTemplates = `
{{- define "tvshow" -}}
<?xml version="1.0" encoding="UTF-8" standalone="yes" ?>
<tvshow>
	<title>{{xml .Title}}</title>
	<year>{{xml .Year}}</year>
	<plot>{{xml .Plot}}</plot>
	<!-- Commented out so that no attempt is made to import from the web: <id>{{xml .ID}}</id> -->
	{{range .Genres}}<genre>{{xml .}}</genre>{{end}}
</tvshow>
{{- end -}}

{{- define "season" -}}
<?xml version="1.0" encoding="UTF-8" standalone="yes" ?>
<tvshow>
	<title>{{xml .Title}}</title>
	<sorttitle>{{xml .SortTitle}}</sorttitle>
	<season>{{xml .Season}}</season>
	<year>{{xml .Year}}</year>
	<plot>{{xml .Plot}}</plot>
	{{range .Genres}}<genre>{{xml .}}</genre>{{end}}
</tvshow>
{{- end -}}

{{- define "episode" -}}
<?xml version="1.0" encoding="UTF-8" standalone="yes" ?>
<episodedetails>
	<season>{{xml .Season}}</season>
	<displayseason>{{xml .DisplaySeason}}</displayseason>
	<episode>{{xml .Episode}}</episode>
	<title>{{xml .Title}}</title>
	<plot>{{xml .Plot}}</plot>
	<aired>{{xml .Aired}}</aired>
</episodedetails>
{{- end -}}
`

var xmlReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

var templates = template.Must(template.New("descriptor").
	Funcs(template.FuncMap{"xml": xmlReplacer.Replace}).
	Parse(documentTemplates))

type showFields struct {
	Title  string
	Year   string
	Plot   string
	ID     string
	Genres []string
}

type seasonFields struct {
	Title     string
	SortTitle string
	Season    string
	Year      string
	Plot      string
	Genres    []string
}

type episodeFields struct {
	Season        string
	DisplaySeason string
	Episode       string
	Title         string
	Plot          string
	Aired         string
}

func render(name string, data any) ([]byte, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return nil, err
	}
	out := strings.ReplaceAll(strings.TrimSpace(b.String()), "\r", "")
	return []byte(out), nil
}
