// Package render formats generated posts for the terminal and for standalone HTML export.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"

	"social_post_generator/generator"
)

// HashtagLine prefixes each tag with a single '#' and joins them with spaces.
func HashtagLine(tags []string) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimLeft(strings.TrimSpace(t), "#")
		if t == "" {
			continue
		}
		parts = append(parts, "#"+t)
	}
	return strings.Join(parts, " ")
}

// CopyText is the clipboard payload: headline, caption and space-joined hashtags separated by
// blank lines, skipping empty parts.
func CopyText(p generator.Post) string {
	var parts []string
	for _, s := range []string{p.Headline, p.Caption, strings.Join(p.Hashtags, " ")} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Text writes a numbered plain-text listing of posts.
func Text(w io.Writer, posts []generator.Post) error {
	if len(posts) == 0 {
		_, err := fmt.Fprintln(w, "No posts generated.")
		return err
	}
	for i, p := range posts {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "[%d] Platform: %s\n", i+1, p.Platform); err != nil {
			return err
		}
		if p.Headline != "" {
			if _, err := fmt.Fprintln(w, p.Headline); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, p.Caption); err != nil {
			return err
		}
		if line := HashtagLine(p.Hashtags); line != "" {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

type card struct {
	Headline string
	Caption  template.HTML
	Hashtags string
	Platform string
}

var pageTmpl = template.Must(template.New("posts").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{- range .Cards}}
<section class="post">
{{- if .Headline}}
<h2>{{.Headline}}</h2>
{{- end}}
<div class="caption">{{.Caption}}</div>
{{- if .Hashtags}}
<p class="hashtags">{{.Hashtags}}</p>
{{- end}}
<p class="platform">Platform: <span>{{.Platform}}</span></p>
</section>
{{- else}}
<p>No posts generated.</p>
{{- end}}
</body>
</html>
`))

// HTML renders posts as a standalone page. Captions are treated as Markdown; raw HTML inside
// them is dropped by goldmark's safe default.
func HTML(title string, posts []generator.Post) (string, error) {
	cards := make([]card, 0, len(posts))
	for _, p := range posts {
		caption, err := mdToHTML(p.Caption)
		if err != nil {
			return "", err
		}
		cards = append(cards, card{
			Headline: p.Headline,
			Caption:  template.HTML(caption),
			Hashtags: HashtagLine(p.Hashtags),
			Platform: p.Platform,
		})
	}
	var buf bytes.Buffer
	err := pageTmpl.Execute(&buf, struct {
		Title string
		Cards []card
	}{Title: title, Cards: cards})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func mdToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
