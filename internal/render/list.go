package render

import (
	"html/template"
	"strings"
)

type entry struct {
	id   string
	html template.HTML
}

// List mirrors the rendered workouts container. Entries are inserted right
// after the form, so the newest one is on top.
type List struct {
	entries []entry
}

func (l *List) Insert(id string, html template.HTML) {
	l.entries = append([]entry{{id: id, html: html}}, l.entries...)
}

// Remove drops the entry for id and reports whether it existed.
func (l *List) Remove(id string) bool {
	for i, e := range l.entries {
		if e.id == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (l *List) Len() int { return len(l.entries) }

// IDs returns the entry ids top to bottom.
func (l *List) IDs() []string {
	ids := make([]string, len(l.entries))
	for i, e := range l.entries {
		ids[i] = e.id
	}
	return ids
}

func (l *List) HTML() template.HTML {
	var sb strings.Builder
	for _, e := range l.entries {
		sb.WriteString(string(e.html))
	}
	return template.HTML(sb.String())
}
