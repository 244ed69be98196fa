// Package view renders the landing page as HTML.
//
// Components are templ components built from small writer helpers. Text that
// comes from the remote API passes through a strict sanitizer; everything else
// is escaped. Messages are looked up in a Spanish and English catalog.
package view

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	"github.com/conneroisu/landing/internal/api"
	"github.com/conneroisu/landing/internal/section"
)

//go:embed static
var static embed.FS

// Assets returns the embedded stylesheet and live update script.
func Assets() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// PageData is everything the page needs to render.
type PageData struct {
	Locale language.Tag
	Year   int
	// LivePath is the websocket path the browser subscribes to. Empty
	// disables live updates.
	LivePath string
	Articles section.State[api.Article]
	Users    section.State[api.User]
	Stats    section.StatsState
}

// Page renders the whole document.
func Page(data PageData) templ.Component {
	m := NewMessages(data.Locale)

	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<!DOCTYPE html><html lang="` + templ.EscapeString(data.Locale.String()) + `"><head>`)
		hw.raw(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.raw(`<title>`)
		hw.text(m.Text(msgTitle))
		hw.raw(`</title><link rel="stylesheet" href="/static/styles.css"></head>`)
		if data.LivePath != "" {
			hw.raw(`<body data-live="` + templ.EscapeString(data.LivePath) + `">`)
		} else {
			hw.raw(`<body>`)
		}
		hw.raw(`<div class="app"><div id="home">`)
		hw.render(ctx, Header(m))
		hw.render(ctx, Navigation(m))
		hw.raw(`</div><main>`)
		hw.render(ctx, ArticlesSection(m, data.Articles))
		hw.render(ctx, UsersSection(m, data.Users))
		hw.render(ctx, StatsSection(m, data.Stats))
		hw.raw(`</main>`)
		hw.render(ctx, Footer(m, data.Year))
		hw.raw(`</div><script src="/static/live.js" defer></script></body></html>`)
	})
}

// Section renders the named section alone, as pushed to live pages.
func Section(name string, data PageData) (templ.Component, error) {
	m := NewMessages(data.Locale)
	switch name {
	case section.NameArticles:
		return ArticlesSection(m, data.Articles), nil
	case section.NameUsers:
		return UsersSection(m, data.Users), nil
	case section.NameStats:
		return StatsSection(m, data.Stats), nil
	default:
		return nil, fmt.Errorf("unknown section %q", name)
	}
}

// SectionNames lists the sections in page order.
func SectionNames() []string {
	return []string{section.NameArticles, section.NameUsers, section.NameStats}
}
