package view

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"

	"github.com/conneroisu/landing/internal/api"
	"github.com/conneroisu/landing/internal/section"
)

// remote strips every tag from third-party text and escapes what is left.
var remote = bluemonday.StrictPolicy()

// htmlWriter keeps the first write error so components can write without
// checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

// text writes trusted text, escaped.
func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

// remote writes text fetched from the API.
func (hw *htmlWriter) remote(s string) {
	hw.raw(remote.Sanitize(s))
}

func (hw *htmlWriter) render(ctx context.Context, c templ.Component) {
	if hw.err != nil {
		return
	}
	hw.err = c.Render(ctx, hw.w)
}

func component(fn func(ctx context.Context, hw *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		fn(ctx, hw)
		return hw.err
	})
}

// LoadingSpinner shows a spinner with message. An empty message uses the
// generic loading text.
func LoadingSpinner(m *Messages, message string) templ.Component {
	if message == "" {
		message = m.Text(msgLoading)
	}
	return component(func(_ context.Context, hw *htmlWriter) {
		hw.raw(`<div class="loading" role="status"><div class="spinner"></div>`)
		hw.text(message)
		hw.raw(`</div>`)
	})
}

// Header renders the page title block.
func Header(m *Messages) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		hw.raw(`<header class="header"><div class="container"><h1>`)
		hw.text(m.Text(msgTitle))
		hw.raw(`</h1><p>`)
		hw.text(m.Text(msgTagline))
		hw.raw(`</p></div></header>`)
	})
}

// Navigation renders the links to the page sections.
func Navigation(m *Messages) templ.Component {
	links := []struct {
		anchor string
		label  string
	}{
		{"home", msgNavHome},
		{section.NameArticles, msgNavArticles},
		{section.NameUsers, msgNavUsers},
		{section.NameStats, msgNavStats},
	}

	return component(func(_ context.Context, hw *htmlWriter) {
		hw.raw(`<nav class="nav"><div class="container"><ul>`)
		for _, link := range links {
			hw.raw(`<li><a href="#` + link.anchor + `">`)
			hw.text(m.Text(link.label))
			hw.raw(`</a></li>`)
		}
		hw.raw(`</ul></div></nav>`)
	})
}

// Footer renders the copyright line for year.
func Footer(m *Messages, year int) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		hw.raw(`<footer class="footer"><div class="container"><p>`)
		hw.text(m.Text(msgFooter, year))
		hw.raw(`</p></div></footer>`)
	})
}

// PostCard renders one article.
func PostCard(m *Messages, article api.Article) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		hw.raw(`<div class="post-card"><h3>`)
		hw.remote(article.Title)
		hw.raw(`</h3><p>`)
		hw.remote(article.Body)
		hw.raw(`</p><div class="post-meta"><span>`)
		hw.text(m.Text(msgPostNumber, article.ID))
		hw.raw(`</span><span>`)
		hw.text(m.Text(msgPostAuthor, article.UserID))
		hw.raw(`</span></div></div>`)
	})
}

// UserCard renders one team member.
func UserCard(m *Messages, user api.User) templ.Component {
	fields := []struct {
		label string
		value string
	}{
		{msgEmail, user.Email},
		{msgPhone, user.Phone},
		{msgWebsite, user.Website},
		{msgCity, user.Address.City},
	}

	return component(func(_ context.Context, hw *htmlWriter) {
		hw.raw(`<div class="user-card"><div class="user-avatar">`)
		hw.remote(Initials(user.Name))
		hw.raw(`</div><h3>`)
		hw.remote(user.Name)
		hw.raw(`</h3><p><strong>@`)
		hw.remote(user.Username)
		hw.raw(`</strong></p><div class="user-contact">`)
		for _, field := range fields {
			hw.raw(`<p><strong>`)
			hw.text(m.Text(field.label))
			hw.raw(`:</strong> `)
			hw.remote(field.value)
			hw.raw(`</p>`)
		}
		hw.raw(`</div></div>`)
	})
}

// sectionOpen writes the element every section state is wrapped in, so the
// anchor and the live update target exist in every phase.
func sectionOpen(hw *htmlWriter, name string, phase section.Phase) {
	hw.raw(`<section id="` + name + `" class="section" data-phase="` + phase.String() + `"><div class="container">`)
}

func sectionClose(hw *htmlWriter) {
	hw.raw(`</div></section>`)
}

func errorBox(hw *htmlWriter, m *Messages, key string) {
	hw.raw(`<div class="error" role="alert">`)
	hw.text(m.Text(key))
	hw.raw(`</div>`)
}

// ArticlesSection renders the articles section in its current phase.
func ArticlesSection(m *Messages, state section.State[api.Article]) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		sectionOpen(hw, section.NameArticles, state.Phase)
		switch state.Phase {
		case section.PhaseSuccess:
			hw.raw(`<h2>`)
			hw.text(m.Text(msgArticlesHeading))
			hw.raw(`</h2><div class="posts-grid">`)
			for _, article := range state.Items {
				hw.render(ctx, PostCard(m, article))
			}
			hw.raw(`</div>`)
		case section.PhaseError:
			errorBox(hw, m, state.ErrorMessage)
		default:
			hw.render(ctx, LoadingSpinner(m, m.Text(msgLoadingArticles)))
		}
		sectionClose(hw)
	})
}

// UsersSection renders the users section in its current phase.
func UsersSection(m *Messages, state section.State[api.User]) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		sectionOpen(hw, section.NameUsers, state.Phase)
		switch state.Phase {
		case section.PhaseSuccess:
			hw.raw(`<h2>`)
			hw.text(m.Text(msgUsersHeading))
			hw.raw(`</h2><div class="users-grid">`)
			for _, user := range state.Items {
				hw.render(ctx, UserCard(m, user))
			}
			hw.raw(`</div>`)
		case section.PhaseError:
			errorBox(hw, m, state.ErrorMessage)
		default:
			hw.render(ctx, LoadingSpinner(m, m.Text(msgLoadingUsers)))
		}
		sectionClose(hw)
	})
}

// StatsSection renders the statistics section in its current phase.
func StatsSection(m *Messages, state section.StatsState) templ.Component {
	figures := []struct {
		value int
		label string
	}{
		{state.Snapshot.Posts, msgStatPosts},
		{state.Snapshot.Users, msgStatUsers},
		{state.Snapshot.Comments, msgStatComments},
		{state.Snapshot.Photos, msgStatPhotos},
	}

	return component(func(ctx context.Context, hw *htmlWriter) {
		sectionOpen(hw, section.NameStats, state.Phase)
		switch state.Phase {
		case section.PhaseReady:
			hw.raw(`<div class="stats"><h2>`)
			hw.text(m.Text(msgStatsHeading))
			hw.raw(`</h2><div class="stats-grid">`)
			for _, figure := range figures {
				hw.raw(`<div class="stat-item"><h3 data-value="` + strconv.Itoa(figure.value) + `">`)
				hw.text(m.Number(figure.value))
				hw.raw(`</h3><p>`)
				hw.text(m.Text(figure.label))
				hw.raw(`</p></div>`)
			}
			hw.raw(`</div></div>`)
		case section.PhaseError:
			errorBox(hw, m, state.ErrorMessage)
		default:
			hw.render(ctx, LoadingSpinner(m, m.Text(msgLoadingStats)))
		}
		sectionClose(hw)
	})
}
