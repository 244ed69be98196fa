package tui

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/conneroisu/landing/internal/api"
	"github.com/conneroisu/landing/internal/landing"
	"github.com/conneroisu/landing/internal/mockapi"
	"github.com/conneroisu/landing/internal/testutils"
)

func newPage(t *testing.T, locale language.Tag, faults map[string]mockapi.Fault) *landing.Page {
	t.Helper()

	_, baseURL := testutils.StartMockAPI(t, faults)

	opts := landing.DefaultOptions()
	opts.Locale = locale
	page := landing.NewPage(api.NewClient(baseURL), opts, nil)
	t.Cleanup(page.Unmount)
	return page
}

func settle(t *testing.T, page *landing.Page) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, page.Settled(ctx))
}

func TestViewWhileLoading(t *testing.T) {
	page := newPage(t, language.Spanish, nil)
	m := New(context.Background(), page)

	out := m.View()
	assert.Contains(t, out, "Landing Page")
	assert.Contains(t, out, "Artículos Recientes")
	assert.Contains(t, out, "Cargando artículos...")
	assert.Contains(t, out, "Cargando usuarios...")
	assert.Contains(t, out, "Cargando estadísticas...")
	assert.Contains(t, out, "q quit")
}

func TestViewAfterSettle(t *testing.T) {
	page := newPage(t, language.Spanish, nil)
	m := New(context.Background(), page)
	require.NotNil(t, m.Init())
	settle(t, page)

	out := m.View()
	assert.NotContains(t, out, "Cargando")
	assert.Contains(t, out, "Nuestro Equipo")

	articles := page.Articles().Items
	require.Len(t, articles, 6)
	for _, article := range articles {
		assert.Contains(t, out, article.Title)
	}
	for _, user := range page.Users().Items {
		assert.Contains(t, out, "@"+user.Username)
	}

	assert.Contains(t, out, "Usuarios Registrados")
	assert.Contains(t, out, "Fotos Compartidas")
}

func TestViewErrors(t *testing.T) {
	page := newPage(t, language.English, map[string]mockapi.Fault{
		api.ResourcePosts: {Status: http.StatusInternalServerError},
	})
	m := New(context.Background(), page)
	m.Init()
	settle(t, page)

	out := m.View()
	assert.Contains(t, out, "Error loading articles")
	assert.Contains(t, out, "Our Team")
	assert.Contains(t, out, "Loading statistics...", "statistics stay loading when a fetch fails")
}

func TestUpdate(t *testing.T) {
	t.Run("section change waits for the next one", func(t *testing.T) {
		page := newPage(t, language.Spanish, nil)
		m := New(context.Background(), page)

		m.changes <- "posts"
		_, cmd := m.Update(SectionChangedMsg{Name: "users"})
		require.NotNil(t, cmd)
		assert.Equal(t, SectionChangedMsg{Name: "posts"}, cmd())
	})

	t.Run("window size truncates titles", func(t *testing.T) {
		page := newPage(t, language.Spanish, nil)
		m := New(context.Background(), page)

		updated, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 10})
		model := updated.(Model)
		assert.Equal(t, 20, model.width)
		assert.Equal(t, "a long ar…", model.truncate("a long article title", 10))
		assert.Equal(t, "short", model.truncate("short", 10))
	})

	t.Run("quit", func(t *testing.T) {
		page := newPage(t, language.Spanish, nil)
		m := New(context.Background(), page)

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.Empty(t, updated.View())
	})

	t.Run("other keys are ignored", func(t *testing.T) {
		page := newPage(t, language.Spanish, nil)
		m := New(context.Background(), page)

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
		assert.Nil(t, cmd)
		assert.True(t, strings.Contains(updated.View(), "Landing Page"))
	})
}
