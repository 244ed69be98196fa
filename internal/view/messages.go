package view

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/conneroisu/landing/internal/section"
)

// LocaleAuto selects the locale from the request's Accept-Language header.
const LocaleAuto = "auto"

// Supported lists the page locales. The first entry is the default.
var Supported = []language.Tag{language.Spanish, language.English}

var matcher = language.NewMatcher(Supported)

// Message keys. Keys are the English text.
const (
	msgLoading         = "Loading..."
	msgLoadingArticles = "Loading articles..."
	msgLoadingUsers    = "Loading users..."
	msgLoadingStats    = "Loading statistics..."
	msgTitle           = "Landing Page"
	msgTagline         = "A modern landing page that consumes public APIs to show dynamic, up-to-date content"
	msgNavHome         = "Home"
	msgNavArticles     = "Articles"
	msgNavUsers        = "Users"
	msgNavStats        = "Statistics"
	msgArticlesHeading = "Recent Articles"
	msgUsersHeading    = "Our Team"
	msgStatsHeading    = "Real-Time Statistics"
	msgStatPosts       = "Published Articles"
	msgStatUsers       = "Registered Users"
	msgStatComments    = "Total Comments"
	msgStatPhotos      = "Shared Photos"
	msgPostNumber      = "Post #%d"
	msgPostAuthor      = "User ID: %d"
	msgEmail           = "Email"
	msgPhone           = "Phone"
	msgWebsite         = "Website"
	msgCity            = "City"
	msgFooter          = "© %d Landing Page. Built with Go and the JSONPlaceholder API."
)

var translations = []struct {
	key string
	es  string
	en  string
}{
	{msgLoading, "Cargando...", msgLoading},
	{msgLoadingArticles, "Cargando artículos...", msgLoadingArticles},
	{msgLoadingUsers, "Cargando usuarios...", msgLoadingUsers},
	{msgLoadingStats, "Cargando estadísticas...", msgLoadingStats},
	{section.ArticlesFailure, "Error al cargar los artículos", "Error loading articles"},
	{section.UsersFailure, "Error al cargar los usuarios", "Error loading users"},
	{section.StatsFailure, "Error al cargar las estadísticas", "Error loading statistics"},
	{msgTitle, "Landing Page", msgTitle},
	{msgTagline, "Una moderna landing page que consume datos de APIs públicas para mostrar contenido dinámico y actualizado", msgTagline},
	{msgNavHome, "Inicio", msgNavHome},
	{msgNavArticles, "Artículos", msgNavArticles},
	{msgNavUsers, "Usuarios", msgNavUsers},
	{msgNavStats, "Estadísticas", msgNavStats},
	{msgArticlesHeading, "Artículos Recientes", msgArticlesHeading},
	{msgUsersHeading, "Nuestro Equipo", msgUsersHeading},
	{msgStatsHeading, "Estadísticas en Tiempo Real", msgStatsHeading},
	{msgStatPosts, "Artículos Publicados", msgStatPosts},
	{msgStatUsers, "Usuarios Registrados", msgStatUsers},
	{msgStatComments, "Comentarios Totales", msgStatComments},
	{msgStatPhotos, "Fotos Compartidas", msgStatPhotos},
	{msgPostNumber, "Post #%d", msgPostNumber},
	{msgPostAuthor, "Usuario ID: %d", msgPostAuthor},
	{msgEmail, "Email", msgEmail},
	{msgPhone, "Teléfono", msgPhone},
	{msgWebsite, "Website", msgWebsite},
	{msgCity, "Ciudad", msgCity},
	{msgFooter, "© %d Landing Page. Desarrollado con Go y JSONPlaceholder API.", msgFooter},
}

var messages = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder()
	for _, t := range translations {
		if err := b.SetString(language.Spanish, t.key, t.es); err != nil {
			panic(fmt.Sprintf("catalog entry %q: %v", t.key, err))
		}
		if err := b.SetString(language.English, t.key, t.en); err != nil {
			panic(fmt.Sprintf("catalog entry %q: %v", t.key, err))
		}
	}
	return b
}

// Messages prints catalog messages and numbers for one locale.
type Messages struct {
	tag     language.Tag
	printer *message.Printer
}

// NewMessages returns the messages of tag, which should be one of Supported.
func NewMessages(tag language.Tag) *Messages {
	return &Messages{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(messages)),
	}
}

// Tag returns the locale of the messages.
func (m *Messages) Tag() language.Tag {
	return m.tag
}

// Text returns the translation of key formatted with args.
func (m *Messages) Text(key string, args ...interface{}) string {
	return m.printer.Sprintf(key, args...)
}

// Number formats n with the digit grouping of the locale.
func (m *Messages) Number(n int) string {
	return m.printer.Sprintf("%d", n)
}

// Title returns the page title.
func (m *Messages) Title() string {
	return m.Text(msgTitle)
}

// Heading returns the heading of the named section.
func (m *Messages) Heading(name string) string {
	switch name {
	case section.NameArticles:
		return m.Text(msgArticlesHeading)
	case section.NameUsers:
		return m.Text(msgUsersHeading)
	case section.NameStats:
		return m.Text(msgStatsHeading)
	}
	return name
}

// LoadingText returns the message shown while the named section loads.
func (m *Messages) LoadingText(name string) string {
	switch name {
	case section.NameArticles:
		return m.Text(msgLoadingArticles)
	case section.NameUsers:
		return m.Text(msgLoadingUsers)
	case section.NameStats:
		return m.Text(msgLoadingStats)
	}
	return m.Text(msgLoading)
}

// StatLabels returns the labels of the posts, users, comments and photos
// figures, in that order.
func (m *Messages) StatLabels() [4]string {
	return [4]string{
		m.Text(msgStatPosts),
		m.Text(msgStatUsers),
		m.Text(msgStatComments),
		m.Text(msgStatPhotos),
	}
}

// ParseLocale checks a locale setting. It accepts LocaleAuto and any BCP 47 tag.
func ParseLocale(setting string) error {
	if strings.EqualFold(setting, LocaleAuto) {
		return nil
	}
	if _, err := language.Parse(setting); err != nil {
		return fmt.Errorf("invalid locale %q: %w", setting, err)
	}
	return nil
}

// MatchLocale resolves the page locale. A fixed setting wins; with LocaleAuto or
// an empty setting the Accept-Language header decides. Anything unmatched falls
// back to the default locale.
func MatchLocale(setting, acceptLanguage string) language.Tag {
	var tags []language.Tag
	if setting != "" && !strings.EqualFold(setting, LocaleAuto) {
		if tag, err := language.Parse(setting); err == nil {
			tags = []language.Tag{tag}
		}
	} else {
		tags, _, _ = language.ParseAcceptLanguage(acceptLanguage)
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Supported[0]
	}
	return Supported[index]
}
