// Package mockapi is a local stand-in for the remote posts/users/comments/photos
// service. It generates a deterministic dataset and serves it with the same
// paths, JSON shapes and _limit handling as the real API, which makes it usable
// both as a test double and as an offline backend for `landing mock`.
package mockapi

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/conneroisu/landing/internal/api"
)

// Sizes is the number of records generated per resource.
type Sizes struct {
	Posts    int `json:"posts" yaml:"posts"`
	Users    int `json:"users" yaml:"users"`
	Comments int `json:"comments" yaml:"comments"`
	Photos   int `json:"photos" yaml:"photos"`
}

// DefaultSizes mirrors the size of the public service.
func DefaultSizes() Sizes {
	return Sizes{Posts: 100, Users: 10, Comments: 500, Photos: 5000}
}

// Dataset holds the records served by a Server.
type Dataset struct {
	Posts    []api.Article
	Users    []api.User
	Comments []api.Comment
	Photos   []api.Photo
}

// Generator builds records from a seeded source so runs are reproducible.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator for seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Generate builds a dataset with the requested sizes. Posts are spread over
// users ten at a time, comments over posts five at a time and photos over
// albums fifty at a time, like the public service.
func (g *Generator) Generate(sizes Sizes) *Dataset {
	ds := &Dataset{
		Posts:    make([]api.Article, 0, max(sizes.Posts, 0)),
		Users:    make([]api.User, 0, max(sizes.Users, 0)),
		Comments: make([]api.Comment, 0, max(sizes.Comments, 0)),
		Photos:   make([]api.Photo, 0, max(sizes.Photos, 0)),
	}

	for i := 0; i < sizes.Users; i++ {
		ds.Users = append(ds.Users, g.user(i+1))
	}
	for i := 0; i < sizes.Posts; i++ {
		ds.Posts = append(ds.Posts, api.Article{
			ID:     i + 1,
			UserID: i/10 + 1,
			Title:  g.title(),
			Body:   g.text(),
		})
	}
	for i := 0; i < sizes.Comments; i++ {
		ds.Comments = append(ds.Comments, api.Comment{
			PostID: i/5 + 1,
			ID:     i + 1,
			Name:   strings.ToLower(g.title()),
			Email:  g.email(g.firstName()),
			Body:   g.text(),
		})
	}
	for i := 0; i < sizes.Photos; i++ {
		color := g.color()
		ds.Photos = append(ds.Photos, api.Photo{
			AlbumID:      i/50 + 1,
			ID:           i + 1,
			Title:        strings.ToLower(g.title()),
			URL:          fmt.Sprintf("https://via.placeholder.com/600/%s", color),
			ThumbnailURL: fmt.Sprintf("https://via.placeholder.com/150/%s", color),
		})
	}

	return ds
}

var (
	firstNames = []string{"Leanne", "Ervin", "Clementine", "Patricia", "Chelsey", "Dennis", "Kurtis", "Nicholas", "Glenna", "Clementina"}
	lastNames  = []string{"Graham", "Howell", "Bauch", "Lebsack", "Dietrich", "Schulist", "Weissnat", "Runolfsdottir", "Reichert", "DuBuque"}
	cities     = []string{"Gwenborough", "Wisokyburgh", "McKenziehaven", "South Elvis", "Roscoeview", "South Christy", "Howemouth", "Aliyaview", "Bartholomebury", "Lebsackbury"}
	streets    = []string{"Kulas Light", "Victor Plains", "Douglas Extension", "Hoeger Mall", "Skiles Walks", "Norberto Crossing", "Rex Trail", "Ellsworth Summit", "Dayna Park", "Kattie Turnpike"}
	companies  = []string{"Romaguera-Crona", "Deckow-Crist", "Keebler LLC", "Robel-Corkery", "Keebler LLC", "Considine-Lockman", "Johns Group", "Abernathy Group", "Yost and Sons", "Hoeger LLC"}
	domains    = []string{"april.biz", "melissa.tv", "yesenia.net", "kory.org", "annie.ca", "jasper.info", "billy.biz", "rosamond.me", "dana.io", "karina.biz"}
	adjectives = []string{"Amazing", "Incredible", "Fantastic", "Outstanding", "Remarkable", "Excellent"}
	nouns      = []string{"Journey", "Feature", "Design", "Experience", "Solution", "Product"}
	sentences  = []string{
		"Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.",
		"Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat.",
		"Duis aute irure dolor in reprehenderit in voluptate velit esse cillum dolore eu fugiat nulla pariatur.",
		"Excepteur sint occaecat cupidatat non proident, sunt in culpa qui officia deserunt mollit anim id est laborum.",
	}
	colors = []string{"92c952", "771796", "24f355", "d32776", "f66b97", "56a8c2", "b0f7cc", "54176f", "51aa97", "810b14"}
)

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

func (g *Generator) firstName() string {
	return g.pick(firstNames)
}

func (g *Generator) user(id int) api.User {
	first := g.firstName()
	last := g.pick(lastNames)

	return api.User{
		ID:       id,
		Name:     first + " " + last,
		Username: fmt.Sprintf("%s.%s", first, strings.ToLower(last)),
		Email:    g.email(first),
		Phone: fmt.Sprintf("1-%03d-%03d-%04d",
			g.rng.Intn(900)+100, g.rng.Intn(900)+100, g.rng.Intn(10000)),
		Website: g.pick(domains),
		Address: api.Address{
			Street:  g.pick(streets),
			Suite:   fmt.Sprintf("Apt. %d", g.rng.Intn(999)+1),
			City:    g.pick(cities),
			Zipcode: fmt.Sprintf("%05d-%04d", g.rng.Intn(100000), g.rng.Intn(10000)),
		},
		Company: api.Company{
			Name: g.pick(companies),
		},
	}
}

func (g *Generator) email(name string) string {
	return fmt.Sprintf("%s@%s", strings.ToLower(name), g.pick(domains))
}

func (g *Generator) title() string {
	return fmt.Sprintf("%s %s", g.pick(adjectives), g.pick(nouns))
}

func (g *Generator) text() string {
	n := g.rng.Intn(2) + 1
	parts := make([]string, n)
	for i := range parts {
		parts[i] = g.pick(sentences)
	}
	return strings.Join(parts, " ")
}

func (g *Generator) color() string {
	return g.pick(colors)
}
