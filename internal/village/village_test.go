package village

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwezi/villagequest/internal/geo"
)

func testVillages() []Village {
	return []Village{
		{ID: "a", Kind: KindPrefecture, Coordinates: geo.Coordinate{Latitude: 0, Longitude: 0}},
		{ID: "b", Kind: KindCommune, Coordinates: geo.Coordinate{Latitude: 0, Longitude: 2}},
		{ID: "c", Kind: KindCommune, Coordinates: geo.Coordinate{Latitude: 2, Longitude: 2}},
	}
}

func testPath(from, to string, req Requirement) Path {
	return Path{
		From:        from,
		To:          to,
		Coordinates: []geo.Coordinate{{Latitude: 0, Longitude: 0}, {Latitude: 1, Longitude: 1}, {Latitude: 2, Longitude: 2}},
		Requirement: req,
	}
}

func TestMayotteCatalog(t *testing.T) {
	g := Mayotte()

	assert.Equal(t, StartVillage, g.Start())
	assert.Equal(t, 17, g.Len())
	assert.Equal(t, 16, g.QuizCount())

	start, ok := g.Village(StartVillage)
	require.True(t, ok)
	assert.Equal(t, KindPrefecture, start.Kind)
	assert.True(t, start.HasQuiz())

	for _, p := range g.Paths() {
		from, _ := g.Village(p.From)
		to, _ := g.Village(p.To)
		assert.Equal(t, from.Coordinates, p.Coordinates[0], "path %s-%s must start at %s", p.From, p.To, p.From)
		assert.Equal(t, to.Coordinates, p.Coordinates[len(p.Coordinates)-1], "path %s-%s must end at %s", p.From, p.To, p.To)
		assert.Positive(t, p.Distance)
	}

	for _, v := range g.Villages() {
		assert.True(t, v.Coordinates.Valid(), v.ID)
		if q := v.Meta.Quiz; q != nil {
			assert.GreaterOrEqual(t, q.CorrectIndex, 0, v.ID)
			assert.Less(t, q.CorrectIndex, len(q.Options), v.ID)
		}
	}
}

func TestMayotteEveryVillageHasAPath(t *testing.T) {
	g := Mayotte()
	for _, v := range g.Villages() {
		assert.NotEmpty(t, g.PathsFrom(v.ID), v.ID)
	}
}

func TestBadgesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, b := range Badges() {
		assert.False(t, seen[b.ID], "duplicate badge %s", b.ID)
		seen[b.ID] = true
	}
}

func TestNewGraphValidation(t *testing.T) {
	tests := []struct {
		name     string
		villages []Village
		paths    []Path
		wantErr  error
	}{
		{
			name:     "duplicate village",
			villages: append(testVillages(), Village{ID: "a", Kind: KindCommune}),
			wantErr:  ErrDuplicateVillage,
		},
		{
			name:     "no prefecture",
			villages: []Village{{ID: "x", Kind: KindCommune}},
			wantErr:  ErrPrefecture,
		},
		{
			name:     "two prefectures",
			villages: append(testVillages(), Village{ID: "d", Kind: KindPrefecture}),
			wantErr:  ErrPrefecture,
		},
		{
			name:     "unknown endpoint",
			villages: testVillages(),
			paths:    []Path{testPath("a", "zz", Requirement{Type: RequireVisit, Village: "a"})},
			wantErr:  ErrUnknownVillage,
		},
		{
			name:     "empty polyline",
			villages: testVillages(),
			paths:    []Path{{From: "a", To: "b", Requirement: Requirement{Type: RequireVisit, Village: "a"}}},
			wantErr:  ErrEmptyPath,
		},
		{
			name:     "visit unknown village",
			villages: testVillages(),
			paths:    []Path{testPath("a", "b", Requirement{Type: RequireVisit, Village: "nope"})},
			wantErr:  ErrInvalidRequirement,
		},
		{
			name:     "unknown requirement type",
			villages: testVillages(),
			paths:    []Path{testPath("a", "b", Requirement{Type: "teleport"})},
			wantErr:  ErrInvalidRequirement,
		},
		{
			name:     "visitAll is a badge-only requirement",
			villages: testVillages(),
			paths:    []Path{testPath("a", "b", Requirement{Type: RequireVisitAll})},
			wantErr:  ErrInvalidRequirement,
		},
		{
			name:     "negative count",
			villages: testVillages(),
			paths:    []Path{testPath("a", "b", Requirement{Type: RequireVisitCount, Count: -1})},
			wantErr:  ErrInvalidRequirement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGraph(tt.villages, tt.paths)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGraphLookups(t *testing.T) {
	g, err := NewGraph(testVillages(), []Path{
		testPath("a", "c", Requirement{Type: RequireVisit, Village: "a"}),
	})
	require.NoError(t, err)

	assert.Equal(t, "a", g.Start())
	assert.InDelta(t, 2.0/3, g.Center().Latitude, 1e-9)
	assert.InDelta(t, 4.0/3, g.Center().Longitude, 1e-9)

	p, ok := g.PathBetween("c", "a")
	require.True(t, ok, "paths are usable in both directions")
	assert.Equal(t, "a", p.From)

	_, ok = g.PathBetween("a", "b")
	assert.False(t, ok)

	assert.Len(t, g.PathsFrom("c"), 1)
	assert.Empty(t, g.PathsFrom("b"))

	_, ok = g.Village("missing")
	assert.False(t, ok)
}

func TestPathOriented(t *testing.T) {
	p := testPath("a", "c", Requirement{Type: RequireVisit, Village: "a"})

	fwd := p.Oriented("a")
	assert.Equal(t, p.Coordinates, fwd)

	rev := p.Oriented("c")
	require.Len(t, rev, 3)
	assert.Equal(t, p.Coordinates[2], rev[0])
	assert.Equal(t, p.Coordinates[0], rev[2])

	// The authored polyline is left untouched.
	assert.Equal(t, geo.Coordinate{Latitude: 0, Longitude: 0}, p.Coordinates[0])
	assert.Equal(t, "c", p.Other("a"))
	assert.Equal(t, "a", p.Other("c"))
}

func TestGraphAccessorsReturnCopies(t *testing.T) {
	g := MustGraph(testVillages(), nil)
	vs := g.Villages()
	vs[0].ID = "mutated"

	_, ok := g.Village("a")
	assert.True(t, ok)
	assert.Equal(t, "a", g.Villages()[0].ID)
}

func TestGraphSharesNoMemory(t *testing.T) {
	vs := testVillages()
	vs[1].Meta.Quiz = &Quiz{Question: "?", Options: []string{"x", "y"}, CorrectIndex: 0}
	ps := []Path{testPath("a", "b", Requirement{Type: RequireVisit, Village: "a"})}
	g := MustGraph(vs, ps)

	// Caller input edited after construction.
	vs[1].Meta.Quiz.CorrectIndex = 1
	vs[1].Meta.Quiz.Options[0] = "edited"
	ps[0].Coordinates[0].Latitude = 99

	// Returned values edited in place.
	all := g.Villages()
	all[1].Meta.Quiz.CorrectIndex = 1
	all[1].Meta.Quiz.Options[1] = "edited"
	b, _ := g.Village("b")
	b.Meta.Quiz.Question = "edited"
	g.Paths()[0].Coordinates[1].Latitude = 99
	between, _ := g.PathBetween("a", "b")
	between.Coordinates[2].Latitude = 99
	g.PathsFrom("a")[0].Coordinates[0].Longitude = 99

	got, ok := g.Village("b")
	require.True(t, ok)
	assert.Equal(t, Quiz{Question: "?", Options: []string{"x", "y"}, CorrectIndex: 0}, *got.Meta.Quiz)

	path, ok := g.PathBetween("a", "b")
	require.True(t, ok)
	assert.Equal(t, testPath("a", "b", Requirement{}).Coordinates, path.Coordinates)
}
