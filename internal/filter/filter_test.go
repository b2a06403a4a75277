package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardomso/mdstrip/internal/alttext"
)

func link(u string) alttext.Link {
	return alttext.Link{Alt: "label", URL: u, Kind: alttext.KindLink}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("EmptyConfig", func(t *testing.T) {
		t.Parallel()
		f, err := New(Config{})
		require.NoError(t, err)
		assert.False(t, f.HasRules())
	})

	t.Run("BlankEntriesSkipped", func(t *testing.T) {
		t.Parallel()
		f, err := New(Config{Domains: []string{" "}, GlobPatterns: []string{""}, RegexPatterns: []string{"  "}})
		require.NoError(t, err)
		assert.False(t, f.HasRules())
	})

	t.Run("InvalidGlob", func(t *testing.T) {
		t.Parallel()
		_, err := New(Config{GlobPatterns: []string{"[invalid"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid glob pattern")
	})

	t.Run("InvalidRegex", func(t *testing.T) {
		t.Parallel()
		_, err := New(Config{RegexPatterns: []string{"[invalid"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid regex pattern")
	})
}

func TestShouldIgnore(t *testing.T) {
	t.Parallel()

	f, err := New(Config{
		Domains:       []string{"Example.com"},
		GlobPatterns:  []string{"*.local/*"},
		RegexPatterns: []string{`\.test$`},
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		url      string
		ignored  bool
		ruleType string
	}{
		{"ExactDomain", "https://example.com/a", true, RuleDomain},
		{"Subdomain", "https://api.example.com", true, RuleDomain},
		{"SimilarDomain", "https://notexample.com", false, ""},
		{"Glob", "http://app.local/login", true, RulePattern},
		{"Regex", "https://site.test", true, RuleRegex},
		{"RelativeURL", "docs/readme.md", false, ""},
		{"Plain", "https://golang.org", false, ""},
	}

	for _, tt := range tests {
		got := f.ShouldIgnore(link(tt.url), "doc.md")
		assert.Equal(t, tt.ignored, got, tt.name)
	}

	ignored := f.Ignored()
	require.Len(t, ignored, 4)
	assert.Equal(t, RuleDomain, ignored[0].Type)
	assert.Equal(t, "example.com", ignored[0].Rule)
	assert.Equal(t, "doc.md", ignored[0].File)
	assert.Equal(t, "label", ignored[0].Alt)
	assert.Equal(t, RulePattern, ignored[2].Type)
	assert.Equal(t, RuleRegex, ignored[3].Type)
	assert.Equal(t, 4, f.IgnoredCount())
}

func TestKeep(t *testing.T) {
	t.Parallel()

	f, err := New(Config{Domains: []string{"localhost"}})
	require.NoError(t, err)

	links := []alttext.Link{
		link("http://localhost:8080/admin"),
		link("https://example.org"),
		link("http://localhost/x"),
	}

	kept := f.Keep(links, "a.md")
	require.Len(t, kept, 1)
	assert.Equal(t, "https://example.org", kept[0].URL)
	assert.Equal(t, 2, f.IgnoredCount())
}

func TestNilFilter(t *testing.T) {
	t.Parallel()

	var f *Filter
	links := []alttext.Link{link("https://example.com")}

	assert.False(t, f.ShouldIgnore(links[0], "a.md"))
	assert.Equal(t, links, f.Keep(links, "a.md"))
	assert.Zero(t, f.IgnoredCount())
	assert.Nil(t, f.Ignored())
	assert.False(t, f.HasRules())
}
