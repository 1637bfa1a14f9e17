package runner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/lifespan/pkg/runner"
	"github.com/yaklabco/lifespan/pkg/vcs"
)

func TestFilter_MatchPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		include []string
		exclude []string
		path    string
		want    bool
	}{
		{name: "no patterns", path: "a.md", want: true},
		{name: "excluded directory", exclude: []string{"vendor/**"}, path: "vendor/x/a.go", want: false},
		{name: "base name pattern", exclude: []string{"*.lock"}, path: "sub/deps.lock", want: false},
		{name: "nested node_modules", exclude: runner.DefaultExcludeGlobs(), path: "web/node_modules/x.js", want: false},
		{name: "git directory", exclude: runner.DefaultExcludeGlobs(), path: ".git/config", want: false},
		{name: "outside include", include: []string{"docs/**"}, path: "README.md", want: false},
		{name: "inside include", include: []string{"docs/**"}, path: "docs/guide/intro.md", want: true},
		{name: "exclude wins", include: []string{"docs/**"}, exclude: []string{"docs/draft/**"}, path: "docs/draft/a.md", want: false},
		{name: "leading dot slash", include: []string{"./docs/*.md"}, path: "docs/a.md", want: true},
		{name: "single star stays in directory", include: []string{"docs/*.md"}, path: "docs/sub/a.md", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := runner.NewFilter(runner.Options{IncludeGlobs: tt.include, ExcludeGlobs: tt.exclude})
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.MatchPath(tt.path))
		})
	}
}

func TestNewFilter_InvalidGlob(t *testing.T) {
	t.Parallel()

	_, err := runner.NewFilter(runner.Options{ExcludeGlobs: []string{"docs/[a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docs/[a")
}

func TestFilter_Select(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f, err := runner.NewFilter(runner.Options{SkipVendor: true, Languages: []string{"Go"}})
	require.NoError(t, err)

	lang, ok, err := f.Select(ctx, vcs.NewStaticFile("main.go", "r1", []byte("package main\n")))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "go", lang)

	_, ok, err = f.Select(ctx, vcs.NewStaticFile("vendor/lib/lib.go", "r1", []byte("package lib\n")))
	require.NoError(t, err)
	assert.False(t, ok)

	lang, ok, err = f.Select(ctx, vcs.NewStaticFile("README.md", "r1", []byte("# Title\n")))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "markdown", lang)
}
