package uielement

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/arenaplug/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testCtx() context.Context {
	return ctxlog.Discard(context.Background())
}

const hudManifest = `
ui_element "HUD" {
  movie       = "hud.gfx"
  description = "In-game heads-up display"

  function "SetScore" {
    description = "Updates the score counter"
    param "score" { type = number }
  }

  function "ShowMessage" {
    param "text" { type = string }
    param "sticky" {
      type        = bool
      description = "Keep the message until dismissed"
    }
  }

  event "OnButtonPressed" {
    param "id" { type = string }
    param "payload" { type = any }
  }
}
`

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "hud.gfx", "movie")
	writeFile(t, dir, "hud.hcl", hudManifest)

	l := NewLoader(dir)
	require.NoError(t, l.Load(testCtx()))
	require.Equal(t, 1, l.Count())

	hud := l.ElementAt(0)
	assert.Equal(t, "HUD", hud.Name())
	assert.True(t, hud.Valid(), hud.Problem)
	assert.True(t, hud.Visible())
	assert.Equal(t, filepath.Join(dir, "hud.gfx"), hud.Movie)
	assert.Equal(t, "In-game heads-up display", hud.Description)

	require.Len(t, hud.Functions, 2)
	setScore, ok := hud.Function("SetScore")
	require.True(t, ok)
	assert.Equal(t, "Updates the score counter", setScore.Description)
	require.Len(t, setScore.Params, 1)
	assert.Equal(t, cty.Number, setScore.Params[0].Type)

	show, ok := hud.Function("ShowMessage")
	require.True(t, ok)
	require.Len(t, show.Params, 2)
	assert.Equal(t, "sticky", show.Params[1].Name)
	assert.Equal(t, cty.Bool, show.Params[1].Type)
	assert.Equal(t, "Keep the message until dismissed", show.Params[1].Description)

	pressed, ok := hud.Event("OnButtonPressed")
	require.True(t, ok)
	require.Len(t, pressed.Params, 2)
	assert.Equal(t, cty.DynamicPseudoType, pressed.Params[1].Type)
}

func TestLoader_InvalidElements(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "menus.hcl", `
ui_element "NoMovie" {}

ui_element "MissingMovie" {
  movie = "gone.gfx"
}
`)

	l := NewLoader(dir)
	require.NoError(t, l.Load(testCtx()))
	require.Equal(t, 2, l.Count())

	noMovie, ok := l.Lookup("NoMovie")
	require.True(t, ok)
	assert.False(t, noMovie.Valid())
	assert.Equal(t, "no movie declared", noMovie.Problem)

	missing, ok := l.Lookup("MissingMovie")
	require.True(t, ok)
	assert.False(t, missing.Valid())
	assert.Contains(t, missing.Problem, "not found")
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		files    map[string]string
		contains string
	}{
		{
			name:     "syntax error",
			files:    map[string]string{"bad.hcl": `ui_element "A" {`},
			contains: "failed to parse HCL file",
		},
		{
			name: "duplicate function",
			files: map[string]string{"dup.hcl": `
ui_element "A" {
  function "F" {}
  function "F" {}
}`},
			contains: "Duplicate function",
		},
		{
			name: "unknown type",
			files: map[string]string{"type.hcl": `
ui_element "A" {
  function "F" {
    param "p" { type = widget }
  }
}`},
			contains: "failed to decode UI manifest",
		},
		{
			name: "duplicate element across files",
			files: map[string]string{
				"a.hcl": `ui_element "Same" {}`,
				"b.hcl": `ui_element "Same" {}`,
			},
			contains: "was already declared",
		},
		{
			name:     "unexpected top-level block",
			files:    map[string]string{"odd.hcl": `widget "A" {}`},
			contains: "failed to decode UI manifest",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tc.files {
				writeFile(t, dir, name, content)
			}
			err := NewLoader(dir).Load(testCtx())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestLoader_ReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "hud.gfx", "movie")
	manifest := writeFile(t, dir, "hud.hcl", `ui_element "HUD" { movie = "hud.gfx" }`)

	l := NewLoader(dir)
	require.NoError(t, l.Load(testCtx()))
	require.Equal(t, 1, l.Count())

	require.NoError(t, os.WriteFile(manifest, []byte(`ui_element "HUD" {`), 0o644))
	require.Error(t, l.Load(testCtx()))
	assert.Equal(t, 1, l.Count(), "a failed reload must keep the previous elements")

	writeFile(t, dir, "menu.gfx", "movie")
	require.NoError(t, os.WriteFile(manifest, []byte(`
ui_element "Menu" { movie = "menu.gfx" }
ui_element "HUD" { movie = "hud.gfx" }
`), 0o644))
	require.NoError(t, l.Load(testCtx()))
	require.Equal(t, 2, l.Count())
	assert.Equal(t, "Menu", l.ElementAt(0).Name())
	assert.Equal(t, "HUD", l.ElementAt(1).Name())
}

func TestLoader_NoManifests(t *testing.T) {
	l := NewLoader(t.TempDir())
	require.NoError(t, l.Load(testCtx()))
	assert.Zero(t, l.Count())
	assert.Len(t, l.Paths(), 1)
}

func TestLoader_MissingPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "hud.gfx", "movie")
	writeFile(t, dir, "hud.hcl", `ui_element "HUD" { movie = "hud.gfx" }`)

	t.Run("every path missing", func(t *testing.T) {
		l := NewLoader(filepath.Join(dir, "typo"), filepath.Join(dir, "also-missing"))
		err := l.Load(testCtx())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "none of the UI manifest paths exist")
		assert.Contains(t, err.Error(), "typo")
	})

	t.Run("one path missing", func(t *testing.T) {
		l := NewLoader(filepath.Join(dir, "typo"), dir)
		require.NoError(t, l.Load(testCtx()))
		assert.Equal(t, 1, l.Count())
	})

	t.Run("no paths", func(t *testing.T) {
		require.Error(t, NewLoader().Load(testCtx()))
	})

	t.Run("previous elements survive", func(t *testing.T) {
		l := NewLoader(dir)
		require.NoError(t, l.Load(testCtx()))
		l.paths = []string{filepath.Join(dir, "gone")}
		require.Error(t, l.Load(testCtx()))
		assert.Equal(t, 1, l.Count())
	})
}
