package layout_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dasdy/neoclock/layout"
	"github.com/dasdy/neoclock/model"
	"github.com/dasdy/neoclock/widgets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJSON(t *testing.T) {
	specs, err := layout.Load("testdata/layout.json")
	require.NoError(t, err)
	require.Len(t, specs, 6)

	t.Run("keeps configuration order and positions", func(t *testing.T) {
		assert.Equal(t, uint32(16), specs[1].X)
		assert.Equal(t, uint32(48), specs[2].Y)
		assert.True(t, specs[0].Visible)
		assert.False(t, specs[2].Visible)
	})

	t.Run("decodes kind fields", func(t *testing.T) {
		solid, ok := specs[1].Widget.(*widgets.Solid)
		require.True(t, ok)
		assert.Equal(t, widgets.Solid{Width: 32, Height: 32, Color: model.Color{0, 255, 0, 127}}, *solid)

		flyer, ok := specs[4].Widget.(*widgets.Flyer)
		require.True(t, ok)
		assert.Equal(t, "hello", flyer.Text)
		assert.Equal(t, 50, flyer.Speed)
	})

	t.Run("fills kind defaults", func(t *testing.T) {
		clock, ok := specs[3].Widget.(*widgets.Clock)
		require.True(t, ok)
		assert.Equal(t, model.Color{255, 128, 0, 255}, clock.TextColor)
		assert.InDelta(t, 18.0, clock.Options.Height, 0.001)
		assert.InDelta(t, 1.2, clock.ScaleX, 0.001)

		rain, ok := specs[5].Widget.(*widgets.MatrixRain)
		require.True(t, ok)
		assert.Equal(t, 64, rain.Width)
		assert.Equal(t, 10, rain.Steps)
		assert.Equal(t, "quad", rain.Fade)
		assert.Equal(t, model.Green, rain.Color)
	})
}

func TestLoadTOML(t *testing.T) {
	specs, err := layout.Load("testdata/layout.toml")
	require.NoError(t, err)
	require.Len(t, specs, 3)

	assert.Equal(t, widgets.KindSolid, specs[0].Widget.Kind())
	assert.Equal(t, model.Red, specs[0].Widget.(*widgets.Solid).Color)

	calendar := specs[1].Widget.(*widgets.Calendar)
	assert.False(t, specs[1].Visible)
	assert.Equal(t, model.Color{0, 0, 0, 127}, calendar.BackgroundColor)
	assert.InDelta(t, 1.5, calendar.ScaleX, 0.001)
	assert.Equal(t, model.Yellow, calendar.TextColor)

	wigwag := specs[2].Widget.(*widgets.Wigwag)
	assert.Equal(t, "neoclock", wigwag.Text)
	assert.Equal(t, 14, wigwag.TextStyle.Height)
	assert.Equal(t, uint32(50), specs[2].Y)
}

func TestDecodeErrors(t *testing.T) {
	t.Run("unknown type suggests the closest kind", func(t *testing.T) {
		_, err := layout.DecodeJSON(strings.NewReader(`[{"type": "Clok"}]`))

		require.ErrorIs(t, err, layout.ErrUnknownKind)
		assert.Contains(t, err.Error(), `did you mean "Clock"`)
	})

	t.Run("unknown type far from anything", func(t *testing.T) {
		_, err := layout.DecodeJSON(strings.NewReader(`[{"type": "Television"}]`))

		require.ErrorIs(t, err, layout.ErrUnknownKind)
		assert.NotContains(t, err.Error(), "did you mean")
	})

	t.Run("malformed color fails the whole layout", func(t *testing.T) {
		_, err := layout.DecodeJSON(strings.NewReader(
			`[{"type": "Solid"}, {"type": "Solid", "color": "rgb(300, 0, 0)"}]`))

		assert.ErrorIs(t, err, model.ErrBadColor)
	})

	t.Run("malformed color in toml", func(t *testing.T) {
		_, err := layout.DecodeTOML(strings.NewReader("[[widget]]\ntype = \"Solid\"\ncolor = \"nope\"\n"))

		assert.ErrorIs(t, err, layout.ErrBadLayout)
	})

	t.Run("missing type", func(t *testing.T) {
		_, err := layout.DecodeJSON(strings.NewReader(`[{"x": 1}]`))

		assert.ErrorIs(t, err, layout.ErrBadLayout)
	})

	t.Run("not a list", func(t *testing.T) {
		_, err := layout.DecodeJSON(strings.NewReader(`{"type": "Solid"}`))

		assert.ErrorIs(t, err, layout.ErrBadLayout)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "layout.yaml")
		require.NoError(t, os.WriteFile(path, []byte("[]"), 0o600))

		_, err := layout.Load(path)

		assert.ErrorIs(t, err, layout.ErrBadLayout)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := layout.Load(filepath.Join(t.TempDir(), "missing.json"))

		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestEmptyLayout(t *testing.T) {
	specs, err := layout.DecodeJSON(strings.NewReader(`[]`))

	require.NoError(t, err)
	assert.Empty(t, specs)
}
