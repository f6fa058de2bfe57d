package model_test

import (
	"encoding/json"
	"testing"

	"github.com/dasdy/neoclock/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected model.Color
	}{
		{"rgb", "rgb(255, 0, 0)", model.Red},
		{"rgb without spaces", "rgb(0,0,255)", model.Blue},
		{"rgba half alpha truncates", "rgba(0, 255, 0, 0.5)", model.Color{0, 255, 0, 127}},
		{"rgba opaque", "rgba(1, 2, 3, 1)", model.Color{1, 2, 3, 255}},
		{"rgba transparent", "rgba(1, 2, 3, 0)", model.Color{1, 2, 3, 0}},
		{"long hex", "#ff8000", model.Color{255, 128, 0, 255}},
		{"short hex", "#0f0", model.Green},
		{"upper case", "RGB(0, 0, 0)", model.Black},
		{"named", "yellow", model.Yellow},
		{"named transparent", "transparent", model.Transparent},
	}

	for _, tc := range testCases {
		t.Run("parses "+tc.name, func(t *testing.T) {
			c, err := model.ParseColor(tc.input)

			require.NoError(t, err)
			assert.Equal(t, tc.expected, c)
		})
	}

	errorCases := []string{
		"",
		"rgb(1, 2)",
		"rgb(256, 0, 0)",
		"rgb(-1, 0, 0)",
		"rgba(0, 0, 0, 1.5)",
		"rgba(0, 0, 0)",
		"rgb(a, b, c)",
		"#12",
		"chartreuse-ish",
	}

	for _, input := range errorCases {
		t.Run("rejects "+input, func(t *testing.T) {
			_, err := model.ParseColor(input)

			assert.ErrorIs(t, err, model.ErrBadColor)
		})
	}
}

func TestColorText(t *testing.T) {
	t.Run("formats and parses back every alpha value", func(t *testing.T) {
		for a := range 256 {
			c := model.Color{10, 20, 30, uint8(a)}

			parsed, err := model.ParseColor(c.String())

			require.NoError(t, err)
			require.Equal(t, c, parsed, "alpha %d", a)
		}
	})

	t.Run("decodes from json strings", func(t *testing.T) {
		var v struct {
			Color model.Color `json:"color"`
		}

		err := json.Unmarshal([]byte(`{"color": "rgba(0, 0, 255, 0.5)"}`), &v)

		require.NoError(t, err)
		assert.Equal(t, model.Color{0, 0, 255, 127}, v.Color)
	})

	t.Run("json decoding fails on malformed color", func(t *testing.T) {
		var v struct {
			Color model.Color `json:"color"`
		}

		err := json.Unmarshal([]byte(`{"color": "rgb(nope)"}`), &v)

		assert.ErrorIs(t, err, model.ErrBadColor)
	})
}
