package routes_test

import (
	"encoding/json"
	"errors"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dasdy/neoclock/message"
	"github.com/dasdy/neoclock/screen"
	"github.com/dasdy/neoclock/web/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScale(t *testing.T) {
	tests := []struct {
		raw      string
		expected int
		ok       bool
	}{
		{"", routes.DefaultScale, true},
		{"1", 1, true},
		{"32", 32, true},
		{"0", 0, false},
		{"33", 0, false},
		{"big", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			scale, ok := routes.ParseScale(tt.raw)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, scale)
		})
	}
}

func TestFrameHandle(t *testing.T) {
	handler := routes.ServerHandler{Display: newDisplayMock()}

	t.Run("scales with nearest neighbour", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.FrameHandle(rr, httptest.NewRequest(http.MethodGet, "/frame.png?scale=3", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))

		img, err := png.Decode(rr.Body)
		require.NoError(t, err)

		assert.Equal(t, 12, img.Bounds().Dx())
		assert.Equal(t, 6, img.Bounds().Dy())

		for _, p := range [][2]int{{3, 0}, {5, 2}} {
			r, g, b, _ := img.At(p[0], p[1]).RGBA()
			assert.Equal(t, [3]uint32{0xffff, 0, 0}, [3]uint32{r, g, b})
		}

		assert.Equal(t, color.RGBA{255, 255, 255, 255}, color.RGBAModel.Convert(img.At(6, 0)))
	})

	t.Run("rejects out of range scale", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.FrameHandle(rr, httptest.NewRequest(http.MethodGet, "/frame.png?scale=99", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestWidgetsHandle(t *testing.T) {
	handler := routes.ServerHandler{Display: newDisplayMock()}

	rr := httptest.NewRecorder()
	handler.WidgetsHandle(rr, httptest.NewRequest(http.MethodGet, "/widgets", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var infos []screen.WidgetInfo
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&infos))
	assert.Equal(t, newDisplayMock().Infos, infos)
}

func TestIndexHandle(t *testing.T) {
	handler := routes.ServerHandler{Display: newDisplayMock()}

	rr := httptest.NewRecorder()
	handler.IndexHandle(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=UTF-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "neoclock 4x2")
	assert.Contains(t, rr.Body.String(), "<td>Clock</td>")
}

func TestControlHandle(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		sendErr  error
		expected int
		sent     int
	}{
		{"accepts move", `{"type":"Move","id":0,"x":1,"y":2}`, nil, http.StatusAccepted, 1},
		{"accepts kind payload", `{"type":"Solid","id":0,"color":"red"}`, nil, http.StatusAccepted, 1},
		{"malformed json", `{"type":`, nil, http.StatusBadRequest, 0},
		{"unknown type", `{"type":"Teleport","id":0}`, nil, http.StatusBadRequest, 0},
		{"missing id", `{"type":"Hide"}`, nil, http.StatusBadRequest, 0},
		{"queue full", `{"type":"Hide","id":0}`, errors.New("full"), http.StatusServiceUnavailable, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			display := newDisplayMock()
			display.SendError = tt.sendErr
			handler := routes.ServerHandler{Display: display}

			rr := httptest.NewRecorder()
			handler.ControlHandle(rr, httptest.NewRequest(http.MethodPost, "/control", strings.NewReader(tt.body)))

			assert.Equal(t, tt.expected, rr.Code)
			assert.Len(t, display.Sent, tt.sent)
		})
	}

	t.Run("routes the decoded envelope", func(t *testing.T) {
		display := newDisplayMock()
		handler := routes.ServerHandler{Display: display}

		rr := httptest.NewRecorder()
		handler.ControlHandle(rr, httptest.NewRequest(http.MethodPost, "/control",
			strings.NewReader(`{"type":"Move","id":1,"x":5,"y":6}`)))

		require.Len(t, display.Sent, 1)
		assert.Equal(t, message.Envelope{Type: "Move", ID: 1, X: 5, Y: 6}, display.Sent[0])
	})
}
