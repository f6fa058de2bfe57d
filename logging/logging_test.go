package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/dasdy/neoclock/logging"
	"github.com/stretchr/testify/assert"
)

func TestContextHandler(t *testing.T) {
	t.Run("adds context attributes to records", func(t *testing.T) {
		var buf bytes.Buffer

		logger := slog.New(logging.ContextHandler{Handler: slog.NewTextHandler(&buf, nil)})
		ctx := logging.WidgetCtx(context.Background(), 3, "Clock")

		logger.InfoContext(ctx, "tick")

		assert.Contains(t, buf.String(), "widget=3")
		assert.Contains(t, buf.String(), "kind=Clock")
	})

	t.Run("keeps wrapping after With", func(t *testing.T) {
		var buf bytes.Buffer

		logger := slog.New(logging.ContextHandler{Handler: slog.NewTextHandler(&buf, nil)}).With("sink", "terminal")
		ctx := logging.PackageCtx(context.Background(), "screen")

		logger.InfoContext(ctx, "frame")

		assert.Contains(t, buf.String(), "sink=terminal")
		assert.Contains(t, buf.String(), "package=screen")
	})

	t.Run("siblings do not leak attributes into each other", func(t *testing.T) {
		parent := logging.PackageCtx(context.Background(), "widgets")

		a := logging.WidgetCtx(parent, 0, "Solid")
		b := logging.WidgetCtx(parent, 1, "Gif")

		assert.Len(t, logging.Attrs(parent), 1)
		assert.Equal(t, "Solid", logging.Attrs(a)[2].Value.String())
		assert.Equal(t, "Gif", logging.Attrs(b)[2].Value.String())
	})
}
