package logging

import (
	"context"
	"fmt"
	"log/slog"
)

type ctxKey string

const (
	slogFields ctxKey = "slog_fields"

	PackageName = "package"
	WidgetIndex = "widget"
	WidgetKind  = "kind"
)

// ContextHandler copies the attributes stored with AppendCtx into every record.
type ContextHandler struct {
	slog.Handler
}

func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(Attrs(ctx)...)

	if err := h.Handler.Handle(ctx, r); err != nil {
		return fmt.Errorf("error handling log record %q: %w", r.Message, err)
	}

	return nil
}

func (h ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ContextHandler{h.Handler.WithAttrs(attrs)}
}

func (h ContextHandler) WithGroup(name string) slog.Handler {
	return ContextHandler{h.Handler.WithGroup(name)}
}

// AppendCtx returns a child context whose log records also carry attr.
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	existing, _ := parent.Value(slogFields).([]slog.Attr)

	// Copy so sibling contexts never share a backing array.
	attrs := make([]slog.Attr, 0, len(existing)+1)
	attrs = append(attrs, existing...)
	attrs = append(attrs, attr)

	return context.WithValue(parent, slogFields, attrs)
}

func PackageCtx(parent context.Context, packageName string) context.Context {
	return AppendCtx(parent, slog.String(PackageName, packageName))
}

// WidgetCtx tags records with the widget index and kind.
func WidgetCtx(parent context.Context, index int, kind string) context.Context {
	return AppendCtx(AppendCtx(parent, slog.Int(WidgetIndex, index)), slog.String(WidgetKind, kind))
}

// Attrs returns the attributes carried by ctx.
func Attrs(ctx context.Context) []slog.Attr {
	attrs, _ := ctx.Value(slogFields).([]slog.Attr)

	return attrs
}
