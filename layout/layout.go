// Package layout loads the ordered list of widgets shown on the screen.
package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/agnivade/levenshtein"
	"github.com/dasdy/neoclock/widgets"
)

var (
	ErrUnknownKind = errors.New("unknown widget type")
	ErrBadLayout   = errors.New("invalid layout")
)

// record holds the fields every widget entry has besides its kind-specific ones.
type record struct {
	X       uint32 `json:"x"       toml:"x"`
	Y       uint32 `json:"y"       toml:"y"`
	Visible *bool  `json:"visible" toml:"visible"`
	Type    string `json:"type"    toml:"type"`
}

func (r record) spec(index int) (widgets.Spec, error) {
	if r.Type == "" {
		return widgets.Spec{}, fmt.Errorf("%w: widget %d has no type", ErrBadLayout, index)
	}

	w, ok := widgets.New(widgets.Kind(r.Type))
	if !ok {
		if guess := closestKind(r.Type); guess != "" {
			return widgets.Spec{}, fmt.Errorf("widget %d: %w %q, did you mean %q?", index, ErrUnknownKind, r.Type, guess)
		}

		return widgets.Spec{}, fmt.Errorf("widget %d: %w %q", index, ErrUnknownKind, r.Type)
	}

	visible := true
	if r.Visible != nil {
		visible = *r.Visible
	}

	return widgets.Spec{X: r.X, Y: r.Y, Visible: visible, Widget: w}, nil
}

// closestKind suggests a known kind for a misspelt one, or "" when nothing is close.
func closestKind(name string) string {
	best, bestDistance := "", math.MaxInt

	for _, k := range widgets.Kinds() {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(string(k)))
		if d < bestDistance {
			best, bestDistance = string(k), d
		}
	}

	if bestDistance > 3 {
		return ""
	}

	return best
}

// Load reads a layout file; the extension picks the format (.json or .toml).
func Load(path string) ([]widgets.Spec, error) {
	f, err := OpenPath(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var specs []widgets.Spec

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		specs, err = DecodeJSON(f)
	case ".toml":
		specs, err = DecodeTOML(f)
	default:
		return nil, fmt.Errorf("%w: unsupported layout format %q", ErrBadLayout, ext)
	}

	if err != nil {
		return nil, fmt.Errorf("could not load layout %s: %w", path, err)
	}

	slog.Info("Loaded layout", "path", path, "widgets", len(specs))

	return specs, nil
}

// DecodeJSON reads a JSON array of widget entries.
func DecodeJSON(r io.Reader) ([]widgets.Spec, error) {
	var entries []json.RawMessage
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadLayout, err)
	}

	specs := make([]widgets.Spec, 0, len(entries))

	for i, raw := range entries {
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("%w: widget %d: %w", ErrBadLayout, i, err)
		}

		spec, err := rec.spec(i)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(raw, spec.Widget); err != nil {
			return nil, fmt.Errorf("%w: widget %d (%s): %w", ErrBadLayout, i, rec.Type, err)
		}

		specs = append(specs, spec)
	}

	return specs, nil
}

// DecodeTOML reads a [[widget]] array of tables.
func DecodeTOML(r io.Reader) ([]widgets.Spec, error) {
	var doc struct {
		Widget []toml.Primitive `toml:"widget"`
	}

	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadLayout, err)
	}

	specs := make([]widgets.Spec, 0, len(doc.Widget))

	for i, prim := range doc.Widget {
		var rec record
		if err := md.PrimitiveDecode(prim, &rec); err != nil {
			return nil, fmt.Errorf("%w: widget %d: %w", ErrBadLayout, i, err)
		}

		spec, err := rec.spec(i)
		if err != nil {
			return nil, err
		}

		if err := md.PrimitiveDecode(prim, spec.Widget); err != nil {
			return nil, fmt.Errorf("%w: widget %d (%s): %w", ErrBadLayout, i, rec.Type, err)
		}

		specs = append(specs, spec)
	}

	for _, key := range md.Undecoded() {
		slog.Warn("Ignoring unknown layout key", "key", key.String())
	}

	return specs, nil
}
