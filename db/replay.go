package db

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dasdy/neoclock/message"
	"github.com/schollz/progressbar/v3"
)

// Replay feeds every replayable journal entry to send, oldest first, drawing
// progress on out. Replayed envelopes carry the Replayed mark. It stops at
// the first send error.
func Replay(storage Storage, out io.Writer, send func(message.Envelope) error) (int, error) {
	entries, err := storage.Replayable()
	if err != nil {
		return 0, err
	}

	bar := progressbar.NewOptions(len(entries),
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("Replaying journal..."),
		progressbar.OptionShowCount(),
	)

	for i, e := range entries {
		env := e.Envelope
		env.Replayed = true

		if err := send(env); err != nil {
			return i, fmt.Errorf("could not replay journal entry %d: %w", e.ID, err)
		}

		if err := bar.Add(1); err != nil {
			slog.Error("could not update progress bar", "error", err)
		}
	}

	if err := bar.Finish(); err != nil {
		slog.Error("could not finish progress bar", "error", err)
	}

	return len(entries), nil
}
