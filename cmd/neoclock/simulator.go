//go:build simulator

package neoclock

import (
	"context"

	"github.com/dasdy/neoclock/sink"
	"github.com/dasdy/neoclock/sink/simulator"
)

func openSimulator(width, height int) (sink.Sink, func(context.Context) error, error) {
	w := simulator.New(width, height, simulator.DefaultScale)

	return w, w.Run, nil
}
