//go:build !simulator

package neoclock

import (
	"context"
	"errors"

	"github.com/dasdy/neoclock/sink"
)

func openSimulator(_, _ int) (sink.Sink, func(context.Context) error, error) {
	return nil, nil, errors.New("this binary was built without the simulator tag")
}
