package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/dasdy/neoclock/cmd/neoclock"
	"github.com/dasdy/neoclock/logging"
	"gitlab.com/greyxor/slogor"
)

func main() {
	slog.SetDefault(slog.New(logging.ContextHandler{
		Handler: slogor.NewHandler(os.Stderr,
			slogor.SetLevel(slog.LevelDebug),
			slogor.SetTimeFormat(time.DateTime),
			slogor.ShowSource()),
	}))

	neoclock.Execute()
}
