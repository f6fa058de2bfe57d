package neoclock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dasdy/neoclock/db"
	"github.com/dasdy/neoclock/layout"
	"github.com/dasdy/neoclock/logging"
	"github.com/dasdy/neoclock/message"
	"github.com/dasdy/neoclock/model"
	"github.com/dasdy/neoclock/screen"
	"github.com/dasdy/neoclock/sink"
	"github.com/dasdy/neoclock/transport"
	"github.com/dasdy/neoclock/web"
	"github.com/spf13/cobra"
	"github.com/thejerf/suture/v4"
)

var errUnknownSink = errors.New("unknown sink")

// journalDelivered stores every control message the router delivered.
// Journal replays are not stored again.
func journalDelivered(storage db.Storage) func(context.Context, message.Envelope) {
	return func(ctx context.Context, env message.Envelope) {
		if env.Replayed {
			return
		}

		if err := storage.Store(env, time.Now()); err != nil {
			slog.WarnContext(ctx, "Could not journal control message", "type", env.Type, "error", err)
		}
	}
}

type runOptions struct {
	layoutPath  string
	width       int
	height      int
	fps         int
	background  string
	broker      brokerFlags
	sinkName    string
	serialPort  string
	baud        int
	previewPort int
	journal     string
	restore     bool
	dev         bool
}

var runOpts runOptions

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the display",
	Long: `Load a layout, start one worker per widget and push the composed frame
to the chosen sink. Control messages arrive over MQTT (--host) and the preview
server (--preview-port).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return run(logging.PackageCtx(ctx, "run"), runOpts)
	},
}

func openSink(ctx context.Context, o runOptions) (sink.Sink, func(context.Context) error, error) {
	switch o.sinkName {
	case "terminal":
		return sink.NewTerminal(os.Stdout, o.width, o.height), nil, nil
	case "serial":
		port := o.serialPort
		if port == "" {
			devices, err := sink.SerialDevices()
			if err != nil {
				return nil, nil, err
			}

			if len(devices) == 0 {
				return nil, nil, errors.New("no --serial-port given and no serial ports detected")
			}

			port = devices[0]
			slog.InfoContext(ctx, "Using detected serial port", "path", port)
		}

		s, err := sink.OpenSerial(port, o.baud, o.width, o.height)

		return s, nil, err
	case "simulator":
		return openSimulator(o.width, o.height)
	case "none":
		return sink.NewMemory(o.width, o.height), nil, nil
	}

	return nil, nil, fmt.Errorf("%w: %q (terminal, serial, simulator or none)", errUnknownSink, o.sinkName)
}

func refresh(ctx context.Context, scr *screen.Screen, out sink.Sink, fps int) {
	if fps <= 0 {
		fps = 1
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			scr.RenderTo(out)

			if err := out.Show(); err != nil {
				slog.ErrorContext(ctx, "Could not show frame", "error", err)
			}
		}
	}
}

func run(ctx context.Context, o runOptions) error {
	background, err := model.ParseColor(o.background)
	if err != nil {
		return fmt.Errorf("bad --background: %w", err)
	}

	specs, err := layout.Load(o.layoutPath)
	if err != nil {
		return err
	}

	opts := screen.Options{Width: o.width, Height: o.height, Background: background}

	var storage db.Storage

	if o.journal != "" {
		sqlite, err := db.ConnectDB(o.journal)
		if err != nil {
			return err
		}
		defer sqlite.Close()

		storage = sqlite
		opts.Delivered = journalDelivered(storage)
	}

	scr := screen.New(opts, specs)

	out, runWindow, err := openSink(ctx, o)
	if err != nil {
		return err
	}
	defer out.Close()

	// Closing the simulator window ends the run as well.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	scr.Start(ctx)

	defer func() {
		if err := scr.Stop(); err != nil {
			slog.Error("Screen did not stop cleanly", "error", err)
		}
	}()

	if o.restore && storage != nil {
		n, err := db.Replay(storage, os.Stderr, func(env message.Envelope) error {
			return scr.Send(ctx, env)
		})
		if err != nil {
			return err
		}

		slog.InfoContext(ctx, "Journal replayed", "messages", n)
	}

	services := suture.NewSimple("neoclock")

	if o.broker.host != "" {
		services.Add(transport.NewSubscriber(o.broker.options(), func(ctx context.Context, env message.Envelope) {
			if err := scr.Send(ctx, env); err != nil {
				slog.WarnContext(ctx, "Dropping control message", "type", env.Type, "error", err)
			}
		}))
	}

	servicesDone := services.ServeBackground(ctx)

	if o.previewPort > 0 {
		go func() {
			if err := web.StartServer(ctx, o.previewPort, scr, time.Second, o.dev); err != nil {
				slog.ErrorContext(ctx, "Preview server stopped", "error", err)
			}
		}()
	}

	if runWindow != nil {
		go refresh(ctx, scr, out, o.fps)

		err = runWindow(ctx)

		cancel()
	} else {
		refresh(ctx, scr, out, o.fps)
	}

	<-servicesDone

	return err
}

func init() {
	rootCmd.AddCommand(runCmd)

	flags := runCmd.Flags()
	flags.StringVarP(&runOpts.layoutPath, "layout", "l", "layout.toml", "Widget layout file (.toml or .json)")
	flags.IntVar(&runOpts.width, "width", 64, "Display width in pixels")
	flags.IntVar(&runOpts.height, "height", 64, "Display height in pixels")
	flags.IntVar(&runOpts.fps, "fps", 60, "Frames pushed to the sink per second")
	flags.StringVar(&runOpts.background, "background", "black", "Canvas background color")
	runOpts.broker.register(flags)
	flags.StringVar(&runOpts.sinkName, "sink", "terminal", "Output: terminal, serial, simulator or none")
	flags.StringVar(&runOpts.serialPort, "serial-port", "", "Serial port of the LED controller (default: first detected)")
	flags.IntVar(&runOpts.baud, "baud", sink.DefaultBaud, "Serial baud rate")
	flags.IntVar(&runOpts.previewPort, "preview-port", 0, "Port for the preview server; 0 disables it")
	flags.StringVar(&runOpts.journal, "journal", "", "SQLite file journaling delivered control messages")
	flags.BoolVar(&runOpts.restore, "restore", false, "Replay the journal at startup")
	flags.BoolVar(&runOpts.dev, "dev", false, "Enable developer mode")
}
