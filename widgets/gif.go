package widgets

import (
	"context"
	"fmt"
	"image"
	"image/gif"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dasdy/neoclock/model"
	xdraw "golang.org/x/image/draw"
)

const (
	defaultGifDelay = 100 * time.Millisecond
	// Upper bound for one load, so a stalled server cannot freeze the worker.
	gifLoadTimeout = 15 * time.Second
)

// Gif plays an animated GIF fetched from a URL or read from disk.
type Gif struct {
	Location string `json:"location" toml:"location"`
	// Optional output size; zero keeps the GIF's own size.
	Width  int `json:"width"  toml:"width"`
	Height int `json:"height" toml:"height"`
}

func (g *Gif) Kind() Kind { return KindGif }

func (g *Gif) newDriver() driver {
	return &gifDriver{cfg: *g, client: http.DefaultClient, timeout: gifLoadTimeout}
}

type gifDriver struct {
	cfg     Gif
	client  *http.Client
	timeout time.Duration

	frames []*image.NRGBA
	delays []time.Duration
	next   int
}

func (d *gifDriver) init(ctx context.Context) error {
	if d.cfg.Location == "" {
		return nil
	}

	return d.load(ctx, d.cfg.Location)
}

func (d *gifDriver) tick(time.Time) (*image.NRGBA, time.Duration) {
	if len(d.frames) == 0 {
		return nil, idleInterval
	}

	i := d.next
	d.next = (d.next + 1) % len(d.frames)

	return d.frames[i], d.delays[i]
}

func (d *gifDriver) handle(ctx context.Context, _ time.Time, payload []byte) error {
	var msg struct {
		Location string `json:"location"`
		URL      string `json:"url"`
	}

	if err := decodePayload(payload, &msg); err != nil {
		return err
	}

	location := msg.Location
	if location == "" {
		location = msg.URL
	}

	if location == "" {
		return fmt.Errorf("%w: missing location", ErrBadPayload)
	}

	return d.load(ctx, location)
}

func (d *gifDriver) load(ctx context.Context, location string) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	r, err := d.open(ctx, location)
	if err != nil {
		return err
	}
	defer r.Close()

	decoded, err := gif.DecodeAll(r)
	if err != nil {
		return fmt.Errorf("could not decode gif %s: %w", location, err)
	}

	frames, delays := composeFrames(decoded)
	if d.cfg.Width > 0 && d.cfg.Height > 0 {
		for i, f := range frames {
			frames[i] = scaleFrame(f, d.cfg.Width, d.cfg.Height)
		}
	}

	d.cfg.Location = location
	d.frames, d.delays, d.next = frames, delays, 0

	return nil
}

func (d *gifDriver) open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("could not open gif: %w", err)
		}

		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("bad gif url %s: %w", location, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch gif %s: %w", location, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()

		return nil, fmt.Errorf("could not fetch gif %s: %s", location, resp.Status)
	}

	return resp.Body, nil
}

// composeFrames renders every GIF frame onto a full canvas, honouring the
// disposal method of the frame before it.
func composeFrames(g *gif.GIF) ([]*image.NRGBA, []time.Duration) {
	width, height := g.Config.Width, g.Config.Height
	if (width == 0 || height == 0) && len(g.Image) > 0 {
		b := g.Image[0].Bounds()
		width, height = b.Max.X, b.Max.Y
	}

	canvas := model.NewFrame(width, height)
	frames := make([]*image.NRGBA, 0, len(g.Image))
	delays := make([]time.Duration, 0, len(g.Image))

	for i, img := range g.Image {
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}

		var previous *image.NRGBA
		if disposal == gif.DisposalPrevious {
			previous = cloneNRGBA(canvas)
		}

		xdraw.Draw(canvas, img.Bounds(), img, img.Bounds().Min, xdraw.Over)
		frames = append(frames, cloneNRGBA(canvas))

		delay := defaultGifDelay
		if i < len(g.Delay) && g.Delay[i] > 0 {
			delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}

		delays = append(delays, delay)

		switch disposal {
		case gif.DisposalBackground:
			xdraw.Draw(canvas, img.Bounds(), image.Transparent, image.Point{}, xdraw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}

	return frames, delays
}

func scaleFrame(src *image.NRGBA, width, height int) *image.NRGBA {
	dst := model.NewFrame(width, height)
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	return dst
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	dst := model.NewFrame(src.Bounds().Dx(), src.Bounds().Dy())
	copy(dst.Pix, src.Pix)

	return dst
}
