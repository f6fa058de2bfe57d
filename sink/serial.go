package sink

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.bug.st/serial"
)

const DefaultBaud = 115200

var frameMagic = []byte("NC")

// Serial streams frames to an LED controller: "NC", width and height as
// big endian uint16, then RGB bytes row by row.
type Serial struct {
	port   io.WriteCloser
	width  int
	height int
	buf    []byte
}

func NewSerial(port io.WriteCloser, width, height int) *Serial {
	buf := make([]byte, len(frameMagic)+4+width*height*3)
	copy(buf, frameMagic)
	binary.BigEndian.PutUint16(buf[2:], uint16(width))
	binary.BigEndian.PutUint16(buf[4:], uint16(height))

	return &Serial{port: port, width: width, height: height, buf: buf}
}

// OpenSerial opens the port at path. A zero baud means DefaultBaud.
func OpenSerial(path string, baud, width, height int) (*Serial, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}

	port, err := serial.Open(path, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("could not open serial port %s: %w", path, err)
	}

	slog.Info("Opened serial port", "path", path, "baud", baud)

	return NewSerial(port, width, height), nil
}

func (s *Serial) SetPixel(x, y int, r, g, b uint8) {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return
	}

	i := len(frameMagic) + 4 + (y*s.width+x)*3
	s.buf[i], s.buf[i+1], s.buf[i+2] = r, g, b
}

func (s *Serial) Show() error {
	if _, err := s.port.Write(s.buf); err != nil {
		return fmt.Errorf("could not write frame: %w", err)
	}

	return nil
}

func (s *Serial) Close() error {
	return s.port.Close()
}

// LooksLikeController reports whether a port name is a USB serial adapter
// or a board exposing a CDC port.
func LooksLikeController(path string) bool {
	for _, marker := range []string{"tty.usbmodem", "tty.usbserial", "ttyUSB", "ttyACM"} {
		if strings.Contains(path, marker) {
			return true
		}
	}

	return false
}

// SerialDevices lists ports that look like controllers, or every port when
// none does.
func SerialDevices() ([]string, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("could not get list of serial ports: %w", err)
	}

	result := make([]string, 0)

	for _, n := range names {
		if LooksLikeController(n) {
			result = append(result, n)
		}
	}

	if len(result) == 0 {
		return names, nil
	}

	return result, nil
}
