package neoclock

import (
	"github.com/dasdy/neoclock/transport"
	"github.com/spf13/pflag"
)

type brokerFlags struct {
	host     string
	port     int
	deviceID string
	password string
	useTLS   bool
	topic    string
}

func (b *brokerFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&b.host, "host", "", "MQTT broker host name; empty disables MQTT")
	fs.IntVar(&b.port, "port", 0, "MQTT broker port (default 1883, or 8883 with --use-tls)")
	fs.StringVar(&b.deviceID, "device-id", "", "MQTT client id (default neoclock-<random uuid>)")
	fs.StringVar(&b.password, "password", "", "MQTT password; the device id is the user name")
	fs.BoolVar(&b.useTLS, "use-tls", false, "Connect to the broker over TLS")
	fs.StringVar(&b.topic, "topic", transport.DefaultTopic, "MQTT topic carrying control messages")
}

func (b *brokerFlags) options() transport.Options {
	return transport.Options{
		Host:     b.host,
		Port:     b.port,
		DeviceID: b.deviceID,
		Password: b.password,
		UseTLS:   b.useTLS,
		Topic:    b.topic,
	}
}
