// Package transport receives control messages from an MQTT broker.
package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dasdy/neoclock/logging"
	"github.com/dasdy/neoclock/message"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

const (
	DefaultTopic = "neoclock"
	PlainPort    = 1883
	TLSPort      = 8883

	keepAlive      = 5 * time.Second
	connectTimeout = 10 * time.Second
	quiesce        = 250 // milliseconds
)

var ErrTimeout = errors.New("mqtt operation timed out")

type Options struct {
	Host     string
	Port     int // 0 picks PlainPort or TLSPort
	DeviceID string
	Password string
	UseTLS   bool
	Topic    string
}

func (o Options) BrokerURL() string {
	scheme, port := "tcp", PlainPort
	if o.UseTLS {
		scheme, port = "ssl", TLSPort
	}

	if o.Port != 0 {
		port = o.Port
	}

	return fmt.Sprintf("%s://%s:%d", scheme, o.Host, port)
}

// ClientID is the configured device id, or a fresh random one.
func (o Options) ClientID() string {
	if o.DeviceID != "" {
		return o.DeviceID
	}

	return "neoclock-" + uuid.NewString()
}

func (o Options) topic() string {
	if o.Topic == "" {
		return DefaultTopic
	}

	return o.Topic
}

func (o Options) clientOptions() *mqtt.ClientOptions {
	id := o.ClientID()

	opts := mqtt.NewClientOptions().
		AddBroker(o.BrokerURL()).
		SetClientID(id).
		SetKeepAlive(keepAlive).
		SetConnectTimeout(connectTimeout).
		SetAutoReconnect(true)

	if o.Password != "" {
		opts.SetUsername(id).SetPassword(o.Password)
	}

	if o.UseTLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	return opts
}

// Subscriber feeds every valid message published on the topic to handle.
type Subscriber struct {
	opts   Options
	handle func(context.Context, message.Envelope)
}

func NewSubscriber(opts Options, handle func(context.Context, message.Envelope)) *Subscriber {
	return &Subscriber{opts: opts, handle: handle}
}

func (s *Subscriber) String() string {
	return "mqtt " + s.opts.BrokerURL()
}

// MessageHandler decodes a publish and hands it on. Invalid messages are logged and dropped.
func (s *Subscriber) MessageHandler(ctx context.Context) mqtt.MessageHandler {
	return func(_ mqtt.Client, m mqtt.Message) {
		env, err := message.Decode(m.Payload())
		if err != nil {
			slog.WarnContext(ctx, "Dropping control message", "topic", m.Topic(), "error", err)

			return
		}

		slog.DebugContext(ctx, "Control message", "type", env.Type, "id", env.ID)
		s.handle(ctx, env)
	}
}

// Serve connects and stays subscribed until ctx ends. The subscription is
// renewed on every reconnect.
func (s *Subscriber) Serve(ctx context.Context) error {
	ctx = logging.PackageCtx(ctx, "transport")
	topic := s.opts.topic()
	onMessage := s.MessageHandler(ctx)

	opts := s.opts.clientOptions().
		SetOnConnectHandler(func(c mqtt.Client) {
			slog.InfoContext(ctx, "Connected to broker", "broker", s.opts.BrokerURL(), "topic", topic)

			if token := c.Subscribe(topic, 0, onMessage); token.Wait() && token.Error() != nil {
				slog.ErrorContext(ctx, "Could not subscribe", "topic", topic, "error", token.Error())
			}
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			slog.WarnContext(ctx, "Lost broker connection", "error", err)
		})

	client := mqtt.NewClient(opts)
	if err := wait(ctx, client.Connect()); err != nil {
		return fmt.Errorf("could not connect to %s: %w", s.opts.BrokerURL(), err)
	}

	<-ctx.Done()
	client.Disconnect(quiesce)

	return ctx.Err()
}

// Publish sends one control message and disconnects.
func Publish(ctx context.Context, opts Options, env message.Envelope) error {
	body, err := env.Encode()
	if err != nil {
		return err
	}

	client := mqtt.NewClient(opts.clientOptions().SetAutoReconnect(false))
	if err := wait(ctx, client.Connect()); err != nil {
		return fmt.Errorf("could not connect to %s: %w", opts.BrokerURL(), err)
	}
	defer client.Disconnect(quiesce)

	if err := wait(ctx, client.Publish(opts.topic(), 0, false, body)); err != nil {
		return fmt.Errorf("could not publish %s message: %w", env.Type, err)
	}

	slog.InfoContext(ctx, "Published", "topic", opts.topic(), "type", env.Type, "id", env.ID)

	return nil
}

func wait(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(connectTimeout):
		return ErrTimeout
	}
}
