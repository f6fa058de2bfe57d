package neoclock

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dasdy/neoclock/message"
	"github.com/dasdy/neoclock/transport"
	"github.com/spf13/cobra"
)

var (
	sendBroker  brokerFlags
	sendURL     string
	sendTimeout time.Duration
)

// sendCmd represents the send command.
var sendCmd = &cobra.Command{
	Use:   "send MESSAGE",
	Short: "Send one control message",
	Long: `Validate a JSON control message such as '{"type":"Move","id":1,"x":4,"y":8}'
and publish it to the MQTT topic, or post it to a preview server with --url.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := message.Decode([]byte(args[0]))
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), sendTimeout)
		defer cancel()

		if sendURL != "" {
			return postControl(ctx, sendURL, env)
		}

		if sendBroker.host == "" {
			return fmt.Errorf("either --host or --url is required")
		}

		return transport.Publish(ctx, sendBroker.options(), env)
	},
}

func postControl(ctx context.Context, baseURL string, env message.Envelope) error {
	body, err := env.Encode()
	if err != nil {
		return err
	}

	url := strings.TrimSuffix(baseURL, "/") + "/control"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not post to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		reason, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

		return fmt.Errorf("%s rejected the message: %s: %s", url, resp.Status, strings.TrimSpace(string(reason)))
	}

	slog.Info("Posted", "url", url, "type", env.Type, "id", env.ID)

	return nil
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendBroker.register(sendCmd.Flags())
	sendCmd.Flags().StringVar(&sendURL, "url", "", "Preview server address, e.g. http://localhost:8080")
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 10*time.Second, "Give up after this long")
}
