package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/jsphweid/drumscribe/model"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
)

var listenFlags struct {
	inPort int
	server string
}

func init() {
	listenCmd.Flags().IntVar(&listenFlags.inPort, "in", 0, "midi input port number")
	listenCmd.Flags().StringVar(&listenFlags.server, "server", "", "notes API base url (default http://localhost:<port>)")
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Forwards drum hits from a midi input to the API",
	Long:  `Forwards drum hits from a midi input to a running notes API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := listenFlags.server
		if server == "" {
			server = fmt.Sprintf("http://localhost:%d", cfg.Port)
		}
		return listen(listenFlags.inPort, server)
	},
}

type hitForwarder struct {
	url    string
	client *http.Client
}

func (f hitForwarder) send(h model.Hit) error {
	key, timeMs := int(h.Key), h.TimeMs
	body, err := json.Marshal(model.HitRequestBody{Key: &key, TimeMs: &timeMs})
	if err != nil {
		return err
	}
	resp, err := f.client.Post(f.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}

func listen(port int, server string) error {
	defer midi.CloseDriver()
	in, err := midi.InPort(port)
	if err != nil {
		return fmt.Errorf("can't find midi input %d: %w", port, err)
	}

	fwd := hitForwarder{url: server + "/api/hits", client: &http.Client{Timeout: 5 * time.Second}}
	hits := make(chan model.Hit, 64)

	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		var ch, key, vel uint8
		if msg.GetNoteStart(&ch, &key, &vel) {
			select {
			case hits <- model.Hit{Key: key, TimeMs: float64(timestampms)}:
			default:
				log.Warn().Uint8("key", key).Msg("hit dropped, forwarder is behind")
			}
		}
	})
	if err != nil {
		return fmt.Errorf("could not listen to %s: %w", in, err)
	}
	defer stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	log.Info().Str("input", in.String()).Str("server", server).Msg("listening")
	for {
		select {
		case <-ctx.Done():
			return nil
		case h := <-hits:
			if err := fwd.send(h); err != nil {
				log.Error().Err(err).Msg("could not forward hit")
			}
		}
	}
}
