package cli

import (
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/binhbb2204/Anime-Hub-Group13/cli/config"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Watch live notifications",
	Long:  `Connect to the notification socket and print list, progress, achievement and subscription events as they happen.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			printError("Configuration not initialized")
			return err
		}
		if cfg.User.Token == "" {
			printError("Not authenticated. Run 'animehub auth login' first")
			return errNotLoggedIn
		}

		wsURL := strings.Replace(cfg.ServerURL(), "http", "ws", 1) + "/ws?token=" + url.QueryEscape(cfg.User.Token)
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			printError(fmt.Sprintf("Failed to connect: %v", err))
			return err
		}
		defer conn.Close()

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				_, message, err := conn.ReadMessage()
				if err != nil {
					return
				}
				var ev struct {
					Type      string `json:"type"`
					Message   string `json:"message"`
					Timestamp int64  `json:"timestamp"`
				}
				if err := json.Unmarshal(message, &ev); err != nil || ev.Type == "heartbeat" {
					continue
				}
				if ev.Type == "connected" {
					printSuccess("Connected, waiting for events (Ctrl+C to quit)")
					continue
				}
				fmt.Printf("[%s] %-22s %s\n", time.Unix(ev.Timestamp, 0).Format("15:04:05"), ev.Type, ev.Message)
			}
		}()

		select {
		case <-done:
			printInfo("Connection closed by server")
		case <-interrupt:
			fmt.Println()
			printSuccess("Disconnecting...")
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			select {
			case <-done:
			case <-time.After(time.Second):
			}
		}
		return nil
	},
}
