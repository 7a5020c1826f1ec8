package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/tobq/clipboard-tray/internal/types"
)

// apiClient talks to a running daemon's command API.
func apiClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Second}
}

func apiURL(path string) string {
	return "http://" + cfg.ListenAddr + path
}

var historyCmd = &cobra.Command{
	Use:   "history [query]",
	Short: "List clipboard history from the running daemon",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := apiURL("/api/history")
		if len(args) == 1 {
			target += "?q=" + url.QueryEscape(args[0])
		}

		resp, err := apiClient().Get(target)
		if err != nil {
			return fmt.Errorf("is the daemon running? %w", err)
		}
		defer resp.Body.Close()

		var items []types.ClipboardItem
		if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
			return fmt.Errorf("failed to decode history: %w", err)
		}

		for i, it := range items {
			marker := " "
			if n, ok := it.Pin.SlotNumber(); ok {
				marker = fmt.Sprintf("%d", n)
			} else if it.Pin == types.Pinned {
				marker = "*"
			}
			switch it.Kind {
			case types.KindImage:
				fmt.Printf("%3d %s [image %dx%d] %s\n", i, marker, it.Width, it.Height, it.ImageRef)
			default:
				fmt.Printf("%3d %s %s\n", i, marker, truncate(it.Text, 80))
			}
		}
		return nil
	},
}

var copyCmd = &cobra.Command{
	Use:   "copy <text>",
	Short: "Copy text through the running daemon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := json.Marshal(map[string]string{"text": args[0]})
		if err != nil {
			return err
		}
		resp, err := apiClient().Post(apiURL("/api/copy"), "application/json", bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("is the daemon running? %w", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("daemon answered %s", resp.Status)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("clipd %s (built %s, commit %s)\n", Version, BuildTime, Commit)
	},
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func init() {
	RootCmd.AddCommand(historyCmd)
	RootCmd.AddCommand(copyCmd)
	RootCmd.AddCommand(versionCmd)
}
