package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tanks/internal/platform/web"
	"github.com/vovakirdan/tui-tanks/internal/storage"
)

var (
	flagWebAddr string
	flagWebMode string
	flagWebQR   bool
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the tanks WebSocket server",
	Long: `Start an HTTP server with a WebSocket endpoint at /ws.

Every connection plays its own private arena. Clients send JSON input
messages and receive one msgpack frame per tick. Append ?mode=<id> to the
URL to pick a mode per connection. /healthz reports the live session count.

Examples:
  tanks web
  tanks web --addr :9000 --mode tanks_evasive
  tanks web --fps 30
  tanks web --qr                  # Print the connect URL as a QR code`,
	Run: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address (host:port)")
	webCmd.Flags().StringVar(&flagWebMode, "mode", "tanks", "Default mode for new connections")
	webCmd.Flags().BoolVar(&flagWebQR, "qr", false, "Print the WebSocket URL as a QR code")
}

// connectURL turns a listen address into the URL clients dial.
func connectURL(addr string) string {
	host := addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	return "ws://" + host + "/ws"
}

// qrText renders s as a QR code made of half-block characters.
func qrText(s string) (string, error) {
	q, err := qrcode.New(s, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("qr: %w", err)
	}
	return q.ToSmallString(false), nil
}

func runWeb(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		store = nil
	}

	cfg := web.DefaultConfig()
	cfg.Address = flagWebAddr
	cfg.Mode = flagWebMode
	cfg.TickRate = flagFPS
	cfg.Store = store

	server, err := web.NewServer(cfg)
	if err != nil {
		if store != nil {
			store.Close()
		}
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting tanks web server on %s\n", cfg.Address)
	fmt.Printf("Connect with: %s\n", connectURL(cfg.Address))
	if flagWebQR {
		if qr, qrErr := qrText(connectURL(cfg.Address)); qrErr == nil {
			fmt.Print(qr)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", qrErr)
		}
	}
	fmt.Println("Press Ctrl+C to stop")

	serveErr := server.ListenAndServe(ctx)
	if store != nil {
		store.Close()
	}
	if serveErr != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", serveErr)
		os.Exit(1)
	}
}
