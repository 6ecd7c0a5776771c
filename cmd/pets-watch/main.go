// Package main - pets-watch
// Connects to a running game's status server and follows its event feed.
// With -clients above 1 it doubles as a fan-out soak test for the feed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Config for the watcher
type Config struct {
	ServerURL string
	Clients   int
	Duration  time.Duration
	Quiet     bool
}

// Stats tracks what the spectators received
type Stats struct {
	Connected        int64
	MessagesReceived int64
	Snapshots        int64
	Errors           int64
	ByType           map[string]int64
	mu               sync.Mutex
}

func (s *Stats) count(eventType string) {
	s.mu.Lock()
	s.ByType[eventType]++
	s.mu.Unlock()
}

// feedMessage is the subset of a feed message the watcher reads.
type feedMessage struct {
	Type     string          `json:"type"`
	TargetID string          `json:"target_id"`
	Payload  json.RawMessage `json:"payload"`
	Session  *struct {
		ID string `json:"id"`
	} `json:"session"`
}

func main() {
	serverURL := flag.String("url", "ws://localhost:8080/ws", "status server WebSocket URL")
	clients := flag.Int("clients", 1, "number of concurrent spectators")
	duration := flag.Duration("duration", 0, "stop after this long (0 = until interrupted)")
	quiet := flag.Bool("quiet", false, "only print the summary")
	flag.Parse()

	config := Config{
		ServerURL: *serverURL,
		Clients:   *clients,
		Duration:  *duration,
		Quiet:     *quiet,
	}

	ctx, cancel := context.WithCancel(context.Background())
	if config.Duration > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), config.Duration)
	}
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		cancel()
	}()

	stats := newStats()
	watch(ctx, config, os.Stdout, stats)
	printResults(os.Stdout, stats)
	if atomic.LoadInt64(&stats.Connected) == 0 {
		os.Exit(1)
	}
}

func newStats() *Stats {
	return &Stats{ByType: make(map[string]int64)}
}

// watch runs the spectators until ctx is done or every connection closes.
func watch(ctx context.Context, config Config, out io.Writer, stats *Stats) {
	if config.Clients < 1 {
		config.Clients = 1
	}

	var printMu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < config.Clients; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()
			// Only the first spectator prints; the rest just count.
			var w io.Writer
			if clientID == 0 && !config.Quiet {
				w = out
			}
			runClient(ctx, clientID, config, stats, w, &printMu)
		}(i)
	}
	wg.Wait()
}

func runClient(ctx context.Context, clientID int, config Config, stats *Stats, out io.Writer, printMu *sync.Mutex) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.ServerURL, nil)
	if err != nil {
		log.Printf("Spectator %d: connection failed: %v", clientID, err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	atomic.AddInt64(&stats.Connected, 1)

	go func() {
		<-ctx.Done()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				atomic.AddInt64(&stats.Errors, 1)
			}
			return
		}
		// The server batches queued messages, one per line.
		for _, line := range strings.Split(string(data), "\n") {
			var msg feedMessage
			if err := json.Unmarshal([]byte(line), &msg); err != nil {
				atomic.AddInt64(&stats.Errors, 1)
				continue
			}
			atomic.AddInt64(&stats.MessagesReceived, 1)
			if msg.Type == "SNAPSHOT" {
				atomic.AddInt64(&stats.Snapshots, 1)
			}
			stats.count(msg.Type)

			if out != nil {
				printMu.Lock()
				fmt.Fprintln(out, describe(msg))
				printMu.Unlock()
			}
		}
	}
}

func describe(msg feedMessage) string {
	switch {
	case msg.Type == "SNAPSHOT" && msg.Session != nil:
		return "watching session " + msg.Session.ID
	case msg.TargetID != "":
		return fmt.Sprintf("%-18s %s %s", msg.Type, msg.TargetID, string(msg.Payload))
	}
	return msg.Type
}

func printResults(out io.Writer, stats *Stats) {
	fmt.Fprintln(out, "\n=========================================")
	fmt.Fprintf(out, "Spectators connected: %d\n", atomic.LoadInt64(&stats.Connected))
	fmt.Fprintf(out, "Messages received:    %d\n", atomic.LoadInt64(&stats.MessagesReceived))
	fmt.Fprintf(out, "Errors:               %d\n", atomic.LoadInt64(&stats.Errors))

	stats.mu.Lock()
	defer stats.mu.Unlock()
	for t, n := range stats.ByType {
		fmt.Fprintf(out, "  %-20s %d\n", t, n)
	}
	fmt.Fprintln(out, "=========================================")
}
