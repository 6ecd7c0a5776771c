// Package main is the entry point for VirtualPets.
// It only handles configuration and dependency injection.
// NO game logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/MRamiBalles/VirtualPets/internal/console"
	"github.com/MRamiBalles/VirtualPets/internal/controller"
	"github.com/MRamiBalles/VirtualPets/internal/events"
	"github.com/MRamiBalles/VirtualPets/internal/infra/storage"
	"github.com/MRamiBalles/VirtualPets/internal/network"
	"github.com/MRamiBalles/VirtualPets/internal/platform/config"
	"github.com/MRamiBalles/VirtualPets/internal/platform/logger"
	"github.com/MRamiBalles/VirtualPets/internal/platform/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- run(ctx, os.Stdin, os.Stdout, nil) }()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, controller.ErrInputClosed) {
			fmt.Fprintln(os.Stderr, "virtualpets:", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		// The controller may be blocked on stdin; there is nothing to save.
		fmt.Fprintln(os.Stdout)
	}
}

// run plays until the player quits. statusReady, if not nil, receives the
// status server's address once it is listening.
func run(ctx context.Context, in io.Reader, out io.Writer, statusReady func(net.Addr)) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	appLogger, closer, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	appLogger.Info("Starting VirtualPets...")

	collector := metrics.NewCollector()

	var persister events.EventPersister
	var journal *storage.Journal
	if cfg.JournalPath != "" {
		appLogger.Info("Opening journal " + cfg.JournalPath)
		journal, err = storage.OpenJournal(cfg.JournalPath, collector)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer journal.Close()
		persister = journal
	}

	eventLog := events.NewEventLog(persister)
	eventLog.OnPersistError(func(e events.GameEvent, err error) {
		appLogger.Error(fmt.Sprintf("Journal write failed for %s %s: %v", e.Type, e.ID, err))
	})

	term := console.NewTerminal(out, in)
	ctrl := controller.New(term, term, controller.Options{
		TickInterval:  cfg.TickInterval,
		NuisanceMood:  cfg.NuisanceMood,
		ExitCountdown: cfg.ExitCountdown,
		Logger:        appLogger,
		Metrics:       collector,
		EventLog:      eventLog,
		Art:           console.Art,
	})

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	if cfg.StatusAddr != "" {
		hub := network.NewHub(appLogger, collector)
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Run(ctx)
		}()
		hub.StartEventPoller(ctx, eventLog)

		opts := network.Options{
			Status:   ctrl,
			EventLog: eventLog,
			Hub:      hub,
			Metrics:  collector,
			Logger:   appLogger,
		}
		if journal != nil {
			opts.Journal = journal
		}
		srv := network.NewServer(opts)

		ln, err := net.Listen("tcp", cfg.StatusAddr)
		if err != nil {
			return fmt.Errorf("status server: %w", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Serve(ctx, ln, statusReady); err != nil {
				appLogger.Error("Status server stopped: " + err.Error())
			}
		}()
	}

	return ctrl.Run(ctx)
}
