// cmd/client/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jason-s-yu/sanctum/internal/client"
	"github.com/jason-s-yu/sanctum/internal/models"
	"github.com/jason-s-yu/sanctum/internal/termui"
	"github.com/nsf/termbox-go"
	"github.com/sirupsen/logrus"
)

const frameInterval = 33 * time.Millisecond

func main() {
	name := flag.String("name", "", "display name (required)")
	factionFlag := flag.String("faction", "sanctum", "faction to play: sanctum or thief")
	url := flag.String("url", "ws://127.0.0.1:8080/match/ws", "match server endpoint")
	logPath := flag.String("log", "client.log", "log file; the terminal is used for the table")
	flag.Parse()

	if *name == "" {
		fmt.Fprintln(os.Stderr, "missing -name")
		flag.Usage()
		os.Exit(2)
	}
	faction, err := models.ParseFaction(*factionFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logrus.New()
	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger.SetOutput(logFile)
	logger.SetLevel(logrus.DebugLevel)

	if err := run(*name, faction, *url, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(name string, faction models.Faction, url string, logger *logrus.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	sess, err := client.Dial(ctx, url, logger)
	cancel()
	if err != nil {
		return err
	}
	defer sess.Close()

	app, err := client.NewApp(sess, name, faction, client.DefaultHandshakeTimeout, logger)
	if err != nil {
		return err
	}

	if err := termbox.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)

	events := make(chan termbox.Event, 64)
	go func() {
		for {
			ev := termbox.PollEvent()
			if ev.Type == termbox.EventInterrupt {
				return
			}
			events <- ev
		}
	}()
	defer termbox.Interrupt()

	renderer := &termui.Renderer{Canvas: termui.Screen{}}
	pointer := &termui.Pointer{}
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
		case <-sess.Done():
			return fmt.Errorf("connection lost: %v", sess.Err())
		}

		pointer.Projector = renderer.Projector()
	drain:
		for {
			select {
			case ev := <-events:
				switch {
				case ev.Type == termbox.EventKey && (ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC || ev.Ch == 'q'):
					return nil
				case ev.Type == termbox.EventKey && ev.Ch == 'e':
					app.EndTurn()
				case ev.Type == termbox.EventError:
					logger.Warnf("Terminal event error: %v", ev.Err)
				default:
					pointer.Feed(ev)
				}
			default:
				break drain
			}
		}

		if err := app.Frame(pointer.Frame()); err != nil {
			return err
		}

		termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
		renderer.Draw(app)
		if err := termbox.Flush(); err != nil {
			logger.Warnf("Flush: %v", err)
		}
	}
}
