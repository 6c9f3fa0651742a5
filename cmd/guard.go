package cmd

import (
	"fmt"
	"os"
	"os/signal"
)

// signalGuard is the CLI rendering of the original's leave-page warning: it
// traps the first interrupt during a migration and warns that progress is
// checkpointed, exiting only on a second interrupt.
type signalGuard struct {
	ch   chan os.Signal
	stop chan struct{}
}

func newSignalGuard() *signalGuard {
	return &signalGuard{}
}

func (g *signalGuard) Install() {
	g.ch = make(chan os.Signal, 2)
	g.stop = make(chan struct{})
	signal.Notify(g.ch, os.Interrupt)

	go func() {
		select {
		case <-g.ch:
		case <-g.stop:
			return
		}
		fmt.Fprintln(os.Stderr, "\nMigration in progress; progress is checkpointed. Interrupt again to quit.")
		select {
		case <-g.ch:
			os.Exit(1)
		case <-g.stop:
		}
	}()
}

func (g *signalGuard) Remove() {
	if g.ch == nil {
		return
	}
	signal.Stop(g.ch)
	close(g.stop)
	g.ch = nil
}
