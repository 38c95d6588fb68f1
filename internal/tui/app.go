// Package tui implements the terminal dashboard. All scheduler and
// coordinator state is owned by the Bubbletea update loop; probe
// goroutines only communicate through the delivery channel.
package tui

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pingmon/pingmon/internal/config"
	"github.com/pingmon/pingmon/internal/logging"
	"github.com/pingmon/pingmon/internal/scheduler"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	sched   *scheduler.Scheduler
}

// New creates a new TUI application
func New(sched *scheduler.Scheduler, cfg *config.Config, log *logging.Logger) *App {
	return &App{
		model: NewModel(sched, cfg, log),
		sched: sched,
	}
}

// SetStartupNotice sets a message shown in the status line on launch,
// such as the collector falling back to simulated data.
func (a *App) SetStartupNotice(notice string) {
	a.model.infoMessage = notice
}

// Run starts the TUI application
func (a *App) Run() error {
	a.sched.StartMonitoring()

	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		<-sigChan
		if a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	_, err := a.program.Run()

	signal.Stop(sigChan)
	a.sched.StopMonitoring()

	return err
}
