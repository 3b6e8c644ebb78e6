package shredview

import (
	"context"

	"thermite/internal/logging"
	"thermite/internal/shred"

	tea "github.com/charmbracelet/bubbletea"
)

// Reporter forwards engine events to p.
func Reporter(p *tea.Program) shred.Reporter {
	return shred.ReporterFunc(func(e shred.Event) {
		p.Send(EventMsg{Event: e})
	})
}

// Run destroys path while showing the progress view. opts.Reporter is
// replaced. It returns once both the engine and the program have stopped.
func Run(ctx context.Context, path string, opts shred.Options, logger *logging.AppLogger, progOpts ...tea.ProgramOption) (*shred.Result, error) {
	if logger == nil {
		logger = logging.GetDefault()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(New(path, cancel, logger), progOpts...)
	opts.Reporter = Reporter(program)

	s, err := shred.New(opts, logger)
	if err != nil {
		return nil, err
	}

	type outcome struct {
		res *shred.Result
		err error
	}
	finished := make(chan outcome, 1)
	go func() {
		res, err := s.SecureDelete(ctx, path)
		finished <- outcome{res, err}
		program.Send(DoneMsg{Result: res, Err: err})
	}()

	if _, err := program.Run(); err != nil {
		// The view is gone; stop the engine and report its outcome anyway.
		logger.Warn("Progress view failed", "error", err)
		cancel()
	}
	out := <-finished
	return out.res, out.err
}
