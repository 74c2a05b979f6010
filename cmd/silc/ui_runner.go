package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"sil/internal/driver"
	"sil/internal/sil"
	"sil/internal/ui"
)

type checkOutcome struct {
	report *driver.Report
	err    error
}

func runCheckWithUI(ctx context.Context, title string, funcs []string, m *sil.Module, opts driver.Options) (*driver.Report, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		opts.Sink = driver.ChannelSink{Ch: events}
		report, err := driver.CheckParallel(ctx, m, opts)
		outcomeCh <- checkOutcome{report: report, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, funcs, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
