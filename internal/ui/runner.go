package ui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"bazelrc-lsp/internal/driver"
)

// Run shows the progress of work, which must report to the given sink and
// return once it is done. The view is written to out.
func Run(out io.Writer, title string, files []string, work func(driver.ProgressSink)) error {
	events := make(chan driver.Event, 256)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		work(driver.ChannelSink{Ch: events})
		close(events)
	}()

	program := tea.NewProgram(NewProgressModel(title, files, events), tea.WithOutput(out), tea.WithInput(nil))
	_, err := program.Run()
	// the view may quit early; drain so the producer can finish
	for range events {
	}
	<-finished
	return err
}
