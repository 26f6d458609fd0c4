package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ProgressController manages the bubbletea program for progress display.
// All methods are safe on a nil controller, which is what StartProgress
// returns outside interactive mode.
type ProgressController struct {
	program *tea.Program
}

// StartProgress starts the progress display if in interactive mode
// Returns nil if not in interactive mode
func (ui *UI) StartProgress() *ProgressController {
	if ui.Mode != OutputModeInteractive {
		return nil
	}

	p := tea.NewProgram(NewModel(), tea.WithOutput(ui.ErrWriter), tea.WithInput(nil))
	go func() {
		// A failed progress display must not fail the scan.
		_, _ = p.Run()
	}()

	return &ProgressController{program: p}
}

func (pc *ProgressController) send(msg tea.Msg) {
	if pc != nil && pc.program != nil {
		pc.program.Send(msg)
	}
}

// SetStage updates the current stage and resets the item counter
func (pc *ProgressController) SetStage(stage Stage) {
	pc.send(StageMsg(stage))
}

// SetOperation updates the current operation description
func (pc *ProgressController) SetOperation(op string) {
	pc.send(OperationMsg(op))
}

// SetItemCount sets the number of items in the current stage
func (pc *ProgressController) SetItemCount(count int) {
	pc.send(ItemCountMsg(count))
}

// ItemStart names the item being worked on
func (pc *ProgressController) ItemStart(name string) {
	pc.send(ItemStartMsg(name))
}

// ItemDone advances the progress bar by one item
func (pc *ProgressController) ItemDone() {
	pc.send(ItemDoneMsg{})
}

// Done signals that all work is complete and waits for the display to exit
func (pc *ProgressController) Done(err error) {
	if pc != nil && pc.program != nil {
		pc.program.Send(DoneMsg{Err: err})
		pc.program.Wait()
	}
}
