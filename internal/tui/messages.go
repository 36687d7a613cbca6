// Package tui provides Bubble Tea models for the interactive seat chart.
package tui

import "github.com/h0rv/shuhan/internal/domain"

// ChamberSelectedMsg is emitted when the user picks a chamber.
type ChamberSelectedMsg struct {
	Chamber *domain.Chamber
}

// ErrorMsg is emitted when an error occurs.
type ErrorMsg struct {
	Err error
}

// QuitMsg is emitted when the user requests to quit.
type QuitMsg struct{}

// Board-internal messages.
type (
	// transitionEndMsg reports that one animated column finished moving.
	transitionEndMsg struct{}
	// frameMsg is one rendering opportunity for the deferred swap commit.
	frameMsg struct{}
	// shareResultMsg reports the outcome of opening the share link.
	shareResultMsg struct {
		link string
		err  error
	}
	openSummaryMsg  struct{}
	closeSummaryMsg struct{}
)
