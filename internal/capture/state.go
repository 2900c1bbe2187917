// Package capture drives the photo capture flow of the mobile app against the
// HTTP API: take a photo, recognize it, preview the match and save it.
package capture

import (
	"errors"
	"fmt"
)

type State string

const (
	StateIdle           State = "idle"
	StateCapturing      State = "capturing"
	StateAnalyzing      State = "analyzing"
	StateAnalyzeFailed  State = "analyze_failed"
	StatePreviewValid   State = "previewing_valid"
	StatePreviewInvalid State = "previewing_invalid"
	StateSaving         State = "saving"
)

type Event string

const (
	EventCapture          Event = "capture"
	EventPhotoAcquired    Event = "photo_acquired"
	EventAnalyzeSucceeded Event = "analyze_succeeded"
	EventAnalyzeFailed    Event = "analyze_failed"
	EventRetry            Event = "retry"
	EventCancel           Event = "cancel"
	EventRetake           Event = "retake"
	EventSave             Event = "save"
	EventSaveSucceeded    Event = "save_succeeded"
	EventSaveFailed       Event = "save_failed"
	EventHelp             Event = "help"
)

var ErrInvalidTransition = errors.New("invalid capture transition")

var transitions = map[State]map[Event]State{
	StateIdle: {
		EventCapture: StateCapturing,
	},
	StateCapturing: {
		EventPhotoAcquired: StateAnalyzing,
		EventCancel:        StateIdle,
	},
	StateAnalyzing: {
		// EventAnalyzeSucceeded is resolved by Next from the match validity.
		EventAnalyzeFailed: StateAnalyzeFailed,
	},
	StateAnalyzeFailed: {
		EventRetry:  StateAnalyzing,
		EventCancel: StateIdle,
	},
	StatePreviewValid: {
		EventRetake: StateCapturing,
		EventSave:   StateSaving,
		EventCancel: StateIdle,
	},
	StatePreviewInvalid: {
		EventRetake: StateCapturing,
		EventHelp:   StatePreviewInvalid,
		EventCancel: StateIdle,
	},
	StateSaving: {
		EventSaveSucceeded: StateIdle,
		EventSaveFailed:    StatePreviewValid,
	},
}

// Next returns the state reached from "from" on event ev. valid only matters
// for EventAnalyzeSucceeded and selects which preview is shown.
func Next(from State, ev Event, valid bool) (State, error) {
	if from == StateAnalyzing && ev == EventAnalyzeSucceeded {
		if valid {
			return StatePreviewValid, nil
		}
		return StatePreviewInvalid, nil
	}
	to, ok := transitions[from][ev]
	if !ok {
		return from, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, from, ev)
	}
	return to, nil
}
