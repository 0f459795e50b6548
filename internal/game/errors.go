package game

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomCodeTaken    = errors.New("room code already in use")
	ErrAlreadyStarted   = errors.New("game already started")
	ErrRoomFull         = errors.New("room is full")
	ErrAlreadyJoined    = errors.New("already joined")
	ErrNotHost          = errors.New("requester is not the host")
	ErrNotParticipant   = errors.New("not a participant")
	ErrWrongPhase       = errors.New("not allowed in this phase")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrAlreadyVoted     = errors.New("already voted")
	ErrInvalidTarget    = errors.New("unknown vote target")
	ErrEmptyMessage     = errors.New("message is empty")
	ErrNoChange         = errors.New("nothing changed")
	ErrNoThemes         = errors.New("no themes available")
	ErrPhaseChanged     = errors.New("phase changed")
)

// Silent reports whether a rejection should be swallowed rather than sent
// back to the caller as an error event.
func Silent(err error) bool {
	return errors.Is(err, ErrAlreadyJoined) ||
		errors.Is(err, ErrAlreadyVoted) ||
		errors.Is(err, ErrNoChange) ||
		errors.Is(err, ErrPhaseChanged)
}
