package domain

import (
	"time"

	"github.com/google/uuid"
)

// VoteDirection represents a voter's directional state on an answer.
type VoteDirection string

// Possible vote directions. VoteNone is the absence of a recorded vote; it is
// never stored, only reported.
const (
	VoteNone VoteDirection = "NONE"
	VoteUp   VoteDirection = "UP"
	VoteDown VoteDirection = "DOWN"
)

// Vote records a single voter's current directional state on a single answer.
// There is at most one Vote per (answer, voter) pair; re-voting mutates or
// deletes the existing record rather than appending a new one.
type Vote struct {
	AnswerID  uuid.UUID     `json:"answer_id"`
	VoterID   uuid.UUID     `json:"voter_id"`
	Direction VoteDirection `json:"direction"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Validate checks if the Vote has valid data.
func (v *Vote) Validate() error {
	if v.AnswerID == uuid.Nil {
		return ErrEmptyAnswerID
	}

	if v.VoterID == uuid.Nil {
		return ErrEmptyProfileID
	}

	// Only directional votes are stored.
	if v.Direction != VoteUp && v.Direction != VoteDown {
		return ErrInvalidVoteDirection
	}

	return nil
}

// ParseVoteDirection converts a wire value into a VoteDirection.
// Returns ErrInvalidVoteDirection for anything other than UP or DOWN.
func ParseVoteDirection(s string) (VoteDirection, error) {
	switch VoteDirection(s) {
	case VoteUp:
		return VoteUp, nil
	case VoteDown:
		return VoteDown, nil
	default:
		return VoteNone, ErrInvalidVoteDirection
	}
}
