package service

import (
	"errors"

	"github.com/brightdesk/portal/internal/models"
)

// StateNone is the pseudo-state of a user with no registration row.
const StateNone models.RegistrationState = "none"

type RSVPAction string

const (
	ActionJoin  RSVPAction = "join"
	ActionLeave RSVPAction = "leave"
)

// rsvpEffect is the side effect a transition asks the caller to perform.
type rsvpEffect int

const (
	effectNone rsvpEffect = iota
	effectInsertConfirmed
	effectInsertWaitlist
	effectDelete
)

var errInvalidAction = errors.New("invalid rsvp action")

// transition is the single place the {none, confirmed, waitlist} state
// machine is encoded. seatFree reports whether a confirmed seat is
// available at the moment of the call; it only matters for join from none.
// Promotion (waitlist -> confirmed) is system-triggered and handled by the
// leave path directly, not by a user action.
func transition(current models.RegistrationState, action RSVPAction, seatFree bool) (models.RegistrationState, rsvpEffect, error) {
	switch action {
	case ActionJoin:
		switch current {
		case StateNone:
			if seatFree {
				return models.StateConfirmed, effectInsertConfirmed, nil
			}
			return models.StateWaitlist, effectInsertWaitlist, nil
		default:
			// Repeated join is a no-op; the caller reports the existing state.
			return current, effectNone, nil
		}
	case ActionLeave:
		switch current {
		case StateNone:
			return StateNone, effectNone, nil
		default:
			return StateNone, effectDelete, nil
		}
	default:
		return current, effectNone, errInvalidAction
	}
}
