package server

import (
	"errors"
	"sync"

	"torres/utils"
)

var ErrSeatsTaken = errors.New("all seats are taken")

// Seats maps connection sessions to player ids. A seat is free when its
// session is empty.
type Seats struct {
	mu       sync.Mutex
	sessions []string
	types    []string
}

func NewSeats(n int) *Seats {
	return &Seats{
		sessions: make([]string, n),
		types:    make([]string, n),
	}
}

// Join gives the session the first free seat, or its current one.
func (s *Seats) Join(session string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id := utils.FindIndex(s.sessions, session); id >= 0 {
		return id, nil
	}
	id := utils.FindIndex(s.sessions, "")
	if id < 0 {
		return -1, ErrSeatsTaken
	}
	s.sessions[id] = session
	return id, nil
}

// Leave frees the seat of the session and returns it, -1 if it had none.
func (s *Seats) Leave(session string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := utils.FindIndex(s.sessions, session)
	if id >= 0 {
		s.sessions[id] = ""
	}
	return id
}

// ID returns the player id of the session, -1 for spectators.
func (s *Seats) ID(session string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return utils.FindIndex(s.sessions, session)
}

func (s *Seats) SetType(session, typ string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := utils.FindIndex(s.sessions, session)
	if id < 0 {
		return false
	}
	s.types[id] = typ
	return true
}

func (s *Seats) Status() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return utils.Map(s.sessions, func(session string) string {
		if session == "" {
			return "disconnected"
		}
		return "connected"
	})
}

func (s *Seats) Types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return utils.Map(s.types, func(typ string) string {
		if typ == "" {
			return "-"
		}
		return typ
	})
}
