package app

// SessionState tracks the user's position in the card stack and which
// nuggets they have been credited with completing. It knows nothing
// about rendering or the network; the engine owns one instance per
// session and all mutation happens on the state-owning goroutine.
type SessionState struct {
	CurrentIndex int

	// CompletedNuggetIDs is insertion-ordered and duplicate-free: a
	// nugget is credited the first time the user advances past any of
	// its cards, and the order reflects when that first happened.
	CompletedNuggetIDs []string
}

// Advance moves forward one card, crediting the nugget that owned the
// card being left. Crediting happens only here: never on Back, never on
// Skip.
func (s *SessionState) Advance(cards []Card) {
	if s.CurrentIndex < len(cards) {
		s.credit(cards[s.CurrentIndex].NuggetID)
	}
	s.CurrentIndex++
}

// Skip moves forward one card without crediting completion. Used when
// the user dismisses content they don't want counted toward their
// review stats.
func (s *SessionState) Skip() {
	s.CurrentIndex++
}

// Back moves one card backward, clamped at the first card. It does not
// remove completion credit: moving backward never undoes an advance.
// That asymmetry is intentional.
func (s *SessionState) Back() {
	if s.CurrentIndex > 0 {
		s.CurrentIndex--
	}
}

// Done reports whether the stack has been exhausted. Once the index
// passes the last card there is no way back to an active state short of
// starting a new session.
func (s *SessionState) Done(cardCount int) bool {
	return s.CurrentIndex >= cardCount
}

func (s *SessionState) credit(nuggetID string) {
	for _, id := range s.CompletedNuggetIDs {
		if id == nuggetID {
			return
		}
	}
	s.CompletedNuggetIDs = append(s.CompletedNuggetIDs, nuggetID)
}
