package metabolic

// Edit runs fn as a scoped edit of m. Every mutation made through m's
// methods inside fn is recorded and undone, in reverse order, when fn
// returns, fails or panics; a panic is re-raised after the rollback.
// The error of fn is returned unchanged.
//
// Edits are serialised: a second Edit on the same model blocks until the
// first one has rolled back, so fn must not call Edit itself. Readers
// running concurrently with an edit observe the intermediate state;
// callers that need isolation work on a Clone instead.
func (m *Model) Edit(fn func(*Model) error) error {
	m.editMu.Lock()
	defer m.editMu.Unlock()

	m.mu.Lock()
	m.journal = make([]func(), 0, 16)
	m.mu.Unlock()

	defer m.rollback()

	return fn(m)
}

// rollback replays the journal backwards and closes the scope.
func (m *Model) rollback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.journal) - 1; i >= 0; i-- {
		m.journal[i]()
	}
	m.journal = nil
}

// record appends an undo step when a scoped edit is active.
// Caller must hold m.mu.
func (m *Model) record(undo func()) {
	if m.journal != nil {
		m.journal = append(m.journal, undo)
	}
}
