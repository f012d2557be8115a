package screen

// Manager keeps the stack of open modal screens. Only the top one receives keys.
type Manager struct {
	stack []Screen
}

// NewManager creates an empty screen manager.
func NewManager() *Manager {
	return &Manager{}
}

// Push opens s on top of the current screen.
func (m *Manager) Push(s Screen) {
	if s == nil {
		return
	}
	m.stack = append(m.stack, s)
}

// Pop closes the top screen and returns it, or nil when none is open.
func (m *Manager) Pop() Screen {
	if len(m.stack) == 0 {
		return nil
	}
	top := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return top
}

// Replace swaps the top screen for s. A nil s pops it.
func (m *Manager) Replace(s Screen) {
	if len(m.stack) == 0 {
		m.Push(s)
		return
	}
	if s == nil {
		m.Pop()
		return
	}
	m.stack[len(m.stack)-1] = s
}

// Current returns the top screen, or nil.
func (m *Manager) Current() Screen {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

// IsActive reports whether any screen is open.
func (m *Manager) IsActive() bool {
	return len(m.stack) > 0
}

// Type returns the type of the top screen, or TypeNone.
func (m *Manager) Type() Type {
	if s := m.Current(); s != nil {
		return s.Type()
	}
	return TypeNone
}

// Remove closes every screen of type t, wherever it sits in the stack.
func (m *Manager) Remove(t Type) {
	kept := m.stack[:0]
	for _, s := range m.stack {
		if s.Type() != t {
			kept = append(kept, s)
		}
	}
	m.stack = kept
}
