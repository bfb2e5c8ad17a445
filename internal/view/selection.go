package view

import "github.com/samcarey/aetherweave/internal/orbit"

// Selection is either empty or a weak reference to one body.
type Selection struct {
	handle   orbit.Handle
	selected bool
}

// Press applies a primary-button press. A hit selects the body, a miss
// clears the selection.
func (s *Selection) Press(h orbit.Handle, ok bool) {
	if !ok {
		s.Clear()
		return
	}
	s.handle = h
	s.selected = true
}

func (s *Selection) Clear() {
	*s = Selection{}
}

// Handle returns the selected handle without checking that it is still live.
func (s Selection) Handle() (orbit.Handle, bool) {
	return s.handle, s.selected
}

// Resolve returns the selected body if it is still in sys.
func (s Selection) Resolve(sys *orbit.System) (orbit.Handle, *orbit.Body, bool) {
	if !s.selected || sys == nil {
		return orbit.Handle{}, nil, false
	}
	b, ok := sys.Get(s.handle)
	if !ok {
		return orbit.Handle{}, nil, false
	}
	return s.handle, b, true
}

// Is reports whether h is the selected body.
func (s Selection) Is(h orbit.Handle) bool {
	return s.selected && s.handle == h
}

// Name returns the selected body's name, or "" when nothing live is selected.
func (s Selection) Name(sys *orbit.System) string {
	_, b, ok := s.Resolve(sys)
	if !ok {
		return ""
	}
	return b.Name
}

// SelectByName selects the named body. An unknown or empty name clears the
// selection and returns false.
func (s *Selection) SelectByName(sys *orbit.System, name string) bool {
	if name == "" || sys == nil {
		s.Clear()
		return false
	}
	h, ok := sys.Lookup(name)
	s.Press(h, ok)
	return ok
}
