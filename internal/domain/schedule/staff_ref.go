package schedule

// StaffRef identifies either one specific staff member or the "any
// staff" variant used by windows and appointments without an assignee.
// Modelled as a tagged value so the matching rules below are explicit
// branches instead of nil-pointer conventions.
type StaffRef struct {
	id  uint
	any bool
}

func AnyStaff() StaffRef {
	return StaffRef{any: true}
}

func SpecificStaff(id uint) StaffRef {
	return StaffRef{id: id}
}

// StaffRefFromID maps a nullable persisted staff id to a StaffRef.
func StaffRefFromID(id *uint) StaffRef {
	if id == nil {
		return AnyStaff()
	}
	return SpecificStaff(*id)
}

func (s StaffRef) IsAny() bool {
	return s.any
}

// ID returns the staff id and true for the specific variant.
func (s StaffRef) ID() (uint, bool) {
	if s.any {
		return 0, false
	}
	return s.id, true
}

// Pointer returns the nullable form used by the persistence layer.
func (s StaffRef) Pointer() *uint {
	if s.any {
		return nil
	}
	id := s.id
	return &id
}

// SameIdentity reports whether two refs name the exact same identity,
// with AnyStaff only equal to AnyStaff. Slot collision checks use this:
// an any-staff window is never crossed against a specific staff's
// appointments, and vice versa.
func (s StaffRef) SameIdentity(other StaffRef) bool {
	if s.any || other.any {
		return s.any && other.any
	}
	return s.id == other.id
}

// MatchesWindow implements the window-validation matching rule: an
// any-staff candidate is compared against every staff's windows, while
// a specific candidate only matches windows carrying the same staff id.
// The any-staff breadth is intentionally preserved from the source
// system rather than narrowed to other any-staff windows.
func (s StaffRef) MatchesWindow(window StaffRef) bool {
	if s.any {
		return true
	}
	id, _ := window.ID()
	return !window.any && id == s.id
}
