package session

import "github.com/warpdl/credsync/pkg/jar"

// EditableSlot is one editable cookie: its current status and the text the
// user is about to commit.
type EditableSlot struct {
	Name    string
	Status  Status
	Pending string
}

// EditableSet is the user-facing projection of the device token, member id
// and pass hash of one origin. It is rebuilt from the jar on every load.
type EditableSet struct {
	Origin      jar.Origin
	DeviceToken EditableSlot
	MemberID    EditableSlot
	PassHash    EditableSlot
}

// Slots returns pointers to the three slots in display order.
func (e *EditableSet) Slots() []*EditableSlot {
	return []*EditableSlot{&e.DeviceToken, &e.MemberID, &e.PassHash}
}

// Slot returns the slot for name, or nil.
func (e *EditableSet) Slot(name string) *EditableSlot {
	for _, s := range e.Slots() {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func newEditableSlot(name string, st Status) EditableSlot {
	return EditableSlot{Name: name, Status: st, Pending: st.Raw()}
}
