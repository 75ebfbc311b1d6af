package ui

// View identifies one of the signed in screens
type View int

const (
	ViewDashboard View = iota
	ViewBoard
	ViewAssistant
)

// String returns the name shown in the header
func (v View) String() string {
	switch v {
	case ViewDashboard:
		return "Dashboard"
	case ViewBoard:
		return "Board"
	case ViewAssistant:
		return "Assistant"
	default:
		return "Unknown"
	}
}
