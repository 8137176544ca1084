package attendance

// DeriveState rebuilds the machine state from the attendance row
// (nil when none exists) and the most recent break for that row. The
// derivation is pure and idempotent: re-running it against unchanged
// storage always yields the same state.
func DeriveState(att *Attendance, lastBreak *Break) State {
	if att == nil {
		return State{Status: StatusNotStarted}
	}
	if att.ClockOut != nil {
		return State{Status: StatusFinished, AttendanceID: att.ID}
	}
	if lastBreak != nil && lastBreak.BreakEnd == nil {
		return State{Status: StatusOnBreak, AttendanceID: att.ID, BreakID: lastBreak.ID}
	}
	return State{Status: StatusWorking, AttendanceID: att.ID}
}
