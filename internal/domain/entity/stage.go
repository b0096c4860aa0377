package entity

import "fmt"

// Stage tracks how far an event's reminder sequence has progressed.
// Values are ordered; a later stage always compares greater.
type Stage int

const (
	StageRecorded Stage = iota
	StageNotified30
	StageNotified10
	StageNotified5
	StageDone
)

var stageNames = map[Stage]string{
	StageRecorded:   "RECORDED",
	StageNotified30: "NOTIFIED_30",
	StageNotified10: "NOTIFIED_10",
	StageNotified5:  "NOTIFIED_5",
	StageDone:       "DONE",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Valid reports whether s is one of the five lifecycle stages.
func (s Stage) Valid() bool {
	return s >= StageRecorded && s <= StageDone
}

// Before reports whether s comes strictly earlier than other in the lifecycle.
func (s Stage) Before(other Stage) bool {
	return s < other
}

// IsTerminal reports whether no further reminders are evaluated.
func (s Stage) IsTerminal() bool {
	return s == StageDone
}

// Stages returns the lifecycle in order.
func Stages() []Stage {
	return []Stage{StageRecorded, StageNotified30, StageNotified10, StageNotified5, StageDone}
}
