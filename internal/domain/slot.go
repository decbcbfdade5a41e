package domain

import "github.com/bmwdroch/detailing-bot/pkg/types"

// AvailableSlot represents a time slot of the working day
type AvailableSlot struct {
	StartTime       types.TimeString
	DurationMinutes int
	Available       bool
}
