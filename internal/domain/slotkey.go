package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-HoldService/pkg/types"
)

// SlotKey identifies one bookable calendar unit: a station on a given
// date and time slot. At most one active hold or confirmed booking may
// occupy a slot key at a time.
type SlotKey struct {
	EventDate time.Time
	TimeSlot  types.TimeString
	StationID int64
}

// String returns a human-readable representation used in logs
func (k SlotKey) String() string {
	return fmt.Sprintf("%s/%s/station=%d", k.EventDate.Format(DateFormat), k.TimeSlot, k.StationID)
}
