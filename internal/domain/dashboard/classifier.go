package dashboard

import (
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
)

// FullDayHours is the threshold for a full working day.
const FullDayHours = 8.0

// DefaultLateHour is the local hour at or after which a check-in is late.
const DefaultLateHour = 9

type DayStatus string

const (
	DayFull       DayStatus = "full"
	DayIncomplete DayStatus = "incomplete"
	DayAbsent     DayStatus = "absent"
)

type LiveState string

const (
	LiveAbsent     LiveState = "absent"
	LivePresent    LiveState = "present"
	LiveCheckedOut LiveState = "checked_out"
)

type Color string

const (
	ColorGreen Color = "green"
	ColorRed   Color = "red"
	ColorGrey  Color = "grey"
	ColorBlue  Color = "blue"
)

// ClassifyDay maps a day's work hours to a status and color.
func ClassifyDay(workHours float64) (DayStatus, Color) {
	switch {
	case workHours >= FullDayHours:
		return DayFull, ColorGreen
	case workHours > 0:
		return DayIncomplete, ColorRed
	default:
		return DayAbsent, ColorGrey
	}
}

// ClassifyRecord classifies an optional record. No record means absent.
func ClassifyRecord(rec *attendance.Attendance) (DayStatus, Color) {
	if rec == nil {
		return DayAbsent, ColorGrey
	}
	return ClassifyDay(rec.WorkHours)
}

// LiveStatusOf reports an employee's state for today. Hours of an active
// record run up to now.
func LiveStatusOf(rec *attendance.Attendance, now time.Time) (LiveState, Color, float64) {
	if rec == nil {
		return LiveAbsent, ColorGrey, 0
	}
	if rec.CheckOut != nil {
		return LiveCheckedOut, ColorBlue, rec.WorkHours
	}
	return LivePresent, ColorGreen, rec.LiveHours(now)
}

// IsLate reports whether checkIn falls at or after lateHour in loc.
func IsLate(checkIn time.Time, loc *time.Location, lateHour int) bool {
	return checkIn.In(loc).Hour() >= lateHour
}
