package attendance

import (
	"math"
	"time"
)

type Method string

const (
	MethodFacial Method = "facial"
	MethodManual Method = "manual"
)

func (m Method) Valid() bool {
	return m == MethodFacial || m == MethodManual
}

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type Location struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// Attendance is one employee's presence on one local calendar date.
type Attendance struct {
	ID               string
	EmployeeID       string
	Date             string // YYYY-MM-DD in the business timezone
	CheckIn          time.Time
	CheckOut         *time.Time
	CheckInMethod    Method
	CheckOutMethod   *Method
	CheckInLocation  *Location
	CheckOutLocation *Location
	WorkHours        float64
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined from employees on list queries
	EmployeeName *string
	Department   *string
}

// WorkHoursBetween returns the elapsed hours rounded to two decimals.
func WorkHoursBetween(checkIn, checkOut time.Time) float64 {
	return Round2(checkOut.Sub(checkIn).Hours())
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Complete closes an active record at checkOut.
func (a *Attendance) Complete(checkOut time.Time, method Method, loc *Location) error {
	if a.Status != StatusActive || a.CheckOut != nil {
		return ErrNoActiveCheckIn
	}
	if checkOut.Before(a.CheckIn) {
		return ErrCheckOutBeforeCheckIn
	}
	a.CheckOut = &checkOut
	a.CheckOutMethod = &method
	a.CheckOutLocation = loc
	a.Recompute()
	return nil
}

// Correct overwrites the given timestamps and re-derives hours and status.
func (a *Attendance) Correct(checkIn, checkOut *time.Time) error {
	newIn := a.CheckIn
	if checkIn != nil {
		newIn = *checkIn
	}
	newOut := a.CheckOut
	if checkOut != nil {
		out := *checkOut
		newOut = &out
	}
	if newOut != nil && newOut.Before(newIn) {
		return ErrCheckOutBeforeCheckIn
	}

	a.CheckIn = newIn
	a.CheckOut = newOut
	if checkOut != nil && a.CheckOutMethod == nil {
		m := MethodManual
		a.CheckOutMethod = &m
	}
	a.Recompute()
	return nil
}

// Recompute derives WorkHours and Status from the timestamps.
func (a *Attendance) Recompute() {
	if a.CheckOut == nil {
		a.WorkHours = 0
		a.Status = StatusActive
		return
	}
	a.WorkHours = WorkHoursBetween(a.CheckIn, *a.CheckOut)
	a.Status = StatusCompleted
}

// LiveHours is elapsed time for an active record, stored hours otherwise.
func (a Attendance) LiveHours(now time.Time) float64 {
	if a.Status == StatusActive && a.CheckOut == nil {
		if now.Before(a.CheckIn) {
			return 0
		}
		return WorkHoursBetween(a.CheckIn, now)
	}
	return a.WorkHours
}

// Snapshot is the audited view of a record.
type Snapshot struct {
	CheckIn   string  `json:"check_in"`
	CheckOut  *string `json:"check_out,omitempty"`
	WorkHours float64 `json:"work_hours"`
	Status    Status  `json:"status"`
}

func (a Attendance) Snapshot() Snapshot {
	s := Snapshot{
		CheckIn:   a.CheckIn.Format(time.RFC3339),
		WorkHours: a.WorkHours,
		Status:    a.Status,
	}
	if a.CheckOut != nil {
		out := a.CheckOut.Format(time.RFC3339)
		s.CheckOut = &out
	}
	return s
}
