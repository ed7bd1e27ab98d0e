package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrDuplicateCheckIn  = errors.New("already checked in today")
	ErrFaceNotRegistered = errors.New("face descriptor not registered")
	ErrFaceMismatch      = errors.New("face verification failed")
	ErrNoActiveCheckIn   = errors.New("no active check-in found for today")
	ErrDuplicateForDate  = errors.New("attendance already exists for this date")

	// Correction errors
	ErrCheckOutBeforeCheckIn = errors.New("check-out cannot be before check-in")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
