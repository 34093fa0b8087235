package entity

import "time"

type StatusCode string

const (
	StatusOK            StatusCode = "OK"
	StatusError         StatusCode = "ERROR"
	StatusCriticalError StatusCode = "CRITICAL_ERROR"
)

// SystemStatus is the single-row health record written by the background loops.
type SystemStatus struct {
	Row int

	Status  StatusCode
	LastRun time.Time
	Message string
}
