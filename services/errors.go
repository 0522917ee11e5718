package services

import "errors"

// Sentinel errors returned by the services. Handlers map these onto HTTP
// responses with errors.Is; the services never see transport types.
var (
	ErrStudentNotFound     = errors.New("student not found")
	ErrBatchNotFound       = errors.New("batch not found")
	ErrAlreadyEnrolled     = errors.New("student is already enrolled in this batch")
	ErrNotEnrolled         = errors.New("student is not enrolled in this batch")
	ErrBatchFull           = errors.New("batch has reached its capacity")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidStatus       = errors.New("invalid attendance status")
	ErrTooManyRecords      = errors.New("too many attendance records in one submission")
	ErrInvalidCapacity     = errors.New("capacity must be a positive integer")
	ErrDateRange           = errors.New("end date must not be before start date")
	ErrCapacityBelowRoster = errors.New("capacity cannot be below the current roster size")
)
