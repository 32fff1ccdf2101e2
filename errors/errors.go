package errors

import "fmt"

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrConnectionClosed = fmt.Errorf("connection closed")
)
