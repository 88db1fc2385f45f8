package usecase

import "fmt"

// ErrPersistence indicates an infrastructure/repository failure inside a use
// case. Callers surface it as a generic internal error; validation and
// protocol errors pass through as domain sentinels.
var ErrPersistence = fmt.Errorf("chat use case persistence error")
