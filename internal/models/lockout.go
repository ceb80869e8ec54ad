package models

import "time"

// LockoutPolicy — параметры блокировки после неудачных попыток входа.
type LockoutPolicy struct {
	// Threshold — число подряд идущих неудач, после которого запись блокируется.
	Threshold int
	// Duration — длительность блокировки.
	Duration time.Duration
}
