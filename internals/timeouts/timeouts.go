package timeouts

import "time"

const (
	Probe         = 300 * time.Millisecond
	StatusPoll    = 500 * time.Millisecond
	SecondShort   = 2 * time.Second
	SecondDefault = 10 * time.Second
	SecondLong    = 30 * time.Second
	WaitDefault   = 20 * time.Minute
)
