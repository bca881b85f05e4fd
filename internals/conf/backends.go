package conf

import z "github.com/Oudwins/zog"

// BackendID names a text-generation backend.
type BackendID string

const (
	BackendAnthropic BackendID = "anthropic"
	BackendCommand   BackendID = "command"
)

func (b BackendID) String() string {
	return string(b)
}

func BackendIDs() []BackendID {
	return []BackendID{BackendAnthropic, BackendCommand}
}

var BackendIDSchema = z.StringLike[BackendID]().Default(BackendAnthropic).OneOf(BackendIDs())
