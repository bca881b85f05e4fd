package schemas

import (
	"encoding/base64"

	z "github.com/Oudwins/zog"
)

// ImplementRequestPayload drives the implement-request workflow. Instruction
// carries the change description directly; Audio carries it as a base64 blob
// from a voice frontend, decoded to text at construction. One of the two is
// required.
type ImplementRequestPayload struct {
	Instruction   string `json:"instruction" zog:"instruction"`
	Audio         string `json:"audio" zog:"audio"`
	Target        string `json:"target" zog:"target"`
	TestCommand   string `json:"test_command" zog:"test_command"`
	CommitMessage string `json:"commit_message" zog:"commit_message"`
}

var ImplementRequestSchema = z.Struct(z.Shape{
	"Instruction":   z.String().Optional().Trim(),
	"Audio":         z.String().Optional().Trim().TestFunc(isBase64, z.Message("audio is not valid base64")),
	"Target":        z.String().Required().Trim(),
	"TestCommand":   z.String().Optional().Trim(),
	"CommitMessage": z.String().Optional().Trim(),
})

type GenerateChangePayload struct {
	Instruction string `json:"instruction" zog:"instruction"`
	Target      string `json:"target" zog:"target"`
}

var GenerateChangeSchema = z.Struct(z.Shape{
	"Instruction": z.String().Required().Trim(),
	"Target":      z.String().Required().Trim(),
})

type RequirePassingTestsPayload struct {
	TestCommand string `json:"test_command" zog:"test_command"`
}

var RequirePassingTestsSchema = z.Struct(z.Shape{
	"TestCommand": z.String().Optional().Trim(),
})

type CommitChangesPayload struct {
	CommitMessage string `json:"commit_message" zog:"commit_message"`
}

var CommitChangesSchema = z.Struct(z.Shape{
	"CommitMessage": z.String().Optional().Trim(),
})

func isBase64(valPtr *string, _ z.Ctx) bool {
	_, err := base64.StdEncoding.DecodeString(*valPtr)
	return err == nil
}
