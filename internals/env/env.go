package env

import (
	"fmt"
	"strconv"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zenv"
)

type Env struct {
	PORT              int    `zog:"FOREMAN_ENV_PORT"`
	REPO              string `zog:"FOREMAN_ENV_REPO"`
	ANTHROPIC_API_KEY string `zog:"ANTHROPIC_API_KEY"`
	LISTEN_ADDR       string
	BASE_URL          string
}

var envSchema = z.Struct(z.Shape{
	"PORT":              z.Int().Default(57891),
	"REPO":              z.String().Optional(),
	"ANTHROPIC_API_KEY": z.String().Optional(),
})

// Parse reads the process environment into an Env. Callers own the result;
// nothing is cached at package level.
func Parse() (*Env, error) {
	parsed := &Env{}
	if errs := envSchema.Parse(zenv.NewDataProvider(), parsed); errs != nil {
		return nil, fmt.Errorf("failed to parse environment: %s", z.Issues.FlattenAndCollect(errs))
	}
	parsed.LISTEN_ADDR = "localhost:" + strconv.Itoa(parsed.PORT)
	parsed.BASE_URL = "http://" + parsed.LISTEN_ADDR
	return parsed, nil
}
