package appconf

import "strings"

// Environment describes the operating environment for the application.
type Environment int

const (
	Development Environment = iota
	Test
	Production
)

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// Config holds all the configuration settings for the application. We read
// these in from command-line flags (and optionally a .env file) when the
// application starts.
type Config struct {
	Env       Environment
	Port      int
	ApiKeys   []string
	RateLimit int
	Verbose   bool
}

// EnvFlagToEnvironment maps the -env flag value to an Environment,
// defaulting to Development for anything unrecognized.
func EnvFlagToEnvironment(flag string) Environment {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "test":
		return Test
	case "production", "prod":
		return Production
	default:
		return Development
	}
}
