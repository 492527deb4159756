package timed

import (
	"os"
	"strings"
)

// EnvVar is the environment variable that selects the output:
// "off", "tracing" or "log", or any other value as a CSV file path.
const EnvVar = "TIMED_OUTPUT"

// LookupFunc reads an environment variable, reporting whether it was set.
type LookupFunc func(key string) (string, bool)

// ResolveOutput maps a raw TIMED_OUTPUT value to an Output.
// It performs no I/O; a CSV path is only checked when the output is set.
func ResolveOutput(raw string, present bool) Output {
	if !present {
		return Off()
	}
	value := strings.TrimSpace(raw)
	switch {
	case value == "", strings.EqualFold(value, "off"):
		return Off()
	case strings.EqualFold(value, "tracing"), strings.EqualFold(value, "log"):
		return Log()
	default:
		return CSV(value)
	}
}

// OutputFromEnv resolves EnvVar through lookup, or os.LookupEnv when nil.
func OutputFromEnv(lookup LookupFunc) Output {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return ResolveOutput(lookup(EnvVar))
}
