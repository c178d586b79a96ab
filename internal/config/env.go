package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// env reads variables and collects every problem it meets so a loader can
// report them together instead of stopping at the first one.
type env struct {
	errs []error
}

// must retrieves the value of a required environment variable.  An unset
// or empty variable is recorded as an error.
func (e *env) must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		e.errs = append(e.errs, fmt.Errorf("missing required env var: %s", key))
	}
	return v
}

func (e *env) atoi(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid int for %s: %q", k, v))
		return d
	}
	return n
}

func (e *env) fail(format string, args ...any) {
	e.errs = append(e.errs, fmt.Errorf(format, args...))
}

func (e *env) err() error { return errors.Join(e.errs...) }

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
