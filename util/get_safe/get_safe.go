package getsafe

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

func String(values url.Values, key string) string {
	return strings.TrimSpace(values.Get(key))
}

// Float returns fallback when key is absent or blank.
func Float(values url.Values, key string, fallback float64) (float64, error) {
	raw := String(values, key)
	if len(raw) == 0 {
		return fallback, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "not a number", goerr.V("key", key), goerr.V("value", raw))
	}

	return f, nil
}

func Bool(values url.Values, key string) bool {
	b, err := strconv.ParseBool(String(values, key))
	if err != nil {
		return false
	}
	return b
}
