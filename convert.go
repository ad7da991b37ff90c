package properties

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Boolean synonym tables accepted by GetBool and the boolean validator.
// Matching is case-insensitive. The empty string counts as false so that
// presence-style settings ("STRATO_CORE_DISABLE_PROMPTS=") behave sanely.
var (
	trueSynonyms  = []string{"true", "1", "on", "yes", "y"}
	falseSynonyms = []string{"false", "0", "off", "no", "n", "", "none"}
)

// parseBool maps a string onto the fixed synonym tables. The second return
// reports whether the string is a recognized synonym at all.
func parseBool(s string) (value bool, ok bool) {
	s = strings.ToLower(s)
	for _, syn := range trueSynonyms {
		if s == syn {
			return true, true
		}
	}
	for _, syn := range falseSynonyms {
		if s == syn {
			return false, true
		}
	}
	return false, false
}

// boolSynonyms renders the accepted synonym set for error messages.
func boolSynonyms() string {
	return fmt.Sprintf("true values: %s; false values: %s",
		strings.Join(trueSynonyms, ", "),
		strings.Join(quoteEmpty(falseSynonyms), ", "))
}

func quoteEmpty(syns []string) []string {
	out := make([]string, len(syns))
	for i, s := range syns {
		if s == "" {
			s = `''`
		}
		out[i] = s
	}
	return out
}

// parseInt parses a canonical property value as an integer. Base 0 allows
// the usual prefixed forms ("0x10", "0o17").
func parseInt(s string) (int, error) {
	n, err := strconv.ParseInt(s, 0, strconv.IntSize)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// canonicalString renders a programmatic value in the single string form the
// engine stores, compares and validates. Values are canonicalized exactly
// once, at the layer boundary where they enter (invocation frame, default,
// callback result).
func canonicalString(v any) (string, error) {
	if v == nil {
		return "", fmt.Errorf("cannot canonicalize nil value")
	}

	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case []byte:
		return string(val), nil
	case fmt.Stringer:
		return val.String(), nil
	case error:
		return val.Error(), nil
	}

	// Numeric kinds via reflection, mirroring the typed getter conversions.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	}

	return "", fmt.Errorf("cannot canonicalize value of type %T", v)
}
