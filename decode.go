package properties

import (
	"fmt"
	"net/url"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Scan resolves every property of a section through the full precedence
// chain and decodes the results into target, which must be a non-nil
// pointer to a struct or map. Field mapping uses the "property" struct tag.
// Boolean and integer properties decode as their typed values; everything
// else decodes as strings, with weak typing plus duration, timestamp, comma
// slice and URL hooks for client convenience.
//
// Properties with no resolved value are left out of the decode, so target
// fields keep whatever they already held.
func (r *Registry) Scan(sectionName string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan target must be a non-nil pointer, got %T", target)
	}

	s, err := r.LookupSection(sectionName)
	if err != nil {
		return err
	}

	values := make(map[string]any)
	for _, p := range s.snapshot() {
		switch p.kind {
		case KindBool:
			b, ok, err := p.GetBool()
			if err != nil {
				return err
			}
			if ok {
				values[p.name] = b
			}
		case KindInt:
			n, ok, err := p.GetInt()
			if err != nil {
				return err
			}
			if ok {
				values[p.name] = n
			}
		default:
			v, ok, err := p.Get()
			if err != nil {
				return err
			}
			if ok {
				values[p.name] = v
			}
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "property",
		WeaklyTypedInput: true,
		DecodeHook:       scanDecodeHook(),
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(values); err != nil {
		return fmt.Errorf("decode failed for section %q: %w", sectionName, err)
	}
	return nil
}

// scanDecodeHook returns the composite decode hook for all type conversions.
func scanDecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		stringToURLHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// stringToURLHookFunc handles url.URL conversion for endpoint-style
// properties.
func stringToURLHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(url.URL{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 2048 {
			return nil, fmt.Errorf("URL too long: %d bytes", len(str))
		}
		u, err := url.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		if isPtr {
			return u, nil
		}
		return *u, nil
	}
}
