// FILE: svckit/src/internal/config/section.go
package config

import (
	"fmt"

	"svckit/src/internal/dict"

	"github.com/mitchellh/mapstructure"
)

// Section returns the mapping at the dotted key, or an empty map when absent or not a mapping.
func Section(m dict.Map, key string) dict.Map {
	v, ok := dict.Get(m, key)
	if !ok {
		return dict.Map{}
	}
	section, ok := dict.AsMap(v)
	if !ok {
		return dict.Map{}
	}
	return section
}

// DecodeSection decodes the mapping at key into out using mapstructure tags.
// Scalars are converted weakly so "10" and 10 both fill an int field.
func DecodeSection(m dict.Map, key string, out any) error {
	return decode(Section(m, key), out)
}

func decode(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ZeroFields:       true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("failed to decode config section: %w", err)
	}
	return nil
}
