// FILE: svckit/src/internal/core/metadata.go
package core

import (
	"os"
	"strings"
)

// MetadataBlock holds environment-derived attributes keyed by lower-case name.
type MetadataBlock map[string]string

// NewMetadataBlock looks up each key upper-cased in the environment; unset variables are omitted.
// A nil lookup uses os.LookupEnv.
func NewMetadataBlock(keys []string, lookup func(string) (string, bool)) MetadataBlock {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	mb := make(MetadataBlock, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		if v, ok := lookup(strings.ToUpper(key)); ok {
			mb[strings.ToLower(key)] = v
		}
	}
	return mb
}

// AsMap returns a copy usable as a JSON object.
func (m MetadataBlock) AsMap() map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
