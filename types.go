package td

import (
	json "github.com/goccy/go-json"
)

// Strings is a list that accepts both a bare string and an array of strings
// on the wire, as the TD vocabulary allows for @type, op, security and
// scopes. A single element is written back as a bare string.
type Strings []string

// MarshalJSON writes a bare string for a single element, an array otherwise.
// Empty lists encode as [] rather than null so that mandatory list-valued
// fields keep their TD default shape.
func (s Strings) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("[]"), nil
	}
	if len(s) == 1 {
		return json.Marshal(s[0])
	}
	return json.Marshal([]string(s))
}

// UnmarshalJSON accepts either a string or an array of strings.
func (s *Strings) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = Strings{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = Strings(many)
	return nil
}

// Contains reports whether v is among the entries.
func (s Strings) Contains(v string) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}

// MultiLanguage maps BCP 47 language tags to translated text.
type MultiLanguage map[string]string

// DuplicatePolicy controls how the builder treats re-registration of a name
// already present in one of the keyed mappings.
type DuplicatePolicy int

const (
	DuplicateOverwrite DuplicatePolicy = iota // Last write wins (default).
	DuplicateReject                           // Flag duplicate_name at Build.
)
