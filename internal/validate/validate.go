// Package validate holds the stateless request-shape checks that every
// endpoint runs before touching storage. Payloads arrive as decoded JSON
// objects (map[string]any) because the checks must distinguish an absent key
// from an empty value, which a typed binding cannot do.
package validate

import "strings"

// Mandatory field sets per inbound operation.
var (
	SignupFields         = []string{"email", "phone"}
	AddContactListFields = []string{"owner", "contact_list"}
	SearchContactFields  = []string{"owner", "search_key"}
)

// IsEmptyValue reports whether a decoded JSON value carries no content.
// nil, the empty string and the empty object are empty. A list is empty when
// every element is itself empty, so [], [{}] and [null] all count as empty
// while [{"a":1}] does not.
func IsEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case map[string]any:
		return len(t) == 0
	case []any:
		for _, item := range t {
			if !IsEmptyValue(item) {
				return false
			}
		}
		return true
	}
	return false
}

// IsEmpty reports whether key is absent from m or mapped to an empty value.
func IsEmpty(m map[string]any, key string) bool {
	v, ok := m[key]
	if !ok {
		return true
	}
	return IsEmptyValue(v)
}

// MissingFields checks every key in keys against m and reports all missing
// ones together in a single combined message instead of failing on the first.
func MissingFields(m map[string]any, keys []string) (bool, string) {
	var missing []string
	for _, key := range keys {
		if IsEmpty(m, key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return true, "Mandatory parameters missing in request : " + strings.Join(missing, ", ")
	}
	return false, ""
}
