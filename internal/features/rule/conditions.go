package rule

import "fmt"

// MatchesConditions reports whether every condition key is present in the
// context with an equal value. Empty conditions always match. The function
// is total: absence or a type mismatch is a non-match, never a panic,
// because it runs inside the scheduler loop where one bad rule must not
// halt the others.
func MatchesConditions(conditions map[string]interface{}, context map[string]interface{}) bool {
	if len(conditions) == 0 {
		return true
	}
	if context == nil {
		return false
	}

	for key, expected := range conditions {
		actual, exists := context[key]
		if !exists {
			return false
		}
		if fmt.Sprintf("%v", actual) != fmt.Sprintf("%v", expected) {
			return false
		}
	}
	return true
}
