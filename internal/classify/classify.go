// Package classify holds the static knowledge used to decide whether a
// config field is a secret: exact paths, path shapes, field-name rules,
// an exclusion list, and credential value shapes. The three predicates
// are pure and table-driven so the tables can grow without touching the
// discovery traversal.
package classify

import "strings"

// IsKnownPath reports whether path is a fixed secret location or matches
// one of the secret path shapes. Highest-confidence signal.
func IsKnownPath(path string) bool {
	if _, ok := knownPaths[path]; ok {
		return true
	}
	for _, re := range knownPathPatterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// IsSecretFieldName reports whether a path's last segment names a secret,
// either by exact match or by case-insensitive suffix. Names in the
// exclusion set are never secrets, whatever else they match.
func IsSecretFieldName(lastSegment string) bool {
	if IsExcludedFieldName(lastSegment) {
		return false
	}
	if _, ok := secretFieldNames[lastSegment]; ok {
		return true
	}
	lower := strings.ToLower(lastSegment)
	for _, suffix := range secretFieldSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// IsExcludedFieldName reports whether the last segment is in the hard
// exclusion set.
func IsExcludedFieldName(lastSegment string) bool {
	_, ok := excludedFieldNames[lastSegment]
	return ok
}

// MatchesValueShape reports whether value looks like a well-known
// credential. Lowest-confidence signal, opt-in only.
func MatchesValueShape(value string) bool {
	if len(value) < MinSecretLength {
		return false
	}
	for _, re := range valueShapePatterns {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}
