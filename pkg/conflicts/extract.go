// Package conflicts turns pip's textual conflict diagnostics into structured
// records. The line grammar is defined by an external tool and is parsed
// defensively: anything that does not match yields "no information" rather
// than an error.
package conflicts

import "strings"

// Environment markers that disqualify a constraint segment. Constraints
// guarded by interpreter or platform conditions say nothing about the
// environment pip was actually checking.
var environmentMarkers = []string{"python_version", "sys_platform"}

// Requirement is the actionable constraint extracted from one conflict line.
//
// Fields:
//   - Dependency: Name of the dependency whose installed version is wrong
//   - Version: Single resolved target version for that dependency
type Requirement struct {
	Dependency string
	Version    string
}

// Extract parses one conflict line of the form
//
//	<pkg> <ver> has requirement <dep><op><ver>[,<op><ver>]..., but you have <dep> <installed>.
//
// into a required-version token.
//
// It performs the following operations:
//   - Lowercases the line and takes the second-to-last whitespace token as
//     the dependency name
//   - Splits on "requirement <dep>" to isolate the constraint clause
//   - Splits the clause on "," and discards tokens guarded by environment
//     markers
//   - Keeps equality-style tokens ("=", excluding "!=" exclusions); with no
//     equality token it falls back to the first ">"/"<" bound
//   - One equality token resolves to the value after its final "="; two
//     resolve to the string-maximum of their trailing values
//
// The two-bound resolution compares version tokens as strings, not parsed
// versions, so "9.0" outranks "10.0". This matches the original tool and is
// kept as a documented approximation; see pkg/versions for semantic
// comparison used elsewhere.
//
// Parameters:
//   - line: One conflict line from the dependency check output
//
// Returns:
//   - Requirement: Dependency name and resolved version
//   - bool: false when the line carries no actionable constraint
//     (missing clause, ambiguous bounds, or unresolvable tokens)
func Extract(line string) (Requirement, bool) {
	lower := strings.ToLower(strings.TrimSpace(line))
	fields := strings.Fields(lower)
	if len(fields) < 2 {
		return Requirement{}, false
	}

	dep := fields[len(fields)-2]
	parts := strings.SplitN(lower, "requirement "+dep, 2)
	if len(parts) < 2 {
		return Requirement{}, false
	}

	tokens := usableTokens(parts[1])
	if len(tokens) == 0 {
		return Requirement{}, false
	}

	equality, bounds := classifyTokens(tokens)

	if len(equality) == 0 {
		if len(bounds) == 0 {
			return Requirement{}, false
		}
		version := resolveBound(bounds[0])
		if version == "" {
			return Requirement{}, false
		}
		return Requirement{Dependency: dep, Version: version}, true
	}

	switch len(equality) {
	case 1:
		version := resolveEquality(equality[0])
		if version == "" {
			return Requirement{}, false
		}
		return Requirement{Dependency: dep, Version: version}, true
	case 2:
		low := resolveEquality(equality[0])
		high := resolveEquality(equality[1])
		if low == "" || high == "" {
			return Requirement{}, false
		}
		// String max of the two bounds, per the original heuristic.
		version := low
		if high > low {
			version = high
		}
		return Requirement{Dependency: dep, Version: version}, true
	default:
		return Requirement{}, false
	}
}

// usableTokens splits a constraint clause on "," and drops segments guarded
// by environment markers.
//
// Parameters:
//   - clause: Text following "requirement <dep>" in the conflict line
//
// Returns:
//   - []string: Trimmed constraint tokens with marker segments removed
func usableTokens(clause string) []string {
	var tokens []string

	for _, raw := range strings.Split(clause, ",") {
		token := strings.TrimSpace(raw)
		if token == "" || containsMarker(token) {
			continue
		}
		tokens = append(tokens, token)
	}

	return tokens
}

// containsMarker reports whether a token carries an environment marker.
//
// Parameters:
//   - token: Constraint token to inspect
//
// Returns:
//   - bool: true if any known marker occurs in the token
func containsMarker(token string) bool {
	for _, marker := range environmentMarkers {
		if strings.Contains(token, marker) {
			return true
		}
	}
	return false
}

// classifyTokens separates equality-style tokens from bound-only tokens.
// Inequality exclusions ("!=") never define a version target and are dropped.
//
// Parameters:
//   - tokens: Usable constraint tokens
//
// Returns:
//   - []string: Tokens containing "=" (excluding "!=" exclusions)
//   - []string: Tokens containing ">" or "<" but no "="
func classifyTokens(tokens []string) (equality, bounds []string) {
	for _, token := range tokens {
		switch {
		case strings.Contains(token, "!="):
			continue
		case strings.Contains(token, "="):
			equality = append(equality, token)
		case strings.ContainsAny(token, "><"):
			bounds = append(bounds, token)
		}
	}
	return equality, bounds
}

// resolveEquality resolves an equality-style token to its trailing value,
// the substring after the final "=".
//
// Parameters:
//   - token: Token such as ">=2.0" or "==1.4.2"
//
// Returns:
//   - string: Resolved version; empty when nothing follows the "="
func resolveEquality(token string) string {
	idx := strings.LastIndex(token, "=")
	if idx < 0 || idx == len(token)-1 {
		return ""
	}
	return cleanVersion(token[idx+1:])
}

// resolveBound resolves a bound-only token such as ">2.0" to its version.
//
// Parameters:
//   - token: Token containing ">" or "<" but no "="
//
// Returns:
//   - string: Resolved version; empty when nothing remains after the operator
func resolveBound(token string) string {
	return cleanVersion(strings.TrimLeft(token, "><~! "))
}

// cleanVersion trims operator residue and sentence punctuation from a
// resolved version token.
//
// Parameters:
//   - value: Raw trailing value
//
// Returns:
//   - string: First whitespace-delimited field with trailing punctuation
//     removed; empty when nothing usable remains
func cleanVersion(value string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimRight(fields[0], ".;:)")
}
