package meowuri

import "strings"

const wildcard = "*"

// MatchGlobs reports whether u matches any of the globs.
//
// A glob replaces components with "*". A leading or trailing "*" stands for
// one or more components, an interior "*" for exactly one. A glob made only
// of wildcards matches everything; a glob without wildcards must equal u.
// Leaves are compared literally, other components case-insensitively.
func (u URI) MatchGlobs(globs []string) bool {
	if u.s == "" {
		return false
	}
	parts := u.Parts()
	for _, glob := range globs {
		if matchGlob(parts, glob) {
			return true
		}
	}
	return false
}

// MatchGlob is MatchGlobs for a single glob.
func (u URI) MatchGlob(glob string) bool {
	return u.MatchGlobs([]string{glob})
}

func matchGlob(parts []string, glob string) bool {
	globParts := splitComponents(glob)
	if len(globParts) == 0 {
		return false
	}
	allWild := true
	for _, gp := range globParts {
		if gp != wildcard {
			allWild = false
			break
		}
	}
	if allWild {
		return true
	}
	return matchFrom(parts, 0, globParts, 0, len(parts)-1)
}

// matchFrom walks the glob against parts with backtracking over the
// variable-width leading and trailing wildcards.
func matchFrom(parts []string, pi int, glob []string, gi int, leafIndex int) bool {
	if gi == len(glob) {
		return pi == len(parts)
	}
	if pi == len(parts) {
		return false
	}
	g := glob[gi]
	if g == wildcard {
		variable := gi == 0 || gi == len(glob)-1
		if !variable {
			return matchFrom(parts, pi+1, glob, gi+1, leafIndex)
		}
		for n := 1; pi+n <= len(parts); n++ {
			if matchFrom(parts, pi+n, glob, gi+1, leafIndex) {
				return true
			}
		}
		return false
	}
	if !componentEqual(parts[pi], g, pi == leafIndex) {
		return false
	}
	return matchFrom(parts, pi+1, glob, gi+1, leafIndex)
}

func componentEqual(have, want string, isLeaf bool) bool {
	if isLeaf {
		return have == want
	}
	return have == strings.ToLower(want)
}
