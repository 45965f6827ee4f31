package repositories

import "regexp"

// regexEscape quotes user-supplied search text so it is matched
// literally inside a $regex query.
func regexEscape(s string) string {
	return regexp.QuoteMeta(s)
}
