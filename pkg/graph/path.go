package graph

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
)

var placeholderPattern = regexp.MustCompile(`\{(\d+)\}`)

// FormatPath substitutes the positional placeholders {0}, {1}, ... in
// template with the path-escaped string form of args. Placeholders without a
// matching argument are left as they are.
//
//	FormatPath("users/{0}/memberOf", "alice@contoso.com") // "users/alice@contoso.com/memberOf"
func FormatPath(template string, args ...interface{}) string {
	if len(args) == 0 {
		return template
	}

	return placeholderPattern.ReplaceAllStringFunc(template, func(placeholder string) string {
		index, err := strconv.Atoi(placeholder[1 : len(placeholder)-1])
		if err != nil || index >= len(args) {
			return placeholder
		}

		return url.PathEscape(fmt.Sprint(args[index]))
	})
}
