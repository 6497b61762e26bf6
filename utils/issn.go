package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var issnPattern = regexp.MustCompile(`^\d{4}-\d{3}[0-9X]$`)

// FormatISSN normalizes space separated ISSNs from the index: heading
// zeroes are restored and the dash inserted, so "280836" becomes
// "0028-0836". Empty input stays empty.
func FormatISSN(sourceISSNs string) (string, error) {
	if sourceISSNs == "" {
		return "", nil
	}

	fields := strings.Fields(sourceISSNs)
	formatted := make([]string, 0, len(fields))
	for _, issn := range fields {
		for len(issn) < 8 {
			issn = "0" + issn
		}
		issn = issn[:4] + "-" + issn[4:]
		if !issnPattern.MatchString(issn) {
			return "", fmt.Errorf("ISSN %q not in correct format", issn)
		}
		formatted = append(formatted, issn)
	}
	return strings.Join(formatted, " "), nil
}
