package query

import "strings"

// queryStringEscaper handles the engine's reserved characters. Angle
// brackets cannot be escaped in the query string grammar, so they are
// stripped instead of backslash prefixed.
var queryStringEscaper = strings.NewReplacer(
	">", "",
	"<", "",
	"&&", `\&&`,
	"||", `\||`,
	"+", `\+`,
	"-", `\-`,
	"=", `\=`,
	"!", `\!`,
	"{", `\{`,
	"}", `\}`,
	"[", `\[`,
	"]", `\]`,
	"^", `\^`,
	"~", `\~`,
	"*", `\*`,
	"?", `\?`,
	":", `\:`,
	`"`, `\"`,
	"/", `\/`,
)

// EscapeQueryString neutralizes reserved query string syntax in user
// supplied text.
func EscapeQueryString(s string) string {
	return queryStringEscaper.Replace(s)
}

// PostprocessQuery escapes the free text inside a query_string clause
// just before the query reaches the engine. The clause may sit at the
// top level or under a {"query": ...} wrapper. Other query shapes pass
// through untouched.
func PostprocessQuery(q map[string]any) map[string]any {
	if q == nil {
		return nil
	}
	clause := q
	if inner, ok := q["query"].(map[string]any); ok {
		clause = inner
	}
	qs, ok := clause["query_string"].(map[string]any)
	if !ok {
		return q
	}
	if text, ok := qs["query"].(string); ok {
		qs["query"] = EscapeQueryString(text)
	}
	return q
}
