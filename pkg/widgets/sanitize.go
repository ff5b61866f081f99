package widgets

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// containsMarkup reports whether raw holds tags, comments, or entities. The
// strict policy drops all of them, so any difference after unescaping means
// the input carried markup.
func containsMarkup(raw string) bool {
	if !strings.ContainsAny(raw, "<>&") {
		return false
	}
	return html.UnescapeString(textSanitizer().Sanitize(raw)) != raw
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
