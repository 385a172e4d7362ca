package classifier

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/khaledhikmat/vs-activity/service/config"
)

const questionTemplate = `Do you observe the action "%s" in this image? <img src="data:image/png;base64,%s" />`

func Question(activity, encodedImage string) string {
	return fmt.Sprintf(questionTemplate, activity, encodedImage)
}

// Matcher turns a free-text answer into a verdict.
type Matcher func(answer string) bool

// SubstringMatcher is true when "yes" appears anywhere in the answer.
// "No, yesterday..." counts as positive.
func SubstringMatcher(answer string) bool {
	return strings.Contains(strings.ToLower(answer), "yes")
}

// LeadingMatcher is true only when the first word of the answer is "yes".
func LeadingMatcher(answer string) bool {
	words := strings.FieldsFunc(strings.ToLower(answer), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	return len(words) > 0 && words[0] == "yes"
}

func matcherFor(name string) Matcher {
	if name == config.LeadingMatch {
		return LeadingMatcher
	}
	return SubstringMatcher
}
