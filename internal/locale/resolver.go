// Package locale resolves the best localized variant of a template string
// for a requested IETF BCP 47 language tag.
package locale

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/dsgov-acme/devstream-notification-service/internal/errs"
	"github.com/dsgov-acme/devstream-notification-service/internal/model"
)

// ValidateTag checks that tag is a well-formed BCP 47 language tag.
func ValidateTag(tag string) error {
	if tag == "" {
		return errs.BadData("locale tag should not be empty")
	}
	if _, err := language.Parse(tag); err != nil {
		return errs.BadData("locale tag %s is not IETF valid", tag)
	}
	return nil
}

// Resolve picks the variant for the requested tag: an exact match wins,
// otherwise the first variant whose primary language subtag matches the
// requested tag's primary subtag. The boolean reports whether any variant
// matched.
func Resolve(set model.LocalizedStringSet, tag string) (string, bool) {
	if text, ok := set.Get(tag); ok {
		return text, true
	}

	primary := primarySubtag(tag)
	for _, ls := range set {
		if primarySubtag(ls.Language) == primary {
			return ls.Template, true
		}
	}
	return "", false
}

func primarySubtag(tag string) string {
	if i := strings.Index(tag, "-"); i >= 0 {
		return tag[:i]
	}
	return tag
}
