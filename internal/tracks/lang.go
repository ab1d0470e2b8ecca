// SPDX-License-Identifier: MIT
package tracks

import "golang.org/x/text/language"

// normalizeLanguage canonicalizes a BCP 47 language tag so that equivalent
// spellings ("en-us", "en_US") identify the same logical track. Unparseable
// values pass through unchanged; engines occasionally report free-form
// labels there.
func normalizeLanguage(lang string) string {
	if lang == "" {
		return ""
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return lang
	}
	return tag.String()
}
