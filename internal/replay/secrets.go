package replay

import (
	"os"
	"regexp"
	"strings"
)

// SensitiveEnvPrefix marks environment variables that supply placeholder
// values at replay time, e.g. SENSITIVE_CITY=Ottawa resolves
// <secret>CITY</secret>.
const SensitiveEnvPrefix = "SENSITIVE_"

var placeholderPattern = regexp.MustCompile(`<secret>([A-Za-z0-9_]+)</secret>`)

// ReplaceSensitiveData resolves <secret>NAME</secret> placeholders in text
// using the given mapping. Placeholders without a mapping entry are left
// verbatim, so the substitution is idempotent.
func ReplaceSensitiveData(text string, sensitive map[string]string) string {
	if len(sensitive) == 0 {
		return text
	}
	for name, value := range sensitive {
		text = strings.ReplaceAll(text, "<secret>"+name+"</secret>", value)
	}
	return text
}

// PlaceholderNames returns the distinct placeholder names referenced in text,
// in order of first appearance.
func PlaceholderNames(text string) []string {
	var names []string
	seen := map[string]bool{}
	for _, m := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// SensitiveDataFromEnv collects placeholder values from SENSITIVE_* variables.
func SensitiveDataFromEnv() map[string]string {
	sensitive := map[string]string{}
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, SensitiveEnvPrefix) {
			continue
		}
		parts := strings.SplitN(strings.TrimPrefix(kv, SensitiveEnvPrefix), "=", 2)
		if len(parts) == 2 && parts[0] != "" {
			sensitive[parts[0]] = parts[1]
		}
	}
	return sensitive
}
