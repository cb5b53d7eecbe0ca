package enums

import "fmt"

// SessionView names the page a session is currently presenting.
type SessionView string

const (
	SessionViewCatalog    SessionView = "catalog"
	SessionViewHistory    SessionView = "history"
	SessionViewNews       SessionView = "news"
	SessionViewSupport    SessionView = "support"
	SessionViewBackoffice SessionView = "backoffice"
)

var validSessionViews = []SessionView{
	SessionViewCatalog,
	SessionViewHistory,
	SessionViewNews,
	SessionViewSupport,
	SessionViewBackoffice,
}

// String implements fmt.Stringer.
func (s SessionView) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SessionView.
func (s SessionView) IsValid() bool {
	for _, candidate := range validSessionViews {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSessionView converts raw input into a SessionView.
func ParseSessionView(value string) (SessionView, error) {
	for _, candidate := range validSessionViews {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid session view %q", value)
}
