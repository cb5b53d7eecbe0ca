package enums

import "fmt"

// ChatRole labels one side of the support conversation.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// String implements fmt.Stringer.
func (c ChatRole) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ChatRole.
func (c ChatRole) IsValid() bool {
	return c == ChatRoleUser || c == ChatRoleAssistant
}

// ChatState is the support session's turn-taking state. At most one
// inference call is outstanding per session.
type ChatState string

const (
	ChatStateIdle             ChatState = "idle"
	ChatStateAwaitingResponse ChatState = "awaiting_response"
)

// String implements fmt.Stringer.
func (c ChatState) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ChatState.
func (c ChatState) IsValid() bool {
	return c == ChatStateIdle || c == ChatStateAwaitingResponse
}

// ParseChatRole converts raw input into a ChatRole.
func ParseChatRole(value string) (ChatRole, error) {
	switch ChatRole(value) {
	case ChatRoleUser, ChatRoleAssistant:
		return ChatRole(value), nil
	}
	return "", fmt.Errorf("invalid chat role %q", value)
}
