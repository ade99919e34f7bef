package pulse

// roles of a chat message
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Messages is the conversation of one session, in append order
type Messages []Message

// Count returns how many messages have the given role
func (z Messages) Count(role string) (n int) {
	for _, m := range z {
		if m.Role == role {
			n++
		}
	}
	return
}
