package pulse

// NoticeLevel ...
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice a message rendered inline near a panel
type Notice struct {
	Level NoticeLevel `json:"level"`
	Text  string      `json:"text"`
}

func InfoNotice(text string) *Notice    { return &Notice{Level: NoticeInfo, Text: text} }
func SuccessNotice(text string) *Notice { return &Notice{Level: NoticeSuccess, Text: text} }
func WarningNotice(text string) *Notice { return &Notice{Level: NoticeWarning, Text: text} }
func ErrorNotice(text string) *Notice   { return &Notice{Level: NoticeError, Text: text} }

// IsFailure reports whether the notice belongs to a failed operation
func (n *Notice) IsFailure() bool {
	return n != nil && (n.Level == NoticeError || n.Level == NoticeWarning)
}
