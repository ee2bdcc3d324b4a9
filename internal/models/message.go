// Package models contains data types and constants for ChatBTC.
package models

// Kind classifies a transcript message. It only affects rendering.
type Kind int

const (
	KindUser Kind = iota
	KindAnswer
	KindError
)

// String returns the wire-style name of the kind
func (k Kind) String() string {
	switch k {
	case KindUser:
		return "userMessage"
	case KindAnswer:
		return "apiMessage"
	case KindError:
		return "errorMessage"
	default:
		return "unknown"
	}
}

// Message is one entry of the conversation transcript.
// Messages are never edited once appended.
type Message struct {
	Text string
	Kind Kind
}

// UserMessage creates a user-authored message
func UserMessage(text string) Message {
	return Message{Text: text, Kind: KindUser}
}

// AnswerMessage creates a service answer message
func AnswerMessage(text string) Message {
	return Message{Text: text, Kind: KindAnswer}
}

// ErrorMessage creates an error message
func ErrorMessage(text string) Message {
	return Message{Text: text, Kind: KindError}
}

// IsUser reports whether the message was typed by the user
func (m Message) IsUser() bool {
	return m.Kind == KindUser
}
