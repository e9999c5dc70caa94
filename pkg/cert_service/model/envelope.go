package model

// Envelope is the response body of every public operation: messages on
// success, errors on failure. Never both.
type Envelope struct {
	Messages []string `json:"messages,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

func MessageEnvelope(messages ...string) Envelope {
	return Envelope{Messages: messages}
}

func ErrorEnvelope(errors ...string) Envelope {
	return Envelope{Errors: errors}
}
