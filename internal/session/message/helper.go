package message

import (
	"fmt"

	"triggerhappy/internal/network"
)

// MessageSender is anything that can take a message without blocking.
type MessageSender interface {
	TrySend(msg network.Message) bool
}

// Create builds a message, falling back to an ERROR when the payload cannot
// be encoded.
func Create(msgType string, payload any) network.Message {
	msg, err := network.NewMessage(msgType, payload)
	if err != nil {
		return CreateErrorResponse(err.Error())
	}
	return msg
}

func CreateErrorResponse(errorMsg string) network.Message {
	msg, _ := network.NewMessage(ERROR, ErrorPayload{Error: errorMsg})
	return msg
}

// SendError sends a formatted ERROR to the sender.
func SendError(sender MessageSender, format string, args ...interface{}) {
	sender.TrySend(CreateErrorResponse(fmt.Sprintf(format, args...)))
}

func Send(sender MessageSender, msgType string, payload any) {
	sender.TrySend(Create(msgType, payload))
}
