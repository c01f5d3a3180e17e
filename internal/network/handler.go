//START OF FILE triggerhappy/internal/network/handler.go
package network

// EventHandler connects the network layer to the game logic. Every call is
// made from the hub goroutine.
type EventHandler interface {
	OnConnect(c *Client)
	OnDisconnect(c *Client)
	OnMessage(c *Client, msg Message)
}

//END OF FILE triggerhappy/internal/network/handler.go
