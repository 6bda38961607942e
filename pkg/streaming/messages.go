// Package streaming defines the messages a board mirrors to a remote
// viewer over WebSocket.
package streaming

import (
	"encoding/json"

	"github.com/OCAP2/tacticboard/pkg/core"
)

// Message types.
const (
	TypeBoardOpen  = "board_open"
	TypeBoardState = "board_state"
	TypeBoardClose = "board_close"

	TypeAck = "ack"
)

// Envelope wraps every message sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement.
type AckMessage struct {
	Type string `json:"type"` // TypeAck
	For  string `json:"for"`
}

// BoardOpenPayload announces which board the following states belong to.
type BoardOpenPayload struct {
	Key string `json:"key"`
}

// BoardStatePayload carries a full board state.
type BoardStatePayload struct {
	Key   string           `json:"key"`
	State *core.BoardState `json:"state"`
}
