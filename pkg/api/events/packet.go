package events

import (
	"encoding/json"
	"strconv"
	"time"
)

// Packet is one pre-encoded frame queued for websocket delivery. Packets
// keep their nonce so a reconnecting session can replay what it missed.
type Packet struct {
	Nonce     int64
	CreatedAt int64

	Encoded []byte
}

// wirePacket is the JSON shape on the websocket.
type wirePacket struct {
	Cmd     string      `json:"cmd"`
	Channel string      `json:"channel,omitempty"`
	Kind    string      `json:"kind,omitempty"`
	Val     interface{} `json:"val,omitempty"`
	Nonce   string      `json:"nonce,omitempty"`
}

func createPacket(server *Server, cmd string, channel string, kind string, val interface{}) (*Packet, error) {
	p := Packet{
		Nonce:     server.getNextNonce(),
		CreatedAt: time.Now().UnixMilli(),
	}

	var err error
	p.Encoded, err = json.Marshal(&wirePacket{
		Cmd:     cmd,
		Channel: channel,
		Kind:    kind,
		Val:     val,
		Nonce:   strconv.FormatInt(p.Nonce, 10),
	})
	if err != nil {
		return nil, err
	}

	return &p, nil
}
