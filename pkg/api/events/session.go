package events

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/driftsocial/server/pkg/events"
	"github.com/gorilla/websocket"
)

type Session struct {
	id     int64
	server *Server

	userId int64

	// resumeToken is issued in the hello packet and must accompany any
	// resume request. Session ids are sequential, so the token is the only
	// thing binding a session to the client that opened it.
	resumeToken string

	mu       sync.Mutex
	channels map[string]bool

	send          chan *Packet
	packets       []*Packet
	lastSeenNonce int64

	conn           *websocket.Conn
	disconnectedAt int64

	ended bool

	writeMu sync.Mutex
}

// clientCommand is what a websocket client may send: channel subscribe and
// unsubscribe requests.
type clientCommand struct {
	Cmd     string `json:"cmd"`
	Channel string `json:"channel"`
}

const pingInterval = 45_000 // 45 seconds

func newSession(server *Server, userId int64) *Session {
	// Create & register session
	s := Session{
		id:     server.getNextNonce(),
		server: server,

		userId:      userId,
		resumeToken: newResumeToken(),
		channels:    make(map[string]bool),

		send:    make(chan *Packet, 256),
		packets: []*Packet{},
	}
	server.mu.Lock()
	server.sessions[s.id] = &s
	server.mu.Unlock()

	// Write thread
	go func() {
		for packet := range s.send {
			s.mu.Lock()
			// Make sure to not re-send packets
			if packet.Nonce <= s.lastSeenNonce {
				s.mu.Unlock()
				continue
			}
			s.lastSeenNonce = packet.Nonce

			// Add to packets history
			s.packets = append(s.packets, packet)
			conn := s.conn
			s.mu.Unlock()

			// Write message to conn if one exists
			if conn != nil {
				s.writeToConn(conn, packet)
			}
		}
	}()

	// Background thread
	go func() {
		for {
			time.Sleep(time.Millisecond * pingInterval)

			// Check for session timeout & remove old packet history
			s.mu.Lock()
			if s.ended {
				s.mu.Unlock()
				break
			}
			cutoff := time.Now().Add(-(time.Millisecond * pingInterval)).UnixMilli()
			if s.conn == nil { // end session if there has been no conn for more than the ping interval
				if s.disconnectedAt < cutoff {
					s.mu.Unlock()
					s.endSession()
					break
				}
			} else { // remove packets from history that are older than the ping interval
				itemsToRemove := 0
				for _, packet := range s.packets {
					if packet.CreatedAt < cutoff {
						itemsToRemove++
					}
				}
				s.packets = s.packets[itemsToRemove:]
			}
			s.mu.Unlock()
		}
	}()

	return &s
}

func newResumeToken() string {
	b := make([]byte, 24)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

func (s *Session) resumeTokenMatches(token string) bool {
	return subtle.ConstantTimeCompare([]byte(s.resumeToken), []byte(token)) == 1
}

// queue hands a packet to the write thread. A session that has ended drops
// the packet; so does a full buffer, rather than blocking the caller.
func (s *Session) queue(p *Packet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	select {
	case s.send <- p:
	default:
		log.Println("dropping packet for session", s.id)
	}
}

func (s *Session) registerConn(conn *websocket.Conn) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		conn.Close()
		return
	}

	// Close current connection if one exists
	if s.conn != nil {
		s.conn.WriteMessage(websocket.CloseAbnormalClosure, []byte{})
		s.conn.Close()
	}

	// Set conn
	s.conn = conn
	s.mu.Unlock()

	// Read incoming commands until connection ends
	go func() {
		for {
			// Get next message
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.endSession()
				} else {
					conn.Close()
					s.mu.Lock()
					if s.conn == conn {
						s.conn = nil
						s.disconnectedAt = time.Now().UnixMilli()
					}
					s.mu.Unlock()
				}
				break
			}
			s.handleCommand(msg)
		}
	}()

	// Send hello
	p, _ := createPacket(s.server, "hello", "", "", map[string]interface{}{
		"session_id":    strconv.FormatInt(s.id, 10),
		"resume_token":  s.resumeToken,
		"ping_interval": pingInterval,
	})
	s.queue(p)
}

// replayMissed re-sends retained packets newer than the client's last seen
// nonce after a resume.
func (s *Session) replayMissed(lastNonce int64) {
	s.mu.Lock()
	missed := make([]*Packet, 0, len(s.packets))
	for _, packet := range s.packets {
		if packet.Nonce > lastNonce {
			missed = append(missed, packet)
		}
	}
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return
	}
	for _, packet := range missed {
		s.writeToConn(conn, packet)
	}
}

func (s *Session) handleCommand(msg []byte) {
	var cmd clientCommand
	if err := json.Unmarshal(msg, &cmd); err != nil {
		return
	}

	switch cmd.Cmd {
	case "subscribe":
		if !events.IsSubscribable(cmd.Channel) {
			s.sendError("unknownChannel", cmd.Channel)
			return
		}
		// Private notification channels are restricted to their owner
		if owner, ok := events.NotificationChannelOwner(cmd.Channel); ok && owner != s.userId {
			s.sendError("channelForbidden", cmd.Channel)
			return
		}
		s.mu.Lock()
		if s.ended || s.channels[cmd.Channel] {
			s.mu.Unlock()
			return
		}
		s.channels[cmd.Channel] = true
		s.mu.Unlock()
		if err := s.server.subscribe(cmd.Channel, s); err != nil {
			s.mu.Lock()
			delete(s.channels, cmd.Channel)
			s.mu.Unlock()
			s.sendError("subscribeFailed", cmd.Channel)
		}

	case "unsubscribe":
		s.mu.Lock()
		if !s.channels[cmd.Channel] {
			s.mu.Unlock()
			return
		}
		delete(s.channels, cmd.Channel)
		s.mu.Unlock()
		s.server.unsubscribe(cmd.Channel, s)
	}
}

func (s *Session) sendError(errType string, channel string) {
	p, err := createPacket(s.server, "error", channel, "", errType)
	if err != nil {
		return
	}
	s.queue(p)
}

func (s *Session) writeToConn(conn *websocket.Conn, packet *Packet) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := conn.WriteMessage(websocket.TextMessage, packet.Encoded); err != nil {
		conn.Close()
	}
}

func (s *Session) endSession() {
	// Make sure session hasn't already ended
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}

	// Set ended state; queue drops everything from here on, so closing
	// send cannot race a send
	s.ended = true
	close(s.send)

	channels := s.channels
	s.channels = nil
	s.packets = nil

	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	// Release channels
	for channel := range channels {
		s.server.unsubscribe(channel, s)
	}

	// De-register
	s.server.mu.Lock()
	delete(s.server.sessions, s.id)
	s.server.mu.Unlock()

	// Close connection if one exists
	if conn != nil {
		conn.WriteMessage(websocket.CloseAbnormalClosure, []byte{})
		conn.Close()
	}
}
