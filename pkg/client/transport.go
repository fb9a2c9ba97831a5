package client

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"sync"

	"github.com/driftsocial/server/pkg/events"
	"github.com/gorilla/websocket"
)

// Conn is the session's one realtime connection to the events gateway. It
// is constructed explicitly, owned by whoever owns the subscription
// manager, and closed on session end. One websocket carries every channel;
// incoming packets are demultiplexed by channel name.
type Conn struct {
	ws *websocket.Conn

	mu     sync.Mutex
	subs   map[string]*wsSubscription
	closed bool

	writeMu sync.Mutex
}

// gatewayPacket is the JSON frame exchanged with the events gateway.
type gatewayPacket struct {
	Cmd     string          `json:"cmd"`
	Channel string          `json:"channel,omitempty"`
	Kind    string          `json:"kind,omitempty"`
	Val     json.RawMessage `json:"val,omitempty"`
	Nonce   string          `json:"nonce,omitempty"`
}

// Dial connects to the events gateway. The token authenticates the session
// for private channels; it may be empty for anonymous (public-only) use.
func Dial(gatewayUrl string, token string) (*Conn, error) {
	u, err := url.Parse(gatewayUrl)
	if err != nil {
		return nil, err
	}
	if token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}

	ws, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}

	c := &Conn{
		ws:   ws,
		subs: map[string]*wsSubscription{},
	}
	go c.readLoop()

	return c, nil
}

// Subscribe opens one subscription to the channel. A channel already
// subscribed on this connection returns ErrAlreadySubscribed; the
// subscription manager guarantees one per mounted post.
func (c *Conn) Subscribe(ctx context.Context, channel string) (Subscription, error) {
	if !events.IsSubscribable(channel) {
		return nil, events.ErrUnknownChannel
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrConnClosed
	}
	if _, ok := c.subs[channel]; ok {
		c.mu.Unlock()
		return nil, ErrAlreadySubscribed
	}
	sub := &wsSubscription{
		conn:    c,
		channel: channel,
		events:  make(chan events.Envelope, 64),
	}
	c.subs[channel] = sub
	c.mu.Unlock()

	if err := c.write(&gatewayPacket{Cmd: "subscribe", Channel: channel}); err != nil {
		c.mu.Lock()
		delete(c.subs, channel)
		c.mu.Unlock()
		return nil, err
	}

	return sub, nil
}

func (c *Conn) write(p *gatewayPacket) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, b)
}

func (c *Conn) readLoop() {
	for {
		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			c.Close()
			return
		}

		var p gatewayPacket
		if err := json.Unmarshal(msg, &p); err != nil {
			log.Println("gateway packet:", err)
			continue
		}
		if p.Cmd != "event" {
			continue
		}

		e, err := events.DecodeJSON(p.Kind, p.Val)
		if err != nil {
			log.Println("gateway envelope:", err)
			continue
		}

		// Deliver under the lock so a concurrent Close can never close the
		// channel mid-send.
		c.mu.Lock()
		if sub, ok := c.subs[p.Channel]; ok {
			select {
			case sub.events <- e:
			default:
				// Subscriber is not draining; drop rather than block the
				// read loop. A later full reload shows correct state.
				log.Println("dropping envelope on", p.Channel)
			}
		}
		c.mu.Unlock()
	}
}

// Close tears down the connection and every subscription on it.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	for _, sub := range c.subs {
		sub.closeEvents()
	}
	c.subs = map[string]*wsSubscription{}
	c.mu.Unlock()

	return c.ws.Close()
}

type wsSubscription struct {
	conn    *Conn
	channel string
	events  chan events.Envelope
	once    sync.Once
}

func (s *wsSubscription) Events() <-chan events.Envelope {
	return s.events
}

func (s *wsSubscription) closeEvents() {
	s.once.Do(func() {
		close(s.events)
	})
}

func (s *wsSubscription) Close() error {
	s.conn.mu.Lock()
	_, ok := s.conn.subs[s.channel]
	if ok {
		delete(s.conn.subs, s.channel)
	}
	closed := s.conn.closed
	s.closeEvents()
	s.conn.mu.Unlock()

	if ok && !closed {
		return s.conn.write(&gatewayPacket{Cmd: "unsubscribe", Channel: s.channel})
	}
	return nil
}
