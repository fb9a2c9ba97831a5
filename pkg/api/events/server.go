package events

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/driftsocial/server/pkg/events"
	"github.com/driftsocial/server/pkg/rdb"
	"github.com/driftsocial/server/pkg/users"
	"github.com/getsentry/sentry-go"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

// Server bridges Redis pub/sub channels to websocket clients. A Redis
// channel is subscribed while at least one session wants it and released
// when the last one leaves.
type Server struct {
	httpMux *http.ServeMux

	mu       sync.Mutex
	sessions map[int64]*Session
	channels map[string]map[int64]*Session

	pubsub *redis.PubSub

	nextNonce  int64
	nonceMutex sync.Mutex
}

func NewServer() *Server {
	// Create WebSocket upgrader
	upgrader := websocket.Upgrader{
		ReadBufferSize:    1024,
		WriteBufferSize:   1024,
		CheckOrigin:       func(r *http.Request) bool { return true },
		EnableCompression: true,
	}

	// Create server
	s := Server{
		httpMux: http.NewServeMux(),

		sessions: make(map[int64]*Session),
		channels: make(map[string]map[int64]*Session),
	}
	s.httpMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// Get current session or create new session
		var session *Session
		if r.URL.Query().Has("sid") && r.URL.Query().Has("nonce") {
			sid, _ := strconv.ParseInt(r.URL.Query().Get("sid"), 10, 64)
			s.mu.Lock()
			session = s.sessions[sid]
			s.mu.Unlock()
			// Session ids are sequential and guessable; the resume token
			// issued in the hello packet is what authenticates the resume
			if session == nil || !session.resumeTokenMatches(r.URL.Query().Get("resume")) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte("Session not found."))
				return
			}
		} else {
			// Resolve the session user; anonymous connections may only use
			// public channels
			var userId int64
			if user, err := users.GetUserByToken(r.URL.Query().Get("token")); err == nil {
				userId = user.Id
			}
			session = newSession(&s, userId)
		}

		// Upgrade connection
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		// Register connection
		session.registerConn(conn)

		// Re-send missed packets
		if r.URL.Query().Has("nonce") {
			lastNonce, _ := strconv.ParseInt(r.URL.Query().Get("nonce"), 10, 64)
			session.replayMissed(lastNonce)
		}
	})

	return &s
}

func (s *Server) getNextNonce() int64 {
	s.nonceMutex.Lock()
	defer s.nonceMutex.Unlock()
	nonce := s.nextNonce
	s.nextNonce++
	return nonce
}

// subscribe registers the session on a channel, opening the Redis
// subscription if this is the channel's first listener.
func (s *Server) subscribe(channel string, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	listeners, ok := s.channels[channel]
	if !ok {
		if err := s.pubsub.Subscribe(context.Background(), channel); err != nil {
			return err
		}
		listeners = make(map[int64]*Session)
		s.channels[channel] = listeners
	}
	listeners[session.id] = session
	return nil
}

// unsubscribe removes the session from a channel, releasing the Redis
// subscription when the last listener leaves.
func (s *Server) unsubscribe(channel string, session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listeners, ok := s.channels[channel]
	if !ok {
		return
	}
	delete(listeners, session.id)
	if len(listeners) == 0 {
		delete(s.channels, channel)
		if err := s.pubsub.Unsubscribe(context.Background(), channel); err != nil {
			log.Println(err)
			sentry.CaptureException(err)
		}
	}
}

func (s *Server) pubSub() {
	// Subscribe with no channels; they are added as sessions ask for them
	s.pubsub = rdb.Client.Subscribe(context.Background())

	// Listen to incoming pub/sub events
	go func() {
		for msg := range s.pubsub.Channel() {
			// Parse envelope
			envelope, err := events.Decode([]byte(msg.Payload))
			if err != nil {
				log.Println(err)
				sentry.CaptureException(err)
				continue
			}

			// Construct packet
			p, err := createPacket(s, "event", msg.Channel, envelope.Kind(), envelope)
			if err != nil {
				log.Println(err)
				sentry.CaptureException(err)
				continue
			}

			// Send to every session on the channel
			s.mu.Lock()
			listeners := make([]*Session, 0, len(s.channels[msg.Channel]))
			for _, sess := range s.channels[msg.Channel] {
				listeners = append(listeners, sess)
			}
			s.mu.Unlock()
			for _, sess := range listeners {
				sess.queue(p)
			}
		}
	}()
}

func (s *Server) Run(exposeAddr string) error {
	// Start pub/sub
	s.pubSub()

	// Start HTTP server
	fmt.Println("Serving events HTTP on", exposeAddr)
	return http.ListenAndServe(exposeAddr, s.httpMux)
}
