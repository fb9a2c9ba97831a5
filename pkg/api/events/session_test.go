package events

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeTokenPerSession(t *testing.T) {
	srv := NewServer()
	a := newSession(srv, 7)
	b := newSession(srv, 8)

	require.NotEmpty(t, a.resumeToken)
	assert.NotEqual(t, a.resumeToken, b.resumeToken)

	assert.True(t, a.resumeTokenMatches(a.resumeToken))
	assert.False(t, a.resumeTokenMatches(""))
	assert.False(t, a.resumeTokenMatches(b.resumeToken))
}

func TestResumeRejectsMissingOrWrongToken(t *testing.T) {
	srv := NewServer()
	sess := newSession(srv, 7)

	// Knowing the (sequential) session id is not enough to take the
	// session over
	req := httptest.NewRequest("GET", fmt.Sprintf("/?sid=%d&nonce=0", sess.id), nil)
	w := httptest.NewRecorder()
	srv.httpMux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest("GET", fmt.Sprintf("/?sid=%d&nonce=0&resume=wrong", sess.id), nil)
	w = httptest.NewRecorder()
	srv.httpMux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQueueAfterEndSessionDropsPacket(t *testing.T) {
	srv := NewServer()
	sess := newSession(srv, 7)

	p, err := createPacket(srv, "event", "posts.1", "PostDeleted", map[string]int64{"post_id": 1})
	require.NoError(t, err)

	sess.queue(p)
	sess.endSession()

	// A publish racing a disconnect must never hit the closed channel
	assert.NotPanics(t, func() { sess.queue(p) })

	// endSession is idempotent
	assert.NotPanics(t, func() { sess.endSession() })

	srv.mu.Lock()
	_, registered := srv.sessions[sess.id]
	srv.mu.Unlock()
	assert.False(t, registered)
}
