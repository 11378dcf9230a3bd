package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu      sync.Mutex
	viewID  string
	sink    EventSink
	calls   []string
	visible int
	scroll  ScrollData
	closed  chan struct{}
	once    sync.Once
}

func (s *fakeSession) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *fakeSession) Start(ctx context.Context) {
	s.record("start")
	s.sink.Send(Event{Op: OpReviewsSnapshot, Data: SnapshotData{Source: "fallback", Total: 3}})
}
func (s *fakeSession) Next() { s.record("next") }
func (s *fakeSession) Prev() { s.record("prev") }
func (s *fakeSession) SetVisible(count int) {
	s.mu.Lock()
	s.visible = count
	s.mu.Unlock()
	s.record("visible")
}
func (s *fakeSession) Scroll(req ScrollData) {
	s.mu.Lock()
	s.scroll = req
	s.mu.Unlock()
	s.record("scroll")
}
func (s *fakeSession) Close() { s.once.Do(func() { close(s.closed) }) }

func (s *fakeSession) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

type fakeFactory struct {
	mu       sync.Mutex
	sessions []*fakeSession
}

func (f *fakeFactory) NewSession(viewID string, sink EventSink) DisplaySession {
	s := &fakeSession{viewID: viewID, sink: sink, closed: make(chan struct{})}
	f.mu.Lock()
	f.sessions = append(f.sessions, s)
	f.mu.Unlock()
	return s
}

func (f *fakeFactory) last() *fakeSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[len(f.sessions)-1]
}

func startServer(t *testing.T) (*Hub, *fakeFactory, string) {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	factory := &fakeFactory{}
	handler := NewHandler(hub, factory, nil)

	srv := httptest.NewServer(http.HandlerFunc(handler.HandleConnection))
	t.Cleanup(srv.Close)

	return hub, factory, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/reviews?view=abc"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestHandler_SessionStartsAndSnapshotArrives(t *testing.T) {
	_, factory, url := startServer(t)
	conn := dial(t, url)

	ev := readEvent(t, conn)
	assert.Equal(t, OpReviewsSnapshot, ev.Op)
	assert.Positive(t, ev.Seq)
	assert.Equal(t, "abc", factory.last().viewID)
}

func TestHandler_HeartbeatAck(t *testing.T) {
	_, _, url := startServer(t)
	conn := dial(t, url)
	readEvent(t, conn) // ilk snapshot

	require.NoError(t, conn.WriteJSON(Event{Op: OpHeartbeat}))
	assert.Equal(t, OpHeartbeatAck, readEvent(t, conn).Op)
}

func TestHandler_CommandsReachSession(t *testing.T) {
	_, factory, url := startServer(t)
	conn := dial(t, url)
	readEvent(t, conn)

	require.NoError(t, conn.WriteJSON(Event{Op: OpReviewsNext}))
	require.NoError(t, conn.WriteJSON(Event{Op: OpReviewsPrev}))
	require.NoError(t, conn.WriteJSON(Event{Op: OpReviewsVisible, Data: VisibleData{Count: 1}}))
	require.NoError(t, conn.WriteJSON(Event{Op: OpReviewsVisible, Data: VisibleData{Count: 0}}))
	require.NoError(t, conn.WriteJSON(Event{Op: OpReviewsScroll, Data: ScrollData{Direction: 1, CardWidth: 300}}))

	// heartbeat ack sıralı işlendiğini garanti eder
	require.NoError(t, conn.WriteJSON(Event{Op: OpHeartbeat}))
	readEvent(t, conn)

	s := factory.last()
	assert.Equal(t, []string{"start", "next", "prev", "visible", "scroll"}, s.Calls())
	assert.Equal(t, 1, s.visible)
	assert.Equal(t, 300.0, s.scroll.CardWidth)
}

func TestHandler_CloseTearsDownSession(t *testing.T) {
	hub, factory, url := startServer(t)
	conn := dial(t, url)
	readEvent(t, conn)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()

	select {
	case <-factory.last().closed:
	case <-time.After(2 * time.Second):
		t.Fatal("session was not closed after disconnect")
	}
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_ShutdownClosesSessionsAndStopsSends(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	session := &fakeSession{closed: make(chan struct{})}
	client := &Client{hub: hub, send: make(chan []byte, 1), session: session}
	require.True(t, hub.Register(client))
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Shutdown()

	select {
	case <-session.closed:
	default:
		t.Fatal("session not closed on shutdown")
	}
	assert.False(t, client.Send(Event{Op: OpReviewsSnapshot}))
	assert.False(t, hub.Register(&Client{hub: hub, send: make(chan []byte, 1)}))
	assert.NotPanics(t, hub.Shutdown)
}

func TestClient_SendAfterCloseIsNoop(t *testing.T) {
	hub := NewHub()
	client := &Client{hub: hub, send: make(chan []byte, 1)}

	assert.True(t, client.Send(Event{Op: OpHeartbeatAck}))
	client.closeSend()
	assert.NotPanics(t, func() { client.closeSend() })
	assert.False(t, client.Send(Event{Op: OpHeartbeatAck}))
}

func TestClient_ConcurrentSendKeepsSeqOrder(t *testing.T) {
	const senders, perSender = 8, 50

	hub := NewHub()
	client := &Client{hub: hub, send: make(chan []byte, senders*perSender)}

	cards := make([]ReviewCard, 2000)
	for i := range cards {
		cards[i] = ReviewCard{AuthorName: "Ayşe K.", Rating: 5, FilledStars: 5, Text: strings.Repeat("iyi ", 20)}
	}

	var wg sync.WaitGroup
	for i := range senders {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for range perSender {
				if i%2 == 0 {
					client.Send(Event{Op: OpReviewsSnapshot, Data: SnapshotData{Cards: cards}})
				} else {
					client.Send(Event{Op: OpHeartbeatAck})
				}
			}
		}(i)
	}
	wg.Wait()
	client.closeSend()

	var last int64
	count := 0
	for raw := range client.send {
		var ev Event
		require.NoError(t, json.Unmarshal(raw, &ev))
		require.Greater(t, ev.Seq, last, "event %d enqueued out of seq order", count)
		last = ev.Seq
		count++
	}
	assert.Equal(t, senders*perSender, count)
}

func TestOriginAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://site.test/ws/reviews", nil)
	assert.True(t, originAllowed(req, nil), "no origin header")

	req.Header.Set("Origin", "http://site.test")
	assert.True(t, originAllowed(req, nil), "same host")

	req.Header.Set("Origin", "https://evil.test")
	assert.False(t, originAllowed(req, nil))
	assert.True(t, originAllowed(req, []string{"https://evil.test/"}))
	assert.True(t, originAllowed(req, []string{"*"}))
}
