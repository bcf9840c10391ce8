package auth

import (
	"context"
	"sync"
)

// Session is one signed-in context (the analog of a browser tab's auth
// state). Subscribers get the current state immediately and every later
// sign-in/sign-out; a nil User means signed out.
type Session struct {
	mu     sync.Mutex
	user   *User
	subs   map[int]chan *User
	nextID int
}

func NewSession() *Session {
	return &Session{subs: map[int]chan *User{}}
}

func (s *Session) Current() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) SignIn(u User) {
	s.set(&u)
}

func (s *Session) SignOut() {
	s.set(nil)
}

func (s *Session) set(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	for _, ch := range s.subs {
		select {
		case ch <- u:
		default: // slow subscriber; drop rather than block sign-in
		}
	}
}

// Subscribe registers a state listener. The current state is delivered
// immediately. The subscription is removed when cancel is called or ctx ends,
// and its channel is then closed.
func (s *Session) Subscribe(ctx context.Context) (<-chan *User, context.CancelFunc) {
	ch := make(chan *User, 8)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- s.user
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
	if ctx != nil && ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			cancel()
		}()
	}
	return ch, cancel
}
