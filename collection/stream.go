package collection

import (
	"context"
	"sync"
)

type generationStreams struct {
	mutex       sync.Mutex
	subscribers map[chan string]struct{}
}

// publish delivers id to every subscriber without blocking. A subscriber
// that has not read the previous id only gets the latest one.
func (s *generationStreams) publish(id string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for ch := range s.subscribers {
		select {
		case ch <- id:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- id:
		default:
		}
	}
}

func (s *generationStreams) subscribe(current string) chan string {
	ch := make(chan string, 1)
	ch <- current

	s.mutex.Lock()
	s.subscribers[ch] = struct{}{}
	s.mutex.Unlock()

	return ch
}

func (s *generationStreams) unsubscribe(ch chan string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.subscribers[ch]; ok {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *generationStreams) closeAll() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = map[chan string]struct{}{}
}

// GenerationStream emits the committed generation id, first the current one
// and then every new commit. Slow consumers skip to the latest id. The
// channel is closed when ctx is done or the collection is closed.
func (c *Collection) GenerationStream(ctx context.Context) <-chan string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.closed {
		ch := make(chan string)
		close(ch)
		return ch
	}

	ch := c.streams.subscribe(c.committed)

	go func() {
		select {
		case <-ctx.Done():
			c.streams.unsubscribe(ch)
		case <-c.done:
		}
	}()

	return ch
}
