// Package notifier provides a topic-based broadcast mechanism for SSE updates.
package notifier

import "sync"

// TopicHistory is published whenever the calculation history may have changed.
const TopicHistory = "history"

// Notifier broadcasts topic pings to subscribed listeners. Listeners receive
// the topic name and should re-query whatever the topic covers.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan string]map[string]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan string]map[string]struct{}),
	}
}

// Subscribe returns a channel that receives the given topics, or every topic
// when none are named. The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe(topics ...string) chan string {
	ch := make(chan string, 1)
	var filter map[string]struct{}
	if len(topics) > 0 {
		filter = make(map[string]struct{}, len(topics))
		for _, t := range topics {
			filter[t] = struct{}{}
		}
	}

	n.mu.Lock()
	n.listeners[ch] = filter
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan string) {
	n.mu.Lock()
	_, ok := n.listeners[ch]
	delete(n.listeners, ch)
	n.mu.Unlock()
	if ok {
		close(ch)
	}
}

// Len returns the number of subscribed listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// Broadcast sends topic to every listener interested in it.
// Non-blocking: if a listener's channel is full, the ping is skipped.
func (n *Notifier) Broadcast(topic string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch, filter := range n.listeners {
		if filter != nil {
			if _, ok := filter[topic]; !ok {
				continue
			}
		}
		select {
		case ch <- topic:
		default:
			// Channel full, the listener still has a pending ping to handle
		}
	}
}
