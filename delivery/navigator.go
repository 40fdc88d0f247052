package delivery

import (
	"context"
	"sync"
)

// redirectNavigator records the redirect a controller asks for so the
// handler can answer with a full-page 303 once the outcome has settled.
type redirectNavigator struct {
	mu     sync.Mutex
	target string
}

func (n *redirectNavigator) Navigate(_ context.Context, target string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.target = target
	return nil
}

// Target returns the recorded destination, if any.
func (n *redirectNavigator) Target() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.target, n.target != ""
}
