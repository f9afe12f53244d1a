package broadcast

import "sync"

// AgentRegistry tracks the live agent connections by agent id. A reconnect
// for the same agent replaces the previous handle.
type AgentRegistry struct {
	mu    sync.RWMutex
	conns map[string]Subscriber
}

func NewAgentRegistry() *AgentRegistry {
	return &AgentRegistry{conns: make(map[string]Subscriber)}
}

func (r *AgentRegistry) Add(agentID string, s Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[agentID] = s
}

// Remove drops agentID only if it still maps to s, so a stale session
// closing late cannot evict a newer connection.
func (r *AgentRegistry) Remove(agentID string, s Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.conns[agentID]; ok && cur == s {
		delete(r.conns, agentID)
	}
}

func (r *AgentRegistry) Get(agentID string) (Subscriber, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.conns[agentID]
	return s, ok
}

func (r *AgentRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
