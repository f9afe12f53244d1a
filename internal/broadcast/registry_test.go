package broadcast

import "testing"

func TestAgentRegistryAddGetRemove(t *testing.T) {
	r := NewAgentRegistry()
	s := &fakeSub{}
	r.Add("agent-1", s)

	got, ok := r.Get("agent-1")
	if !ok || got != Subscriber(s) {
		t.Fatal("expected to find registered connection")
	}

	r.Remove("agent-1", s)
	if _, ok := r.Get("agent-1"); ok {
		t.Error("connection still present after Remove")
	}
}

func TestAgentRegistryStaleRemoveKeepsNewerConn(t *testing.T) {
	r := NewAgentRegistry()
	old, fresh := &fakeSub{}, &fakeSub{}
	r.Add("agent-1", old)
	r.Add("agent-1", fresh) // reconnect replaces the handle

	r.Remove("agent-1", old) // stale close arriving late
	if got, ok := r.Get("agent-1"); !ok || got != Subscriber(fresh) {
		t.Error("stale remove evicted the newer connection")
	}
	if r.Len() != 1 {
		t.Errorf("registry has %d entries, want 1", r.Len())
	}
}
