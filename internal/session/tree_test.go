package session

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// mkEvent builds a minimal event for tree tests.
func mkEvent(uuid, parent string) SessionEvent {
	return SessionEvent{UUID: uuid, ParentUUID: parent}
}

func uuids(events []SessionEvent) []string {
	var out []string
	for _, ev := range events {
		out = append(out, ev.UUID)
	}
	return out
}

func TestFilterEventTree(t *testing.T) {
	//     r
	//    / \
	//   a   b
	//  /
	// c
	// x is unrelated.
	events := []SessionEvent{
		mkEvent("r", ""),
		mkEvent("a", "r"),
		mkEvent("x", ""),
		mkEvent("b", "r"),
		mkEvent("c", "a"),
	}

	tests := []struct {
		name string
		root string
		want []string
	}{
		{"whole tree", "r", []string{"r", "a", "b", "c"}},
		{"subtree", "a", []string{"a", "c"}},
		{"leaf", "c", []string{"c"}},
		{"unrelated root", "x", []string{"x"}},
		{"unknown root", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := uuids(FilterEventTree(events, tt.root))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("subtree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterEventTreePreservesOrder(t *testing.T) {
	// Children appear before their parent in file order; the
	// filter keeps input order, not traversal order.
	events := []SessionEvent{
		mkEvent("c", "a"),
		mkEvent("a", "r"),
		mkEvent("r", ""),
	}
	got := uuids(FilterEventTree(events, "r"))
	want := []string{"c", "a", "r"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterEventTreeCycle(t *testing.T) {
	events := []SessionEvent{
		mkEvent("a", "b"),
		mkEvent("b", "a"),
	}
	got := uuids(FilterEventTree(events, "a"))
	if len(got) != 2 {
		t.Fatalf("got %v, want both cycle members", got)
	}
}

func TestFilterEventTreeSelfParent(t *testing.T) {
	events := []SessionEvent{mkEvent("a", "a")}
	got := uuids(FilterEventTree(events, "a"))
	if diff := cmp.Diff([]string{"a"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterEventTreeSkipsEmptyUUIDs(t *testing.T) {
	events := []SessionEvent{
		mkEvent("r", ""),
		mkEvent("", "r"), // no identity, never included
	}
	got := uuids(FilterEventTree(events, "r"))
	if diff := cmp.Diff([]string{"r"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
