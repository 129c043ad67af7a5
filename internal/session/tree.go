package session

// FilterEventTree returns the event with the given UUID together
// with every event transitively reachable from it via parentUuid
// links. The result is a stable subsequence of the input; an
// unknown root yields an empty list. Expansion is breadth-first
// with a visited set, so self-referential or cyclic parent links
// terminate.
func FilterEventTree(
	events []SessionEvent, rootUUID string,
) []SessionEvent {
	// Adjacency built once per call, not per node.
	children := make(map[string][]string)
	for _, ev := range events {
		if ev.ParentUUID != "" && ev.UUID != "" {
			children[ev.ParentUUID] = append(
				children[ev.ParentUUID], ev.UUID,
			)
		}
	}

	allowed := map[string]bool{rootUUID: true}
	queue := []string{rootUUID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range children[current] {
			if !allowed[child] {
				allowed[child] = true
				queue = append(queue, child)
			}
		}
	}

	var out []SessionEvent
	for _, ev := range events {
		if ev.UUID != "" && allowed[ev.UUID] {
			out = append(out, ev)
		}
	}
	return out
}
