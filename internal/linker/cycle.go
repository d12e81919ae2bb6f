package linker

// detectCycle walks parent links from start until either the root or a
// repeated name is seen, returning the cycle chain when one exists.
//
// The chain is reported the way it reads in source: for A : B, B : C,
// C : A the chain starting at A is [A, B, C, A]. The walk is bounded
// by the visited set, never by recursion depth, so malformed input
// cannot overflow the stack.
func detectCycle(start string, parentOf map[string]string) []string {
	index := make(map[string]int)
	var path []string

	current := start
	for {
		if at, seen := index[current]; seen {
			return append(path[at:], current)
		}
		index[current] = len(path)
		path = append(path, current)

		next, ok := parentOf[current]
		if !ok || next == "" {
			return nil
		}
		current = next
	}
}
