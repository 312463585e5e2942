package repl

import (
	"sort"
	"strings"
)

// builtins are handled by the REPL itself rather than the command tree.
var builtins = []string{"exit", "quit", "history"}

// Completer suggests command paths for a typed prefix.
type Completer struct {
	commands []string
}

// NewCompleter creates a completer over command paths such as "ip list".
// The REPL builtins are always included.
func NewCompleter(commands []string) *Completer {
	seen := make(map[string]struct{}, len(commands)+len(builtins))
	all := make([]string, 0, len(commands)+len(builtins))
	for _, cmd := range append(append([]string{}, commands...), builtins...) {
		cmd = strings.Join(strings.Fields(cmd), " ")
		if cmd == "" {
			continue
		}
		if _, dup := seen[cmd]; dup {
			continue
		}
		seen[cmd] = struct{}{}
		all = append(all, cmd)
	}
	sort.Strings(all)
	return &Completer{commands: all}
}

// Complete returns the command paths that start with prefix. Runs of
// whitespace in prefix count as a single space.
func (c *Completer) Complete(prefix string) []string {
	norm := strings.Join(strings.Fields(prefix), " ")
	if strings.HasSuffix(prefix, " ") && norm != "" {
		norm += " "
	}

	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, norm) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

// Suggest returns the closest command path to an unknown input, or "".
// Only the leading words that form a known path are considered.
func (c *Completer) Suggest(input string) string {
	words := strings.Fields(input)
	if len(words) == 0 {
		return ""
	}
	best, bestDist := "", 3
	for _, cmd := range c.commands {
		n := len(strings.Fields(cmd))
		if n > len(words) {
			continue
		}
		candidate := strings.Join(words[:n], " ")
		if d := distance(candidate, cmd); d < bestDist && d > 0 {
			best, bestDist = cmd, d
		}
	}
	return best
}

// distance is the Levenshtein edit distance between a and b.
func distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
