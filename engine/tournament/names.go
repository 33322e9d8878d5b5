/* names.go
 * Contains fuzzy resolution of user-typed player names to roster IDs, used by presentation layers
 * when commands reference players by name rather than by ID
 * Authors: Zachary Bower
 */

package tournament

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ResolvePlayerNames matches user-typed names against the roster and returns the matched player
// IDs plus every input that could not be resolved.
// Preconditions: receives the raw name inputs and the roster to match against
// Postconditions: exact (case-insensitive) matches win over fuzzy ones; with several fuzzy
// candidates the best ranked match is taken
func ResolvePlayerNames(inputs []string, players []Player) ([]int, []string) {
	lookup := make(map[string]int)
	var namesLower []string
	for _, p := range players {
		lower := strings.ToLower(p.Name)
		lookup[lower] = p.ID
		namesLower = append(namesLower, lower)
	}

	var ids []int
	var unresolved []string
	for _, input := range inputs {
		lowerInput := strings.ToLower(strings.TrimSpace(input))
		matches := fuzzy.RankFind(lowerInput, namesLower)
		if len(matches) == 0 {
			unresolved = append(unresolved, input)
			continue
		}
		// RankFind reports candidates in roster order, so rank by Levenshtein distance first.
		// An exact match still wins over every fuzzy candidate
		sort.Sort(matches)
		best := ""
		for i := range matches {
			if matches[i].Target == lowerInput {
				best = matches[i].Target
			}
		}
		if best == "" {
			best = matches[0].Target
		}
		ids = append(ids, lookup[best])
	}
	return ids, unresolved
}
