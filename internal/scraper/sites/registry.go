package sites

import "fmt"

// All returns one instance per variant in scope (§4.D), stateless and safe
// to share across workers.
func All() []Adapter {
	return []Adapter{
		NewEluta(), NewIndeed(), NewLinkedIn(), NewMonster(), NewJobBank(), NewTowardsAI(),
	}
}

// ByName looks up an adapter by its Name(), for the CLI's site-list flag.
func ByName(names []string) ([]Adapter, error) {
	byName := make(map[string]Adapter)
	for _, a := range All() {
		byName[a.Name()] = a
	}
	out := make([]Adapter, 0, len(names))
	for _, n := range names {
		a, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("unknown site %q", n)
		}
		out = append(out, a)
	}
	return out, nil
}
