package occlusion

import (
	"sort"

	"github.com/felixgeelhaar/multistate/domain/state"
)

// Closure computes the transitive closure of the declared relations:
// whenever (a,b) and (b,c) hold, (a,c) is derived with the combined
// probability. When several derivations produce the same pair the one
// with the highest probability wins. Derived relations carry the weaker
// class of the two links and are exempt from class probability bounds.
//
// The result contains the declared relations followed by the derived
// ones, each pair exactly once, in deterministic order.
func Closure(declared []Relation, combine Combinator) []Relation {
	if combine == nil {
		combine = CombineProduct
	}

	type pair struct{ covering, hidden state.ID }
	best := make(map[pair]Relation, len(declared))
	for _, r := range declared {
		p := pair{r.Covering, r.Hidden}
		if cur, ok := best[p]; !ok || r.Probability > cur.Probability {
			best[p] = r
		}
	}

	// Warshall-style saturation. Terminates because each round only adds
	// pairs or raises probabilities, both bounded.
	for changed := true; changed; {
		changed = false
		relations := make([]Relation, 0, len(best))
		for _, r := range best {
			relations = append(relations, r)
		}
		for _, ab := range relations {
			for _, bc := range relations {
				if ab.Hidden != bc.Covering || ab.Covering == bc.Hidden {
					continue
				}
				p := pair{ab.Covering, bc.Hidden}
				derived := Relation{
					Covering:    ab.Covering,
					Hidden:      bc.Hidden,
					Probability: combine(ab.Probability, bc.Probability),
					Class:       weaker(ab.Class, bc.Class),
				}
				if cur, ok := best[p]; !ok || derived.Probability > cur.Probability {
					best[p] = derived
					changed = true
				}
			}
		}
	}

	out := make([]Relation, 0, len(best))
	for _, r := range best {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Covering != out[j].Covering {
			return out[i].Covering < out[j].Covering
		}
		return out[i].Hidden < out[j].Hidden
	})
	return out
}

// HiddenBy returns the states hidden by covering according to the given
// relations, restricted to states in the active configuration.
func HiddenBy(relations []Relation, covering state.ID, active state.Set) state.Set {
	hidden := state.NewSet()
	for _, r := range relations {
		if r.Covering == covering && active.Contains(r.Hidden) {
			hidden.Add(r.Hidden)
		}
	}
	return hidden
}
