package combat

import "sort"

// readyThreshold is the speed counter value at which a unit earns a turn.
const readyThreshold = 1000

// Source is the randomness the engine draws from. dice.Source satisfies it.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// scheduler produces the cross-roster turn order from speed counters.
type scheduler struct {
	units []*Combatant
	order []*Combatant
}

func newScheduler(units []*Combatant) *scheduler {
	return &scheduler{units: units}
}

// handleTies breaks every speed tie, one at a time, until none remain.
//
// Postcondition: no two living units share both speed and speed counter.
func (s *scheduler) handleTies(src Source) {
	for s.breakTie(src) {
	}
}

// breakTie finds the first pair of living units with equal speed and equal
// speed counter and awards +1 counter to the one with higher power, or to a
// random one of the two when power is equal. It reports whether a tie was broken.
//
// Units are scanned sorted by speed then counter, so equal pairs are adjacent.
func (s *scheduler) breakTie(src Source) bool {
	sorted := s.living()
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Speed() != sorted[j].Speed() {
			return sorted[i].Speed() < sorted[j].Speed()
		}
		return sorted[i].speedCounter < sorted[j].speedCounter
	})
	for i := 0; i+1 < len(sorted); i++ {
		a, b := sorted[i], sorted[i+1]
		if a.Speed() != b.Speed() || a.speedCounter != b.speedCounter {
			continue
		}
		switch {
		case a.Power() > b.Power():
			a.speedCounter++
		case a.Power() < b.Power():
			b.speedCounter++
		case src.Intn(2) == 0:
			a.speedCounter++
		default:
			b.speedCounter++
		}
		return true
	}
	return false
}

// generate runs speed cycles until the turn order holds at least n entries.
// Each cycle every living unit adds its speed to its counter; units reaching
// the threshold lose readyThreshold and are appended, highest remaining
// counter first, ties in roster order.
//
// Postcondition: returns false, leaving the order short, when no living unit
// has positive speed.
func (s *scheduler) generate(n int) bool {
	if len(s.order) >= n {
		return true
	}
	canAct := false
	for _, u := range s.units {
		if u.Alive() && u.Speed() > 0 {
			canAct = true
			break
		}
	}
	if !canAct {
		return false
	}
	for len(s.order) < n {
		var ready []*Combatant
		for _, u := range s.units {
			if u.dead {
				continue
			}
			u.speedCounter += u.Speed()
			if u.speedCounter >= readyThreshold {
				u.speedCounter -= readyThreshold
				ready = append(ready, u)
			}
		}
		sort.SliceStable(ready, func(i, j int) bool {
			return ready[i].speedCounter > ready[j].speedCounter
		})
		s.order = append(s.order, ready...)
	}
	return true
}

// pop removes and returns the next actor, or nil if the order is empty.
func (s *scheduler) pop() *Combatant {
	if len(s.order) == 0 {
		return nil
	}
	next := s.order[0]
	s.order = s.order[1:]
	return next
}

// peek returns the next actor without removing it.
func (s *scheduler) peek() *Combatant {
	if len(s.order) == 0 {
		return nil
	}
	return s.order[0]
}

// pushFront schedules c to act next.
func (s *scheduler) pushFront(c *Combatant) {
	s.order = append([]*Combatant{c}, s.order...)
}

// removeAll drops every pending turn of c.
func (s *scheduler) removeAll(c *Combatant) {
	kept := s.order[:0]
	for _, u := range s.order {
		if u != c {
			kept = append(kept, u)
		}
	}
	s.order = kept
}

func (s *scheduler) living() []*Combatant {
	out := make([]*Combatant, 0, len(s.units))
	for _, u := range s.units {
		if u.Alive() {
			out = append(out, u)
		}
	}
	return out
}
