package combat

import "fmt"

// Choice is a move selection: an option slot and a primary target index.
type Choice struct {
	Slot   int
	Target int
}

// Selector picks moves for the actor of a battle awaiting selection.
type Selector interface {
	Choose(b *Battle) (Choice, error)
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(b *Battle) (Choice, error)

// Choose calls f(b).
func (f SelectorFunc) Choose(b *Battle) (Choice, error) { return f(b) }

// FirstUsable picks the first usable move with its first legal target, or
// cooldown recovery when no move is usable.
var FirstUsable = SelectorFunc(func(b *Battle) (Choice, error) {
	for _, opt := range b.MoveOptions() {
		if !opt.Usable {
			continue
		}
		targets := b.LegalTargets(opt.Slot)
		if len(targets) == 0 {
			if opt.Target.NeedsTarget() {
				continue
			}
			return Choice{Slot: opt.Slot, Target: NoTarget}, nil
		}
		return Choice{Slot: opt.Slot, Target: targets[0]}, nil
	}
	return Choice{}, fmt.Errorf("no usable option for %s", b.Actor().Name())
})

// Autoplay drives b to completion, asking the selector registered for the
// actor's side for every move. maxTurns bounds the number of turns played by
// this call, counted from b's turn on entry, so a restored battle gets the
// full allowance; zero means unbounded.
//
// Postcondition: returns nil only when b is over.
func Autoplay(b *Battle, selectors map[Side]Selector, maxTurns int) error {
	start := b.Turn()
	for !b.Over() {
		if maxTurns > 0 && b.Turn()-start >= maxTurns {
			return fmt.Errorf("%w: %d", ErrTurnLimit, maxTurns)
		}
		actor := b.Actor()
		sel, ok := selectors[actor.Side]
		if !ok {
			return fmt.Errorf("no selector for side %s", actor.Side)
		}
		choice, err := sel.Choose(b)
		if err != nil {
			return fmt.Errorf("choosing move for %s: %w", actor.Name(), err)
		}
		if err := b.SubmitMove(choice.Slot, choice.Target); err != nil {
			return fmt.Errorf("submitting move for %s: %w", actor.Name(), err)
		}
	}
	return nil
}
