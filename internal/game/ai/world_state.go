package ai

import "github.com/cory-johannsen/botbattle/internal/scripting"

// Target tokens accepted by Operator.Target.
const (
	TargetWeakestEnemy   = "weakest_enemy"
	TargetStrongestEnemy = "strongest_enemy"
	TargetFirstEnemy     = "first_enemy"
	TargetSelf           = "self"
	TargetWeakestAlly    = "weakest_ally"
	TargetDeadAlly       = "dead_ally"
	TargetNone           = "none"
)

var targetTokens = map[string]bool{
	TargetWeakestEnemy:   true,
	TargetStrongestEnemy: true,
	TargetFirstEnemy:     true,
	TargetSelf:           true,
	TargetWeakestAlly:    true,
	TargetDeadAlly:       true,
	TargetNone:           true,
	"":                   true,
}

// UnitState captures one combatant's state at planning time.
type UnitState struct {
	Index    int
	Name     string
	Side     string
	HP       int
	MaxHP    int
	Armor    int
	MaxArmor int
	Energy   int
	Capacity int
	Dead     bool
	Effects  []string
}

// Pool returns current health plus armor.
func (u *UnitState) Pool() int { return u.HP + u.Armor }

// PoolPercent returns Pool as a percentage of max health plus max armor; 0 if both maxima are 0.
func (u *UnitState) PoolPercent() float64 {
	total := u.MaxHP + u.MaxArmor
	if total <= 0 {
		return 0
	}
	return float64(u.Pool()) / float64(total) * 100
}

// WorldState is the snapshot passed to the HTN planner for the acting unit.
//
// Invariant: Self must not be nil and must appear in Units.
type WorldState struct {
	Self  *UnitState
	Units []*UnitState // roster order
}

// Enemies returns the living units not on Self's side.
//
// Postcondition: returned slice contains no dead units.
func (ws *WorldState) Enemies() []*UnitState {
	var out []*UnitState
	for _, u := range ws.Units {
		if !u.Dead && u.Side != ws.Self.Side {
			out = append(out, u)
		}
	}
	return out
}

// Allies returns the living units on Self's side, Self included.
func (ws *WorldState) Allies() []*UnitState {
	var out []*UnitState
	for _, u := range ws.Units {
		if !u.Dead && u.Side == ws.Self.Side {
			out = append(out, u)
		}
	}
	return out
}

// DeadAllies returns the dead units on Self's side.
func (ws *WorldState) DeadAllies() []*UnitState {
	var out []*UnitState
	for _, u := range ws.Units {
		if u.Dead && u.Side == ws.Self.Side {
			out = append(out, u)
		}
	}
	return out
}

// weakest returns the unit with the lowest pool percentage; ties keep roster order.
func weakest(units []*UnitState) *UnitState {
	if len(units) == 0 {
		return nil
	}
	best := units[0]
	for _, u := range units[1:] {
		if u.PoolPercent() < best.PoolPercent() {
			best = u
		}
	}
	return best
}

// strongest returns the unit with the highest absolute pool; ties keep roster order.
func strongest(units []*UnitState) *UnitState {
	if len(units) == 0 {
		return nil
	}
	best := units[0]
	for _, u := range units[1:] {
		if u.Pool() > best.Pool() {
			best = u
		}
	}
	return best
}

// ResolveTarget maps a target token to a roster index.
//
// Precondition: ws.Self must not be nil.
// Postcondition: "none" and "" resolve to (-1, true); a token naming a unit
// that does not exist, or an unknown token, resolves to (-1, false).
func (ws *WorldState) ResolveTarget(token string) (int, bool) {
	var u *UnitState
	switch token {
	case "", TargetNone:
		return -1, true
	case TargetSelf:
		u = ws.Self
	case TargetWeakestEnemy:
		u = weakest(ws.Enemies())
	case TargetStrongestEnemy:
		u = strongest(ws.Enemies())
	case TargetFirstEnemy:
		if e := ws.Enemies(); len(e) > 0 {
			u = e[0]
		}
	case TargetWeakestAlly:
		u = weakest(ws.Allies())
	case TargetDeadAlly:
		if d := ws.DeadAllies(); len(d) > 0 {
			u = d[0]
		}
	}
	if u == nil {
		return -1, false
	}
	return u.Index, true
}

// scriptView exposes a WorldState to Lua through scripting.StateProvider.
type scriptView struct{ ws *WorldState }

func (v scriptView) Actor() *scripting.UnitInfo { return toInfo(v.ws.Self) }

func (v scriptView) Units() []*scripting.UnitInfo {
	out := make([]*scripting.UnitInfo, len(v.ws.Units))
	for i, u := range v.ws.Units {
		out[i] = toInfo(u)
	}
	return out
}

func toInfo(u *UnitState) *scripting.UnitInfo {
	if u == nil {
		return nil
	}
	return &scripting.UnitInfo{
		Index:    u.Index,
		Name:     u.Name,
		Side:     u.Side,
		HP:       u.HP,
		MaxHP:    u.MaxHP,
		Armor:    u.Armor,
		MaxArmor: u.MaxArmor,
		Energy:   u.Energy,
		Capacity: u.Capacity,
		Dead:     u.Dead,
		Effects:  append([]string(nil), u.Effects...),
	}
}
