package unit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Move is one of a unit's four authored options.
type Move struct {
	Name     string
	Energy   int
	Cooldown int
	Target   TargetType
	Actions  []Action
}

// AttackPower returns the power of the first Damage action, or 0.
func (m *Move) AttackPower() int {
	for _, a := range m.Actions {
		if d, ok := a.(Damage); ok {
			return d.Power
		}
	}
	return 0
}

// Describe renders the move's actions as player-facing prose.
//
// Status applications are grouped per target type and reported once, at the
// position of the first ApplyStatus action.
func (m *Move) Describe() string {
	var sb strings.Builder
	statusDone := false
	for _, a := range m.Actions {
		switch act := a.(type) {
		case Damage:
			fmt.Fprintf(&sb, "Deals %s %s damage to %s. ", damageWord(act.Power), act.Type, act.On.Phrase())
		case ApplyStatus:
			if !statusDone {
				sb.WriteString(m.describeStatuses())
				statusDone = true
			}
		case ExtraTurn:
			fmt.Fprintf(&sb, "Gives extra turn to %s. ", act.On.Phrase())
		case RemoveEffects:
			fmt.Fprintf(&sb, "Removes %s status effects from %s. ", act.Polarity, act.On.Phrase())
		case Heal:
			fmt.Fprintf(&sb, "%s %s by %s%%. ", healVerb(act.HealType), act.On.Phrase(), percent(act.Percent))
		case Revive:
			end := ""
			if act.ArmorPercent > 0 {
				end = fmt.Sprintf(" and %s%% armor", percent(act.ArmorPercent))
			}
			fmt.Fprintf(&sb, "Revives %s with %s%% health%s. ", act.On.Phrase(), percent(act.HealthPercent), end)
		}
	}
	return strings.TrimSpace(sb.String())
}

func (m *Move) describeStatuses() string {
	var order []TargetType
	names := make(map[TargetType][]string)
	for _, a := range m.Actions {
		as, ok := a.(ApplyStatus)
		if !ok {
			continue
		}
		if _, seen := names[as.On]; !seen {
			order = append(order, as.On)
		}
		names[as.On] = append(names[as.On], strings.ToLower(as.Effect.Name))
	}
	var sb strings.Builder
	for _, t := range order {
		fmt.Fprintf(&sb, "Applies %s to %s. ", joinList(names[t]), t.Phrase())
	}
	return sb.String()
}

func damageWord(power int) string {
	switch {
	case power > 50:
		return "very heavy"
	case power > 40:
		return "heavy"
	case power > 20:
		return "moderate"
	default:
		return "light"
	}
}

func healVerb(h HealthType) string {
	switch h {
	case ArmorOnly:
		return "Restores armor of"
	case HealthOnly:
		return "Restores health of"
	default:
		return "Restores combined health of"
	}
}

// percent formats a fraction as a percentage without float noise (0.3 → "30").
func percent(f float64) string {
	return strconv.FormatFloat(math.Round(f*10000)/100, 'f', -1, 64)
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
