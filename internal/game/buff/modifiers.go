package buff

// FirstBonus returns the value of the first effect on stat, scanning buffs in
// list order and effects in declaration order. Multiple buffs on the same stat
// do not add up; only the first match counts.
//
// Postcondition: Returns 0 when no active buff affects stat.
func FirstBonus(s *ActiveSet, stat Stat) int {
	if s == nil {
		return 0
	}
	for _, b := range s.buffs {
		for _, e := range b.Def.Effects {
			if e.Stat == stat {
				return e.Value
			}
		}
	}
	return 0
}

// AttackBonus returns the flat damage bonus from the first attack buff.
func AttackBonus(s *ActiveSet) int { return FirstBonus(s, StatAttack) }

// DefenseBonus returns the flat damage reduction from the first defense buff.
func DefenseBonus(s *ActiveSet) int { return FirstBonus(s, StatDefense) }

// DominanceBonus returns the bonus from the first dominance buff.
func DominanceBonus(s *ActiveSet) int { return FirstBonus(s, StatDominance) }
