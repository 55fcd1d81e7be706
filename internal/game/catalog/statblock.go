package catalog

import (
	"github.com/cory-johannsen/statblock/internal/game/ability"
	"github.com/cory-johannsen/statblock/internal/game/spell"
)

// AbilityLine is one ability score as printed on a statblock.
type AbilityLine struct {
	Label    string `yaml:"label"`
	Score    int    `yaml:"score"`
	Tracked  bool   `yaml:"tracked"`
	Modifier int    `yaml:"modifier"`
}

// AttackLine is one wielded weapon's iterative attack bonuses.
type AttackLine struct {
	Name    string `yaml:"name"`
	Bonuses []int  `yaml:"bonuses"`
}

// ItemLine is one piece of equipment with its price and aura.
type ItemLine struct {
	Name        string   `yaml:"name"`
	Price       int      `yaml:"price"`
	CasterLevel int      `yaml:"caster_level,omitempty"`
	Aura        []string `yaml:"aura,omitempty"`
}

// SpellLine is one known spell.
type SpellLine struct {
	Name            string `yaml:"name"`
	Level           int    `yaml:"level"`
	DifficultyClass int    `yaml:"dc,omitempty"`
	CasterLevel     int    `yaml:"caster_level"`
}

// Summary is a flattened view of every derived statistic of a statblock.
type Summary struct {
	Name                  string        `yaml:"name"`
	Level                 int           `yaml:"level"`
	Size                  string        `yaml:"size"`
	Abilities             []AbilityLine `yaml:"abilities"`
	HitPoints             int           `yaml:"hit_points"`
	ArmorClass            int           `yaml:"armor_class"`
	Touch                 int           `yaml:"touch"`
	FlatFooted            int           `yaml:"flat_footed"`
	Fortitude             int           `yaml:"fortitude"`
	Reflex                int           `yaml:"reflex"`
	Will                  int           `yaml:"will"`
	BaseAttackBonus       int           `yaml:"base_attack_bonus"`
	CombatManeuverBonus   int           `yaml:"cmb"`
	CombatManeuverDefense int           `yaml:"cmd"`
	Attacks               []AttackLine  `yaml:"attacks,omitempty"`
	Items                 []ItemLine    `yaml:"items,omitempty"`
	Spells                []SpellLine   `yaml:"spells,omitempty"`
	Conditions            []string      `yaml:"conditions,omitempty"`
}

// Summarize computes the statblock's derived statistics.
//
// Postcondition: returns a NotSupported error when the character's size has no
// size modifiers.
func (sb *Statblock) Summarize() (Summary, error) {
	c := sb.Character
	out := Summary{
		Name:            c.Name,
		Level:           c.Level(),
		Size:            c.Size().String(),
		HitPoints:       int(c.HitPoints.Max()),
		Fortitude:       c.Fortitude.Total(),
		Reflex:          c.Reflex.Total(),
		Will:            c.Will.Total(),
		BaseAttackBonus: c.BaseAttackBonus.Total(),
	}
	for _, a := range ability.All() {
		s, err := c.Abilities.Get(a)
		if err != nil {
			return Summary{}, err
		}
		total, ok := s.Total()
		out.Abilities = append(out.Abilities, AbilityLine{
			Label:    a.Short(),
			Score:    int(total),
			Tracked:  ok,
			Modifier: s.Modifier(),
		})
	}

	var err error
	if out.ArmorClass, err = c.ArmorClass.Total(); err != nil {
		return Summary{}, err
	}
	if out.Touch, err = c.ArmorClass.TouchTotal(); err != nil {
		return Summary{}, err
	}
	if out.FlatFooted, err = c.ArmorClass.FlatFootedTotal(); err != nil {
		return Summary{}, err
	}
	if out.CombatManeuverBonus, err = c.CombatManeuverBonus.Total(); err != nil {
		return Summary{}, err
	}
	if out.CombatManeuverDefense, err = c.CombatManeuverDefense.Total(); err != nil {
		return Summary{}, err
	}

	for _, w := range sb.Weapons {
		if attack, ok := w.Attack(); ok {
			bonuses, err := attack.Attacks()
			if err != nil {
				return Summary{}, err
			}
			out.Attacks = append(out.Attacks, AttackLine{Name: w.FullName(), Bonuses: bonuses})
		}
		cl, _ := w.Enchantments().CasterLevel()
		out.Items = append(out.Items, ItemLine{
			Name:        w.FullName(),
			Price:       w.MarketPrice(),
			CasterLevel: cl,
			Aura:        schoolNames(w.Enchantments().Schools()),
		})
	}
	for _, a := range sb.Armor {
		cl, _ := a.Enchantments().CasterLevel()
		out.Items = append(out.Items, ItemLine{
			Name:        a.FullName(),
			Price:       a.MarketPrice(),
			CasterLevel: cl,
			Aura:        schoolNames(a.Enchantments().Schools()),
		})
	}
	for _, s := range sb.Spells {
		line := SpellLine{
			Name:        s.Definition().Name,
			Level:       s.Definition().Level,
			CasterLevel: int(s.EffectiveCasterLevel()),
		}
		if dc, ok := s.DifficultyClass(); ok {
			line.DifficultyClass = dc
		}
		out.Spells = append(out.Spells, line)
	}
	if sb.Conditions != nil {
		if labels := sb.Conditions.Labels(); len(labels) > 0 {
			out.Conditions = labels
		}
	}
	return out, nil
}

func schoolNames(schools []spell.School) []string {
	if len(schools) == 0 {
		return nil
	}
	names := make([]string, len(schools))
	for i, s := range schools {
		names[i] = s.String()
	}
	return names
}
