// Package item models enchantable weapons and armor: masterwork quality, enhancement
// bonuses, special abilities and the market price that results from them.
package item

// Pricing holds the gold piece constants used to price items.
type Pricing struct {
	// WeaponCoefficient multiplies the squared special ability bonus of a weapon.
	WeaponCoefficient int
	// ArmorCoefficient multiplies the squared special ability bonus of armor and shields.
	ArmorCoefficient int
	MasterworkWeapon int
	MasterworkArmor  int
}

// DefaultPricing returns the standard price constants.
func DefaultPricing() Pricing {
	return Pricing{
		WeaponCoefficient: 2000,
		ArmorCoefficient:  1000,
		MasterworkWeapon:  300,
		MasterworkArmor:   150,
	}
}
