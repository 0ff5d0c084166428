// Package item defines the tagged item variants carried by characters and
// rooms: mundane gear, weapons, armor, and the magic item families. Each
// variant answers the same small contract (name, weight, kind); everything
// else is resolved by a type switch at the point of use.
package item

// Kind tags an item variant for dispatch and serialization.
type Kind string

const (
	KindGear        Kind = "gear"
	KindWeapon      Kind = "weapon"
	KindArmor       Kind = "armor"
	KindShield      Kind = "shield"
	KindLightSource Kind = "light_source"
	KindPotion      Kind = "potion"
	KindScroll      Kind = "scroll"
	KindRing        Kind = "ring"
	KindWand        Kind = "wand"
	KindStaff       Kind = "staff"
	KindMiscMagic   Kind = "misc_magic"
)

// GearType classifies mundane gear.
type GearType string

const (
	GearEquipment  GearType = "equipment"
	GearConsumable GearType = "consumable"
	GearTreasure   GearType = "treasure"
	GearContainer  GearType = "container"
)

// ArmorWeightClass buckets armor by bulk for movement caps.
type ArmorWeightClass string

const (
	ArmorLight     ArmorWeightClass = "light"
	ArmorHeavy     ArmorWeightClass = "heavy"
	ArmorVeryHeavy ArmorWeightClass = "very_heavy"
)

// ScrollType distinguishes protection scrolls from spell scrolls.
type ScrollType string

const (
	ScrollProtection ScrollType = "protection"
	ScrollSpell      ScrollType = "spell"
)

// Item is the uniform contract every variant satisfies. Weight is measured in
// gold-piece weight units.
type Item interface {
	ItemName() string
	ItemWeight() int
	Kind() Kind
}

// Base carries the fields shared by every item variant.
type Base struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

// ItemName returns the display name.
func (b Base) ItemName() string { return b.Name }

// ItemWeight returns the weight in gold-piece units.
func (b Base) ItemWeight() int { return b.Weight }

// Gear is a mundane item with no mechanical behavior beyond its type tag.
type Gear struct {
	Base
	Type  GearType `json:"type"`
	Value int      `json:"value,omitempty"` // sale value in gold pieces
}

func (*Gear) Kind() Kind { return KindGear }

// Weapon is a melee or missile weapon.
type Weapon struct {
	Base
	// DamageSM is the damage dice against small and medium targets.
	DamageSM string `json:"damage_sm"`
	// DamageL is the damage dice against large targets.
	DamageL string `json:"damage_l"`
	// SpeedFactor is the initiative drag of the weapon, 1 (fast) to 10 (slow).
	SpeedFactor int `json:"speed_factor"`
	// MagicBonus is the enchantment plus applied to hit and damage.
	MagicBonus int `json:"magic_bonus,omitempty"`
	// Special is an optional special-property tag (flame_tongue, frost_brand,
	// dragon_slayer, vs_lycanthropes, ...).
	Special string `json:"special,omitempty"`
}

func (*Weapon) Kind() Kind { return KindWeapon }

// DamageDiceFor returns the damage expression for a defender of the given
// size letter ("S", "M", or "L").
//
// Postcondition: Returns DamageL for "L", DamageSM otherwise.
func (w *Weapon) DamageDiceFor(size string) string {
	if size == "L" && w.DamageL != "" {
		return w.DamageL
	}
	return w.DamageSM
}

// Armor is body armor. BaseAC is the descending armor class granted when worn
// (lower is better); MagicBonus improves it further.
type Armor struct {
	Base
	BaseAC      int              `json:"base_ac"`
	MagicBonus  int              `json:"magic_bonus,omitempty"`
	WeightClass ArmorWeightClass `json:"weight_class"`
}

func (*Armor) Kind() Kind { return KindArmor }

// Shield improves AC by ACBonus when equipped alongside armor.
type Shield struct {
	Base
	ACBonus    int `json:"ac_bonus"`
	MagicBonus int `json:"magic_bonus,omitempty"`
}

func (*Shield) Kind() Kind { return KindShield }

// LightSource burns down one turn at a time while equipped.
type LightSource struct {
	Base
	// BurnTurns is the remaining burn time in turns; 0 means exhausted.
	BurnTurns int `json:"burn_turns"`
	// Radius is the light radius in feet.
	Radius int `json:"radius"`
}

func (*LightSource) Kind() Kind { return KindLightSource }

// IsLit reports whether the source still burns.
func (l *LightSource) IsLit() bool { return l.BurnTurns > 0 }

// Potion applies its effect once and is consumed.
type Potion struct {
	Base
	Effect string `json:"effect"`
	// Power is the effect's dice expression or flat value, effect-specific.
	Power string `json:"power,omitempty"`
	// DurationTurns is 0 for instantaneous effects.
	DurationTurns int `json:"duration_turns,omitempty"`
}

func (*Potion) Kind() Kind { return KindPotion }

// Scroll is either a protection scroll or a scribed spell.
type Scroll struct {
	Base
	Type ScrollType `json:"scroll_type"`
	// Payload is the protection tag or the scribed spell name.
	Payload string `json:"payload"`
}

func (*Scroll) Kind() Kind { return KindScroll }

// Ring is a continuous or activated magic ring.
type Ring struct {
	Base
	Effect     string `json:"effect"`
	Continuous bool   `json:"continuous"`
	// Chargeable rings consume Charges on activation; at 0 the ring stays but
	// cannot activate.
	Chargeable bool `json:"chargeable,omitempty"`
	Charges    int  `json:"charges,omitempty"`
	Cursed     bool `json:"cursed,omitempty"`
}

func (*Ring) Kind() Kind { return KindRing }

// Wand holds charges of a single stored effect.
type Wand struct {
	Base
	Effect  string `json:"effect"`
	Power   string `json:"power,omitempty"`
	Charges int    `json:"charges"`
}

func (*Wand) Kind() Kind { return KindWand }

// Staff holds charges of a single stored effect.
type Staff struct {
	Base
	Effect  string `json:"effect"`
	Power   string `json:"power,omitempty"`
	Charges int    `json:"charges"`
}

func (*Staff) Kind() Kind { return KindStaff }

// MiscMagic covers the catch-all magic item category.
type MiscMagic struct {
	Base
	Type    string `json:"type"`
	Effect  string `json:"effect,omitempty"`
	Charges int    `json:"charges,omitempty"`
}

func (*MiscMagic) Kind() Kind { return KindMiscMagic }

// IsMagical reports whether an item carries an enchantment: any magic item
// kind, or arms and armor with a bonus.
func IsMagical(it Item) bool {
	switch v := it.(type) {
	case *Weapon:
		return v.MagicBonus > 0
	case *Armor:
		return v.MagicBonus > 0
	case *Shield:
		return v.MagicBonus > 0
	case *Potion, *Scroll, *Ring, *Wand, *Staff, *MiscMagic:
		return true
	default:
		return false
	}
}
