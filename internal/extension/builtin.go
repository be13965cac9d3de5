package extension

// propertyIntExtensions names the enum that interprets the value of an
// integer property.
var propertyIntExtensions = map[string]string{
	"ItemType":               "ItemType",
	"CreatureType":           "CreatureType",
	"PaletteTemplate":        "PaletteTemplate",
	"ClothingPriority":       "CoverageMask",
	"ValidLocations":         "EquipMask",
	"CurrentWieldedLocation": "EquipMask",
	"ItemUseable":            "Usable",
	"UiEffects":              "UiEffects",
	"ShowableOnRadar":        "RadarBehavior",
	"PhysicsState":           "PhysicsState",
	"AttackType":             "AttackType",
	"DamageType":             "DamageType",
	"WeaponSkill":            "Skill",
	"WieldRequirements":      "WieldRequirement",
	"Gender":                 "Gender",
	"HeritageGroup":          "HeritageGroup",
	"CombatMode":             "CombatMode",
	"MaterialType":           "MaterialType",
	"AmmoType":               "AmmoType",
	"CombatUse":              "CombatUse",
	"Placement":              "Placement",
	"ArmorType":              "ArmorType",
	"AccountRequirements":    "SubscriptionStatus",
	"HookType":               "HookType",
	"HookPlacement":          "Placement",
	"PortalBitmask":          "PortalBitmask",
	"RadarBlipColor":         "RadarColor",
	"PlayerKillerStatus":     "PlayerKillerStatus",
	"AetheriaBitfield":       "AetheriaBitfield",
	"EquipmentSetId":         "EquipmentSet",
}

// propertyDataIDExtensions names the portal file type a data id refers to.
var propertyDataIDExtensions = map[string]string{
	"Setup":                 "SetupModel",
	"MotionTable":           "MotionTable",
	"SoundTable":            "SoundTable",
	"CombatTable":           "CombatManeuverTable",
	"QualityFilter":         "QualityFilter",
	"PaletteBase":           "Palette",
	"ClothingBase":          "ClothingTable",
	"Icon":                  "Texture",
	"IconOverlay":           "Texture",
	"IconOverlaySecondary":  "Texture",
	"IconUnderlay":          "Texture",
	"EyesTexture":           "Texture",
	"NoseTexture":           "Texture",
	"MouthTexture":          "Texture",
	"DefaultEyesTexture":    "Texture",
	"DefaultNoseTexture":    "Texture",
	"DefaultMouthTexture":   "Texture",
	"HairPalette":           "Palette",
	"EyesPalette":           "Palette",
	"SkinPalette":           "Palette",
	"PhysicsEffectTable":    "PhysicsScriptTable",
	"UseUserAnimation":      "MotionCommand",
	"Spell":                 "SpellId",
	"Spellbook":             "SpellId",
	"ProcSpell":             "SpellId",
	"AugmentationStat":      "AugmentationType",
	"Wcid":                  "WeenieClassName",
	"InventoryTreasureData": "TreasureDeath",
	"DeathTreasureType":     "TreasureDeath",
	"WieldedTreasureType":   "TreasureWielded",
}

// builtinTables lists the built-in mappings by table name.
func builtinTables() map[string]map[string]string {
	return map[string]map[string]string{
		"PropertyInt":    propertyIntExtensions,
		"PropertyDataId": propertyDataIDExtensions,
	}
}
