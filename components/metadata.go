package components

// String returns the display name for a Kind.
func (k Kind) String() string {
	names := KindNames()
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// KindNames returns the display names for all kinds.
// The order matches the Kind constants.
func KindNames() []string {
	return []string{"ooze", "player", "creature", "charge", "charge_cart", "floating_block", "item", "structure"}
}

// String returns the display name for a RemovalReason.
func (r RemovalReason) String() string {
	names := RemovalReasonNames()
	if int(r) < len(names) {
		return names[r]
	}
	return "unknown"
}

// RemovalReasonNames returns the display names for all removal reasons.
func RemovalReasonNames() []string {
	return []string{"none", "merged", "consumed", "killed", "exploded", "placed", "despawned"}
}

// IsLiving reports whether the kind carries a Living component.
func (k Kind) IsLiving() bool {
	return k == KindOoze || k == KindPlayer || k == KindCreature
}
