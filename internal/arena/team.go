package arena

// CannonAuthor tags projectiles fired by the turret.
const CannonAuthor = "cannon"

// TeamTable maps a projectile author or tank name to its team. An author
// never damages a tank on the same non-empty team.
type TeamTable map[string]string

// DefaultTeams is the player on one team and the lettered AI tanks on another.
// The turret belongs to no team and can hit anyone.
func DefaultTeams() TeamTable {
	return TeamTable{
		playerName:   "player",
		"A":          "ai",
		"B":          "ai",
		"C":          "ai",
		CannonAuthor: "",
	}
}

// Exempt reports whether a projectile by author leaves target unharmed.
func (t TeamTable) Exempt(author, target string) bool {
	if author == target {
		return true
	}
	team := t[author]
	return team != "" && team == t[target]
}
