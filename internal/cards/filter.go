package cards

import "strings"

// TeamFilter narrows the team table. Empty fields match everything.
type TeamFilter struct {
	Groups    []string `json:"groups"`
	FreeWords string   `json:"freeWords"`
}

// Teams returns every team in catalog order.
func (c *Catalog) Teams() []TeamInfo {
	var out []TeamInfo
	for _, g := range c.Groups {
		out = append(out, g.Teams...)
	}
	return out
}

// FilterTeams applies opt to the team table.
func (c *Catalog) FilterTeams(opt TeamFilter) []TeamInfo {
	out := []TeamInfo{}
	kw := strings.Fields(strings.ToLower(opt.FreeWords))
	for _, t := range c.Teams() {
		if len(opt.Groups) > 0 {
			matched := false
			for _, g := range opt.Groups {
				if strings.EqualFold(strings.TrimSpace(g), t.Group) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		ok := true
		for _, k := range kw {
			if !strings.Contains(strings.ToLower(t.Name), k) && !strings.Contains(strings.ToLower(t.Logo), k) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

// FindTeam looks a team up by name, ignoring case and surrounding space.
func (c *Catalog) FindTeam(name string) (TeamInfo, bool) {
	name = strings.TrimSpace(name)
	for _, t := range c.Teams() {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return TeamInfo{}, false
}

// TeamsByColor returns the teams of one color group.
func (c *Catalog) TeamsByColor(group string) []TeamInfo {
	return c.FilterTeams(TeamFilter{Groups: []string{group}})
}

// ColorHex resolves a color group key to its hex value. A value that is already a
// hex color passes through; anything unknown falls back to DefaultColor.
func (c *Catalog) ColorHex(group string) string {
	group = strings.TrimSpace(group)
	if strings.HasPrefix(group, "#") {
		return group
	}
	for _, g := range c.Groups {
		if strings.EqualFold(g.Key, group) {
			return g.Color
		}
	}
	return DefaultColor
}

// IsSport reports whether s is one of the supported sports.
func (c *Catalog) IsSport(s string) bool {
	s = strings.TrimSpace(s)
	for _, sp := range c.Sports {
		if strings.EqualFold(sp, s) {
			return true
		}
	}
	return false
}

// LoadingMessage returns the i-th loading message, wrapping around.
func (c *Catalog) LoadingMessage(i int) string {
	n := len(c.LoadingMessages)
	if n == 0 {
		return ""
	}
	i %= n
	if i < 0 {
		i += n
	}
	return c.LoadingMessages[i]
}

// SpecialProperty looks a special property up by id. "none" and "" yield false.
func (c *Catalog) SpecialProperty(id string) (SpecialProperty, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" || id == "none" {
		return SpecialProperty{}, false
	}
	for _, p := range c.SpecialProperties {
		if p.ID == id {
			return p, true
		}
	}
	return SpecialProperty{}, false
}
