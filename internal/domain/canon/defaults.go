package canon

// DefaultStopwords are name particles ignored when comparing names.
func DefaultStopwords() []string {
	return []string{"de", "del", "da", "dos", "van", "von", "el", "la", "le", "du", "di", "mc", "mac"}
}

// DefaultAliases maps known nicknames to the name used by the other source.
func DefaultAliases() map[string]string {
	return map[string]string{
		"taty":        "castellanos",
		"dodo":        "domilson",
		"yellu":       "santiago",
		"vanja":       "milinkovic",
		"christian":   "kouame",
		"pulisic":     "christian",
		"politano":    "matteo",
		"zaccagni":    "mattia",
		"orsolini":    "riccardo",
		"tramoni":     "matteo",
		"gudmundsson": "albert",
		"ketelaere":   "charles",
		"neres":       "david",
		"vlasic":      "nikola",
		"baturina":    "martin",
	}
}

// DefaultTeamAliases lists Serie A clubs and the names they go by.
func DefaultTeamAliases() map[string][]string {
	return map[string][]string{
		"atalanta":   {"atalanta", "bergamo"},
		"bologna":    {"bologna", "felsinea"},
		"cagliari":   {"cagliari", "sardegna"},
		"como":       {"como", "lario"},
		"empoli":     {"empoli", "azzurri"},
		"fiorentina": {"fiorentina", "viola", "firenze"},
		"genoa":      {"genoa", "grifone", "liguria"},
		"inter":      {"inter", "internazionale", "milano", "nerazzurri"},
		"juventus":   {"juventus", "juve", "bianconeri", "torino"},
		"lazio":      {"lazio", "biancocelesti", "roma"},
		"lecce":      {"lecce", "salentini", "puglia"},
		"milan":      {"milan", "rossoneri", "milano"},
		"monza":      {"monza", "brianza"},
		"napoli":     {"napoli", "azzurri", "partenopei"},
		"parma":      {"parma", "ducali", "emilia"},
		"roma":       {"roma", "giallorossi", "capitale"},
		"torino":     {"torino", "granata"},
		"udinese":    {"udinese", "friuli", "bianconeri"},
		"venezia":    {"venezia", "lagunari"},
		"verona":     {"verona", "scaligeri", "hellas"},
	}
}
