package levels

// defaultTiers returns the six CEFR tiers from beginner to proficient.
func defaultTiers() []Tier {
	return []Tier{
		{Code: "A1", Order: 1, DisplayName: "Beginner"},
		{Code: "A2", Order: 2, DisplayName: "Elementary"},
		{Code: "B1", Order: 3, DisplayName: "Intermediate"},
		{Code: "B2", Order: 4, DisplayName: "Upper Intermediate"},
		{Code: "C1", Order: 5, DisplayName: "Advanced"},
		{Code: "C2", Order: 6, DisplayName: "Proficient"},
	}
}

func init() {
	t = buildTable(defaultTiers())
}
