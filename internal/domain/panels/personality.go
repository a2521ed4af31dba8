package panels

// FallbackInsight is shown when the gateway cannot produce a forecast.
const FallbackInsight = "Your optimized diet is currently fueling a high-focus state. Expect peak cognitive resonance for the next 4 hours."

type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
	Trend string `json:"trend"`
}

type Trait struct {
	Label      string `json:"label"`
	Percentage int    `json:"percentage"`
}

type EnergyPoint struct {
	Time  string `json:"time"`
	Level int    `json:"level"`
}

type Personality struct {
	BrainEfficiency int           `json:"brainEfficiency"`
	Insight         string        `json:"insight"`
	InsightFallback bool          `json:"insightFallback"`
	Skills          []Skill       `json:"skills"`
	Traits          []Trait       `json:"traits"`
	Energy          []EnergyPoint `json:"energy"`
}

// NewPersonality assembles the growth panel around insight; blank insight
// uses FallbackInsight.
func NewPersonality(insight string) Personality {
	p := Personality{
		BrainEfficiency: 88,
		Insight:         insight,
		Skills: []Skill{
			{Name: "Emotional Intelligence", Level: 85, Trend: "+2.4%"},
			{Name: "Focus & Attention", Level: 72, Trend: "+1.1%"},
			{Name: "Communication Flow", Level: 64, Trend: "-0.5%"},
			{Name: "Strategic Thinking", Level: 91, Trend: "+4.8%"},
		},
		Traits: []Trait{
			{Label: "Openness", Percentage: 78},
			{Label: "Conscientiousness", Percentage: 92},
			{Label: "Extraversion", Percentage: 45},
			{Label: "Agreeableness", Percentage: 82},
			{Label: "Resilience", Percentage: 88},
		},
		Energy: []EnergyPoint{
			{"06:00", 60}, {"09:00", 95}, {"12:00", 85},
			{"15:00", 70}, {"18:00", 82}, {"21:00", 45},
		},
	}
	if p.Insight == "" {
		p.Insight = FallbackInsight
		p.InsightFallback = true
	}
	return p
}
