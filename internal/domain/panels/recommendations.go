package panels

type Remedy struct {
	Title      string `json:"title"`
	Reason     string `json:"reason"`
	Benefit    string `json:"benefit"`
	ReliefTime string `json:"reliefTime"`
}

type DietPlan struct {
	Title  string   `json:"title"`
	Items  []string `json:"items"`
	Target string   `json:"target"`
}

type Practice struct {
	Title     string `json:"title"`
	Duration  string `json:"duration"`
	Intensity string `json:"intensity"`
	Focus     string `json:"focus"`
}

type Recommendations struct {
	Remedies []Remedy   `json:"remedies"`
	Diet     []DietPlan `json:"diet"`
	Yoga     []Practice `json:"yoga"`
}

func DefaultRecommendations() Recommendations {
	return Recommendations{
		Remedies: []Remedy{
			{Title: "Ginger & Turmeric Infusion", Reason: "Based on digestive signals", Benefit: "Anti-inflammatory & Digestive Aid", ReliefTime: "2-4 hours"},
			{Title: "Eucalyptus Inhalation", Reason: "Respiratory optimization", Benefit: "Clears sinus & lung passages", ReliefTime: "15 minutes"},
		},
		Diet: []DietPlan{
			{Title: "High Magnesium Protocol", Items: []string{"Spinach", "Pumpkin Seeds", "Dark Chocolate"}, Target: "Muscle recovery & Sleep quality"},
			{Title: "Alkaline Evening Meal", Items: []string{"Roasted Cauliflower", "Quinoa", "Avocado"}, Target: "Acid reflux prevention"},
		},
		Yoga: []Practice{
			{Title: "Pranayama (Breathwork)", Duration: "10 mins", Intensity: "Low", Focus: "Vagus nerve stimulation"},
			{Title: "Surya Namaskar", Duration: "15 mins", Intensity: "Moderate", Focus: "Total body mobility"},
		},
	}
}
