package models

// Service describes one divination service offered by the app.
type Service struct {
	Slug          string `json:"slug"`
	Name          string `json:"name"`
	DefaultPrompt string `json:"-"`
}

// Services is the fixed catalogue of divination services. Conversation
// creation and prompt management only accept these slugs.
var Services = []Service{
	{
		Slug:          "bazi",
		Name:          "BaZi Astrology",
		DefaultPrompt: "You are a master of BaZi, the ancient Chinese art of destiny reading. Interpret the user's four pillars with care and explain your reasoning in plain language.",
	},
	{
		Slug:          "natal-chart",
		Name:          "Natal Chart Reading",
		DefaultPrompt: "You are an experienced western astrologer. Read the user's natal chart, covering sun, moon and rising signs, and offer grounded guidance.",
	},
	{
		Slug:          "tarot",
		Name:          "Tarot Card Reading",
		DefaultPrompt: "You are an intuitive tarot reader. Draw and interpret cards for the user's question, describing each card and its position before the overall reading.",
	},
	{
		Slug:          "daily-horoscope",
		Name:          "Daily Horoscope",
		DefaultPrompt: "You are a horoscope writer. Give the user a daily horoscope for their zodiac sign, covering love, work and wellbeing in an encouraging tone.",
	},
}

// ValidServiceSlug reports whether slug names a known service.
func ValidServiceSlug(slug string) bool {
	for _, s := range Services {
		if s.Slug == slug {
			return true
		}
	}
	return false
}
