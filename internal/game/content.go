package game

type Theme struct {
	Name      string
	Questions []string
}

// Catalog supplies discussion themes. Each round consumes one theme and its
// first question.
type Catalog interface {
	Themes() ([]Theme, error)
}

type StaticCatalog []Theme

func (c StaticCatalog) Themes() ([]Theme, error) {
	return c, nil
}

func DefaultCatalog() StaticCatalog {
	return StaticCatalog{
		{
			Name: "Dream Vacation",
			Questions: []string{
				"What's the first thing you would do after arriving?",
				"Describe one thing you would pack that isn't clothes.",
				"What kind of music would be on your vacation playlist?",
			},
		},
		{
			Name: "A Dinner Party",
			Questions: []string{
				"What's one dish you would bring to the party?",
				"Who is one person, living or dead, you would invite?",
				"What's a topic you would definitely avoid talking about?",
			},
		},
		{
			Name: "Surviving a Zombie Apocalypse",
			Questions: []string{
				"What is your chosen weapon?",
				"What is your first priority: finding shelter or finding supplies?",
				"Who in this chat would be the first to get bitten?",
			},
		},
		{
			Name: "Your Perfect Superpower",
			Questions: []string{
				"What's the biggest drawback to your superpower?",
				"How would you use your power for a mundane, everyday task?",
				"What would your superhero name be?",
			},
		},
	}
}

// PickTheme returns a random theme with at least one question and that
// question.
func PickTheme(catalog Catalog, rng Rand) (string, string, error) {
	themes, err := catalog.Themes()
	if err != nil {
		return "", "", err
	}
	usable := make([]Theme, 0, len(themes))
	for _, theme := range themes {
		if len(theme.Questions) > 0 {
			usable = append(usable, theme)
		}
	}
	if len(usable) == 0 {
		return "", "", ErrNoThemes
	}
	theme := usable[rng.IntN(len(usable))]
	return theme.Name, theme.Questions[0], nil
}
