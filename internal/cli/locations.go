package cli

import "github.com/prash240303/Globetrotter/internal/domain"

// sampleLocations provides the starter catalog; swap in a curated dataset
// for production deployments.
func sampleLocations() []domain.Location {
	return []domain.Location{
		{
			ID:     1,
			Name:   "New York City",
			Nation: "United States",
			Clues: []string{
				"Often referred to as 'The Big Apple'",
				"Home to a famous green statue in the harbor",
			},
			FunFacts: []string{
				"The subway system has over 470 stations, the most in the world",
				"Before 1904, Times Square was called Longacre Square",
			},
			Trivia: []string{
				"The Empire State Building was the tallest building in the world for nearly 40 years",
				"More than 800 languages are spoken in this city, making it the most linguistically diverse in the world",
			},
		},
		{
			ID:     2,
			Name:   "Tokyo",
			Nation: "Japan",
			Clues: []string{
				"World's largest metropolitan area by population",
				"Famous for its cherry blossoms and technology districts",
			},
			FunFacts: []string{
				"Was previously known as Edo until 1868",
				"Has over 12,000 automated vending machines throughout the city",
			},
			Trivia: []string{
				"The Tsukiji fish market handles over 2,000 tons of seafood daily",
				"Contains over 100 universities and colleges",
			},
		},
		{
			ID:     3,
			Name:   "Paris",
			Nation: "France",
			Clues: []string{
				"Known worldwide as the 'City of Love'",
				"Famous for its iron lattice tower visible throughout the city",
			},
			FunFacts: []string{
				"The Eiffel Tower was built for the 1889 World's Fair and was meant to be temporary",
				"Has more than 470 parks and gardens within the city limits",
			},
			Trivia: []string{
				"The Louvre museum would take approximately 100 days to see every piece of art",
				"There are over 6,100 streets in this city",
			},
		},
		{
			ID:     4,
			Name:   "Cairo",
			Nation: "Egypt",
			Clues: []string{
				"The largest city in Africa and the Middle East",
				"Located near some of the world's most famous ancient monuments",
			},
			FunFacts: []string{
				"Known as 'The City of a Thousand Minarets' due to its Islamic architecture",
				"The metro system is one of only two in Africa",
			},
			Trivia: []string{
				"The city was founded in 969 CE",
				"Ancient pyramids are visible from certain tall buildings in the city",
			},
		},
		{
			ID:     5,
			Name:   "Sydney",
			Nation: "Australia",
			Clues: []string{
				"Famous for its distinctive opera house designed to look like sails",
				"Built around one of the world's largest natural harbors",
			},
			FunFacts: []string{
				"The iconic Opera House has over one million roof tiles",
				"The Sydney Harbour Bridge is nicknamed 'The Coathanger'",
			},
			Trivia: []string{
				"The city has over 100 beaches including the famous Bondi Beach",
				"It was founded as a British penal colony in 1788",
			},
		},
	}
}
