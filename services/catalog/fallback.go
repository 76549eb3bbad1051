package catalog

import "streamhub/models"

var fallbackMovies = []models.MediaItem{
	{
		ID:           1,
		Title:        "Inception",
		PosterPath:   "/9gk7adHYeDvHkCSE2Av0N1MIHZQt.jpg",
		BackdropPath: "/s3TshRGB4iBxP2lya4SehrH6v6M.jpg",
		VoteAverage:  8.8,
		ReleaseDate:  "2010-07-16",
		Overview:     "A thief who steals corporate secrets through dream-sharing technology is given the inverse task of planting an idea into the mind of a C.E.O.",
	},
	{
		ID:           2,
		Title:        "The Dark Knight",
		PosterPath:   "/qJ2tW6WMUDux911r6m7haRef0WH.jpg",
		BackdropPath: "/nG5zmbVeY4r6GfVTJ5sX5fC7JdI.jpg",
		VoteAverage:  9.0,
		ReleaseDate:  "2008-07-18",
		Overview:     "When the menace known as the Joker wreaks havoc and chaos on the people of Gotham, Batman must accept one of the greatest psychological and physical tests of his ability to fight injustice.",
	},
	{
		ID:           3,
		Title:        "Interstellar",
		PosterPath:   "/gEU2QniE6E77NI6lCU6MxlNBvIx.jpg",
		BackdropPath: "/xJHokMbljvjADYdit5fK5VQsXEG.jpg",
		VoteAverage:  8.6,
		ReleaseDate:  "2014-11-07",
		Overview:     "A team of explorers travel through a wormhole in space in an attempt to ensure humanity's survival.",
	},
	{
		ID:           4,
		Title:        "The Matrix",
		PosterPath:   "/f89U1ADr1oiT1k9EeLlk9JVgP9n.jpg",
		BackdropPath: "/lh5lbisD4Y9fEqibwTp8O1l7Ub1.jpg",
		VoteAverage:  8.7,
		ReleaseDate:  "1999-03-31",
		Overview:     "A computer hacker learns from mysterious rebels about the true nature of his reality and his role in the war against its controllers.",
	},
	{
		ID:           5,
		Title:        "Pulp Fiction",
		PosterPath:   "/d5iIlFn5s0ImszYzBPb8JPIfbXD.jpg",
		BackdropPath: "/suaEOtk1N1sgg2MTM7oZd2cfVp3.jpg",
		VoteAverage:  8.9,
		ReleaseDate:  "1994-10-14",
		Overview:     "The lives of two mob hitmen, a boxer, a gangster and his wife, and a pair of diner bandits intertwine in four tales of violence and redemption.",
	},
}

// Fallback returns a copy of the fixed sample sequence truncated to limit.
// A limit of zero or less returns the whole sequence.
func Fallback(limit int) []models.MediaItem {
	n := len(fallbackMovies)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.MediaItem, n)
	copy(out, fallbackMovies)
	return out
}

// FallbackDetails returns the sample movie with id, or the first sample movie.
func FallbackDetails(id int64) models.MediaDetails {
	for _, item := range fallbackMovies {
		if item.ID == id {
			return models.MediaDetails{MediaItem: item}
		}
	}
	return models.MediaDetails{MediaItem: fallbackMovies[0]}
}
