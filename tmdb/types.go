package tmdb

import "time"

// Page is one page of a paginated TMDB listing
type Page[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// HasNext reports whether more pages follow
func (p *Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

// MovieResult is a movie as it appears in lists and search results
type MovieResult struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	GenreIDs         []int   `json:"genre_ids"`
	Adult            bool    `json:"adult"`
	Video            bool    `json:"video"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
}

// Year returns the release year, or 0 when the date is missing or malformed
func (m MovieResult) Year() int {
	return releaseYear(m.ReleaseDate)
}

// Released returns the parsed release date
func (m MovieResult) Released() time.Time {
	t, _ := time.Parse(dateLayout, m.ReleaseDate)
	return t
}

// Genre is a TMDB genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ProductionCompany is a studio credited on a movie
type ProductionCompany struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	LogoPath      string `json:"logo_path"`
	OriginCountry string `json:"origin_country"`
}

// ProductionCountry is a country credited on a movie
type ProductionCountry struct {
	ISO3166 string `json:"iso_3166_1"`
	Name    string `json:"name"`
}

// SpokenLanguage is a language spoken in a movie
type SpokenLanguage struct {
	ISO639      string `json:"iso_639_1"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
}

// Collection is the franchise a movie belongs to
type Collection struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
}

// MovieDetails is the full record returned by GET /movie/{id}
type MovieDetails struct {
	ID                  int64               `json:"id"`
	IMDbID              string              `json:"imdb_id"`
	Title               string              `json:"title"`
	OriginalTitle       string              `json:"original_title"`
	OriginalLanguage    string              `json:"original_language"`
	Tagline             string              `json:"tagline"`
	Overview            string              `json:"overview"`
	Status              string              `json:"status"`
	ReleaseDate         string              `json:"release_date"`
	Runtime             int                 `json:"runtime"`
	Budget              int64               `json:"budget"`
	Revenue             int64               `json:"revenue"`
	Homepage            string              `json:"homepage"`
	Adult               bool                `json:"adult"`
	Video               bool                `json:"video"`
	Popularity          float64             `json:"popularity"`
	VoteAverage         float64             `json:"vote_average"`
	VoteCount           int                 `json:"vote_count"`
	PosterPath          string              `json:"poster_path"`
	BackdropPath        string              `json:"backdrop_path"`
	Genres              []Genre             `json:"genres"`
	BelongsToCollection *Collection         `json:"belongs_to_collection"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
	SpokenLanguages     []SpokenLanguage    `json:"spoken_languages"`
}

// Year returns the release year, or 0 when unknown
func (m MovieDetails) Year() int {
	return releaseYear(m.ReleaseDate)
}

// GenreNames returns the genre names in TMDB order
func (m MovieDetails) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return names
}

const dateLayout = "2006-01-02"

func releaseYear(date string) int {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0
	}
	return t.Year()
}
