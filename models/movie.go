package models

// Movie is a film the agency casts for
type Movie struct {
	ID      int64  `json:"id" db:"id"`
	Title   string `json:"title" db:"title"`
	Release string `json:"release" db:"release"`
}

// NewMovie creates a new, unsaved Movie
func NewMovie(title, release string) *Movie {
	return &Movie{
		Title:   title,
		Release: release,
	}
}

// MoviePatch holds the fields of a partial movie update. Nil fields are left unchanged.
type MoviePatch struct {
	Title   *string
	Release *string
}

// IsEmpty reports whether the patch changes nothing
func (p MoviePatch) IsEmpty() bool {
	return p.Title == nil && p.Release == nil
}

// Apply copies the set fields onto m
func (p MoviePatch) Apply(m *Movie) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Release != nil {
		m.Release = *p.Release
	}
}
