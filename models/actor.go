package models

// Actor is a performer the agency can cast
type Actor struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Age    int    `json:"age" db:"age"`
	Gender string `json:"gender" db:"gender"`
}

// NewActor creates a new, unsaved Actor
func NewActor(name string, age int, gender string) *Actor {
	return &Actor{
		Name:   name,
		Age:    age,
		Gender: gender,
	}
}

// ActorPatch holds the fields of a partial actor update. Nil fields are left unchanged.
type ActorPatch struct {
	Name   *string
	Age    *int
	Gender *string
}

// IsEmpty reports whether the patch changes nothing
func (p ActorPatch) IsEmpty() bool {
	return p.Name == nil && p.Age == nil && p.Gender == nil
}

// Apply copies the set fields onto a
func (p ActorPatch) Apply(a *Actor) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Age != nil {
		a.Age = *p.Age
	}
	if p.Gender != nil {
		a.Gender = *p.Gender
	}
}
