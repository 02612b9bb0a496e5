package author

// Input is the body of a create request.
type Input struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (in Input) Author() Author {
	return Author{FirstName: in.FirstName, LastName: in.LastName}
}

// Patch holds the fields of a partial update. Nil fields are left alone.
type Patch struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// Apply merges p onto a, keeping its identity and books.
func (p Patch) Apply(a *Author) {
	if p.FirstName != nil {
		a.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		a.LastName = *p.LastName
	}
}
