package model

// Document is the whole persisted state: every user, every project and the
// id of the signed in user.
type Document struct {
	Users       []User    `json:"users"`
	Projects    []Project `json:"projects"`
	CurrentUser *string   `json:"currentUser"`
}

// FindProject returns the project with the given id, or nil
func (d *Document) FindProject(id string) *Project {
	for i := range d.Projects {
		if d.Projects[i].ID == id {
			return &d.Projects[i]
		}
	}
	return nil
}

// FindUser returns the user with the given id, or nil
func (d *Document) FindUser(id string) *User {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

// FindUserByEmail returns the user registered with email, or nil
func (d *Document) FindUserByEmail(email string) *User {
	for i := range d.Users {
		if d.Users[i].Email == email {
			return &d.Users[i]
		}
	}
	return nil
}

// Clone returns a deep copy so transforms never alias the caller's slices
func (d Document) Clone() Document {
	out := Document{}
	if d.Users != nil {
		out.Users = make([]User, len(d.Users))
		copy(out.Users, d.Users)
	}
	if d.Projects != nil {
		out.Projects = make([]Project, len(d.Projects))
		for i, p := range d.Projects {
			out.Projects[i] = p.Clone()
		}
	}
	if d.CurrentUser != nil {
		id := *d.CurrentUser
		out.CurrentUser = &id
	}
	return out
}
