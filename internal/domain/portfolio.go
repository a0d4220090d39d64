package domain

// Socials holds the profile's named social handles. Absent handles are empty
// strings, never omitted.
type Socials struct {
	GitHub   string `json:"github"`
	LinkedIn string `json:"linkedin"`
	Telegram string `json:"telegram"`
}

// Profile is the singleton owner record, keyed by a fixed well-known ID in the
// repository.
type Profile struct {
	Name     string  `json:"name"`
	Title    string  `json:"title"`
	Bio      string  `json:"bio"`
	Location string  `json:"location"`
	Email    string  `json:"email"`
	Image    string  `json:"image"`
	Socials  Socials `json:"socials"`
}

// Skill is one entry of the ordered skill list. Level is a percentage by
// convention; the range is not enforced here.
type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
	Icon  string `json:"icon"`
}

// Project is one entry of the ordered project gallery. ID is assigned by the
// repository on insert, or in-memory (Unix millis) when added via the editor.
type Project struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
	Link        string   `json:"link,omitempty"`
}

// Snapshot is the complete content set shown to visitors and used to ground
// the assistant. Invariant: every field carries either repository data or the
// default bundle value; a snapshot is never partially populated.
type Snapshot struct {
	Profile  Profile   `json:"profile"`
	Skills   []Skill   `json:"skills"`
	Projects []Project `json:"projects"`
}

// Clone returns a deep copy, used to initialize an editor draft so draft edits
// never alias the published snapshot.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Profile:  s.Profile,
		Skills:   make([]Skill, len(s.Skills)),
		Projects: make([]Project, len(s.Projects)),
	}
	copy(out.Skills, s.Skills)
	for i, p := range s.Projects {
		cp := p
		cp.Tags = make([]string, len(p.Tags))
		copy(cp.Tags, p.Tags)
		out.Projects[i] = cp
	}
	return out
}
