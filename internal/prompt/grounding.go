package prompt

import (
	"strings"

	"github.com/shohruz/portfolio-backend-go/internal/domain"
)

type groundingData struct {
	Name     string
	Title    string
	Bio      string
	Location string
	Email    string
	Skills   string
	Projects []domain.Project
}

// BuildGroundingContext renders the system instruction that constrains the
// assistant to the given snapshot's facts.
func (pb *PromptBuilder) BuildGroundingContext(snapshot *domain.Snapshot) (string, error) {
	names := make([]string, 0, len(snapshot.Skills))
	for _, skill := range snapshot.Skills {
		names = append(names, skill.Name)
	}

	return pb.Render(TemplateGrounding, groundingData{
		Name:     snapshot.Profile.Name,
		Title:    snapshot.Profile.Title,
		Bio:      snapshot.Profile.Bio,
		Location: snapshot.Profile.Location,
		Email:    snapshot.Profile.Email,
		Skills:   strings.Join(names, ", "),
		Projects: snapshot.Projects,
	})
}

// BuildGreeting renders the transcript's seed greeting for the owner name.
func (pb *PromptBuilder) BuildGreeting(ownerName string) (string, error) {
	greeting, err := pb.Render(TemplateGreeting, struct{ Name string }{Name: ownerName})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(greeting), nil
}
