package content

import "github.com/shohruz/portfolio-backend-go/internal/domain"

// DefaultSnapshot returns the fallback content bundle. Any collection the
// repository cannot supply is substituted from here, so a served snapshot is
// always fully populated.
func DefaultSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Profile:  defaultProfile,
		Skills:   append([]domain.Skill(nil), defaultSkills...),
		Projects: cloneProjects(defaultProjects),
	}
}

var defaultProfile = domain.Profile{
	Name:     "RAHMATULLAYEV SHOHRUZ",
	Title:    "Frontend Dasturchi",
	Bio:      "Men 3 yillik tajribaga ega frontend dasturchiman. Sirdaryo viloyatidanman. Zamonaviy, tezkor va foydalanuvchilar uchun qulay interfeyslar yaratishga ixtisoslashganman. Har bir loyihada eng so'nggi texnologiyalardan foydalanishga intilaman.",
	Location: "Sirdaryo viloyati, O'zbekiston",
	Email:    "shohruz@example.com",
	Image:    "https://picsum.photos/400/400?random=10",
	Socials: domain.Socials{
		GitHub:   "https://github.com",
		LinkedIn: "https://linkedin.com",
		Telegram: "https://t.me",
	},
}

var defaultSkills = []domain.Skill{
	{Name: "React / Next.js", Level: 92, Icon: "⚛️"},
	{Name: "TypeScript", Level: 88, Icon: "📘"},
	{Name: "Tailwind CSS", Level: 95, Icon: "🎨"},
	{Name: "JavaScript (ES6+)", Level: 94, Icon: "💛"},
	{Name: "Git / GitHub", Level: 85, Icon: "🐙"},
}

var defaultProjects = []domain.Project{
	{
		ID:          1,
		Title:       "Maktab Jadvali Pro",
		Description: "O'qituvchilar va o'quvchilar uchun dars jadvalini onlayn kuzatish va boshqarish tizimi.",
		Image:       "https://images.unsplash.com/photo-1503676260728-1c00da096a0b?auto=format&fit=crop&q=80&w=800",
		Tags:        []string{"React", "Next.js", "Vercel"},
		Link:        "https://maktab-jadvali.vercel.app/",
	},
	{
		ID:          2,
		Title:       "AI Chat Ilovasi",
		Description: "Gemini API yordamida yaratilgan aqlli chat yordamchisi.",
		Image:       "https://images.unsplash.com/photo-1677442136019-21780ecad995?auto=format&fit=crop&q=80&w=800",
		Tags:        []string{"TypeScript", "Gemini API", "Tailwind"},
		Link:        "#",
	},
	{
		ID:          3,
		Title:       "Portfolio Dizayn",
		Description: "Ijodkorlar uchun minimalist va tezkor portfolio sayt.",
		Image:       "https://images.unsplash.com/photo-1460925895917-afdab827c52f?auto=format&fit=crop&q=80&w=800",
		Tags:        []string{"Next.js", "Framer Motion"},
		Link:        "#",
	},
}

func cloneProjects(src []domain.Project) []domain.Project {
	out := make([]domain.Project, len(src))
	for i, p := range src {
		cp := p
		cp.Tags = append([]string(nil), p.Tags...)
		out[i] = cp
	}
	return out
}
