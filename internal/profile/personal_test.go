package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPersonalData() *PersonalData {
	return &PersonalData{
		FullName: "Ana Souza",
		Email:    "ana@example.com",
		Phone:    "11999990000",
		Address:  "São Paulo, SP",
		Linkedin: "https://linkedin.com/in/anasouza",
	}
}

func TestPersonalDataValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, validPersonalData().Validate())

	invalid := validPersonalData()
	invalid.Email = "não-é-email"
	err := invalid.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")

	invalid = validPersonalData()
	invalid.Linkedin = "linkedin-sem-esquema"
	require.Error(t, invalid.Validate())
}

func TestApplyPersonalDataOverwritesOnlyIdentityFields(t *testing.T) {
	t.Parallel()

	p := SanitizeProfile(map[string]any{
		"resume": map[string]any{
			"fullName": "Nome Alucinado",
			"email":    "alucinado@model.ai",
			"summary":  "Engenheira com 5 anos de experiência.",
			"title":    "Engenheira de Software",
			"experience": []any{
				map[string]any{
					"role":       "Dev Backend",
					"company":    "Acme",
					"period":     "2020-2024",
					"highlights": []any{"Reduziu latência em 40%"},
				},
			},
			"education": []any{
				map[string]any{"course": "Ciência da Computação", "institution": "USP"},
			},
			"skills": map[string]any{"hard": []any{"Go"}, "soft": []any{"Comunicação"}},
		},
	})

	pd := validPersonalData()
	ApplyPersonalData(p, pd)

	assert.Equal(t, "Ana Souza", p.Resume.FullName)
	assert.Equal(t, "ana@example.com", p.Resume.Email)
	assert.Equal(t, "São Paulo, SP", p.Resume.Location)
	assert.Equal(t, "ana@example.com | 11999990000", p.Resume.ContactPlaceholder)
	assert.Equal(t, "https://linkedin.com/in/anasouza", p.Resume.Linkedin)

	// Non-identity fields stay exactly as synthesized.
	assert.Equal(t, "Engenheira com 5 anos de experiência.", p.Resume.Summary)
	assert.Equal(t, "Engenheira de Software", p.Resume.Title)
	require.Len(t, p.Resume.Experience, 1)
	assert.Equal(t, "Acme", p.Resume.Experience[0].Company)
	assert.Equal(t, []string{"Reduziu latência em 40%"}, p.Resume.Experience[0].Highlights)
	require.Len(t, p.Resume.Education, 1)
	assert.Equal(t, []string{"Go"}, p.Resume.Skills.Hard)
}

func TestApplyPersonalDataNilSafe(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		ApplyPersonalData(nil, validPersonalData())
		ApplyPersonalData(&UserProfile{}, nil)
	})
}
