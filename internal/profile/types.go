// Package profile holds the structured career profile produced by the
// synthesis step and the defensive sanitization that guards it against
// loosely-typed model output.
package profile

// Skill is a competence the user holds, either stated or inferred.
type Skill struct {
	Name     string `json:"name" mapstructure:"name"`
	Type     string `json:"type" mapstructure:"type"` // hard | soft
	Level    string `json:"level" mapstructure:"level"`
	Evidence string `json:"evidence,omitempty" mapstructure:"evidence"`
}

// Gap is a missing competence inferred from the desired role versus the
// current profile. It must come from model inference, not from echoing the
// user's own statements.
type Gap struct {
	SkillName  string `json:"skillName" mapstructure:"skillName"`
	Type       string `json:"type" mapstructure:"type"`
	Priority   string `json:"priority" mapstructure:"priority"` // Alta | Média | Baixa
	Impact     string `json:"impact" mapstructure:"impact"`
	Suggestion string `json:"suggestion" mapstructure:"suggestion"`
}

// PDIObjective is a single objective inside a development-plan axis.
type PDIObjective struct {
	Description string   `json:"description" mapstructure:"description"`
	Deadline    string   `json:"deadline" mapstructure:"deadline"`
	Actions     []string `json:"actions" mapstructure:"actions"`
	Resources   string   `json:"resources" mapstructure:"resources"`
	Indicators  string   `json:"indicators" mapstructure:"indicators"`
	Priority    string   `json:"priority" mapstructure:"priority"`
}

// PDIAxis groups objectives under a named axis such as "Desenvolvimento
// Técnico" or "Comportamental".
type PDIAxis struct {
	AxisName   string         `json:"axisName" mapstructure:"axisName"`
	Objectives []PDIObjective `json:"objectives" mapstructure:"objectives"`
}

// StrategyArea is a suggested career direction with a 0-100 match score.
type StrategyArea struct {
	Title         string   `json:"title" mapstructure:"title"`
	Level         string   `json:"level" mapstructure:"level"`
	Justification string   `json:"justification" mapstructure:"justification"`
	MatchScore    int      `json:"matchScore" mapstructure:"matchScore"`
	Risks         string   `json:"risks" mapstructure:"risks"`
	NextSteps     []string `json:"nextSteps" mapstructure:"nextSteps"`
}

// Strategy is the top-level career strategy section.
type Strategy struct {
	Summary        string         `json:"summary" mapstructure:"summary"`
	SuggestedAreas []StrategyArea `json:"suggestedAreas" mapstructure:"suggestedAreas"`
	ShortTermGoal  string         `json:"shortTermGoal" mapstructure:"shortTermGoal"`
	MidTermGoal    string         `json:"midTermGoal" mapstructure:"midTermGoal"`
}

// SkillsAndGaps separates what the user stated from what the model inferred.
type SkillsAndGaps struct {
	Strengths    []Skill `json:"strengths" mapstructure:"strengths"`
	Weaknesses   []Skill `json:"weaknesses" mapstructure:"weaknesses"`
	InferredGaps []Gap   `json:"inferredGaps" mapstructure:"inferredGaps"`
}

// PDI is the individual development plan.
type PDI struct {
	ExecutiveSummary string    `json:"executiveSummary" mapstructure:"executiveSummary"`
	Axes             []PDIAxis `json:"axes" mapstructure:"axes"`
}

// Education is a single education entry on the resume.
type Education struct {
	Course      string `json:"course" mapstructure:"course"`
	Institution string `json:"institution" mapstructure:"institution"`
	Period      string `json:"period" mapstructure:"period"`
	Status      string `json:"status" mapstructure:"status"`
	Details     string `json:"details,omitempty" mapstructure:"details"`
}

// Experience is a single work-history entry. Entries must trace back to the
// interview transcript; the synthesis prompt forbids fabricated employers.
type Experience struct {
	Role       string   `json:"role" mapstructure:"role"`
	Company    string   `json:"company" mapstructure:"company"`
	Period     string   `json:"period" mapstructure:"period"`
	Highlights []string `json:"highlights" mapstructure:"highlights"`
}

// SkillBuckets splits resume skills into hard and soft lists.
type SkillBuckets struct {
	Hard []string `json:"hard" mapstructure:"hard"`
	Soft []string `json:"soft" mapstructure:"soft"`
}

// ResumeData is the generated resume. Identity fields are overwritten by
// user-supplied PersonalData after synthesis and never the reverse.
type ResumeData struct {
	FullName           string       `json:"fullName" mapstructure:"fullName"`
	Title              string       `json:"title" mapstructure:"title"`
	Location           string       `json:"location" mapstructure:"location"`
	ContactPlaceholder string       `json:"contactPlaceholder" mapstructure:"contactPlaceholder"`
	Email              string       `json:"email,omitempty" mapstructure:"email"`
	Phone              string       `json:"phone,omitempty" mapstructure:"phone"`
	Linkedin           string       `json:"linkedin,omitempty" mapstructure:"linkedin"`
	Github             string       `json:"github,omitempty" mapstructure:"github"`
	Portfolio          string       `json:"portfolio,omitempty" mapstructure:"portfolio"`
	Summary            string       `json:"summary" mapstructure:"summary"`
	SeniorityLevel     string       `json:"seniorityLevel,omitempty" mapstructure:"seniorityLevel"`
	Education          []Education  `json:"education" mapstructure:"education"`
	Experience         []Experience `json:"experience" mapstructure:"experience"`
	Skills             SkillBuckets `json:"skills" mapstructure:"skills"`
	Certifications     []string     `json:"certifications" mapstructure:"certifications"`
	Languages          []string     `json:"languages" mapstructure:"languages"`
	Keywords           []string     `json:"keywords,omitempty" mapstructure:"keywords"`
}

// SalaryBand is a min/max/avg salary range for one seniority level.
type SalaryBand struct {
	Min int `json:"min" mapstructure:"min"`
	Max int `json:"max" mapstructure:"max"`
	Avg int `json:"avg" mapstructure:"avg"`
}

// MarketSalary aggregates salary bands plus a five-year growth projection.
type MarketSalary struct {
	Junior           SalaryBand `json:"junior" mapstructure:"junior"`
	Pleno            SalaryBand `json:"pleno" mapstructure:"pleno"`
	Senior           SalaryBand `json:"senior" mapstructure:"senior"`
	GrowthProjection []float64  `json:"growthProjection" mapstructure:"growthProjection"`
}

// MarketOverview summarizes current demand for the role.
type MarketOverview struct {
	Summary     string   `json:"summary" mapstructure:"summary"`
	DemandLevel string   `json:"demandLevel" mapstructure:"demandLevel"` // Alta | Média | Baixa
	Trends      []string `json:"trends" mapstructure:"trends"`
}

// TopCompany is a hiring company surfaced by market research.
type TopCompany struct {
	Name      string `json:"name" mapstructure:"name"`
	Vacancies int    `json:"vacancies" mapstructure:"vacancies"`
	URL       string `json:"url" mapstructure:"url"`
}

// SkillDemand reports how often a skill appears in recent postings and
// whether the user already has it.
type SkillDemand struct {
	Name       string  `json:"name" mapstructure:"name"`
	Percentage float64 `json:"percentage" mapstructure:"percentage"`
	UserHas    bool    `json:"userHas" mapstructure:"userHas"`
}

// MarketInsights carries qualitative findings from market research.
type MarketInsights struct {
	GrowthPerspective string `json:"growthPerspective" mapstructure:"growthPerspective"`
	ROICertifications string `json:"roiCertifications" mapstructure:"roiCertifications"`
	Challenges        string `json:"challenges" mapstructure:"challenges"`
}

// GroundingSource points at a web page used by the search-grounded report.
type GroundingSource struct {
	Title string `json:"title" mapstructure:"title"`
	URI   string `json:"uri" mapstructure:"uri"`
}

// MarketAnalytics is the market section of the profile. It is sourced from a
// separate enrichment path, not from profile synthesis, and is replaced
// wholesale each time the enrichment runs successfully.
type MarketAnalytics struct {
	Overview     MarketOverview    `json:"overview" mapstructure:"overview"`
	Salary       MarketSalary      `json:"salary" mapstructure:"salary"`
	TopCompanies []TopCompany      `json:"topCompanies" mapstructure:"topCompanies"`
	SkillsDemand []SkillDemand     `json:"skillsDemand" mapstructure:"skillsDemand"`
	Insights     MarketInsights    `json:"insights" mapstructure:"insights"`
	Sources      []GroundingSource `json:"sources,omitempty" mapstructure:"sources"`
}

// UserProfile is the central artifact of the application. It is created once
// by the synthesis step; afterwards only MarketInfo may be mutated, and only
// by the enrichment path.
type UserProfile struct {
	Strategy      Strategy        `json:"strategy" mapstructure:"strategy"`
	SkillsAndGaps SkillsAndGaps   `json:"skillsAndGaps" mapstructure:"skillsAndGaps"`
	PDI           PDI             `json:"pdi" mapstructure:"pdi"`
	MarketInfo    MarketAnalytics `json:"marketInfo" mapstructure:"marketInfo"`
	Resume        ResumeData      `json:"resume" mapstructure:"resume"`
}

// JobOpportunity is a single listing returned by the job search. It is held
// by the caller only and never stored on the profile.
type JobOpportunity struct {
	Title    string `json:"title" mapstructure:"title"`
	Company  string `json:"company" mapstructure:"company"`
	Location string `json:"location" mapstructure:"location"`
	FitScore int    `json:"fitScore" mapstructure:"fitScore"`
	URL      string `json:"url" mapstructure:"url"`
}

// EmptyMarketAnalytics returns a placeholder market section with every
// collection initialized, so consumers never observe missing nested fields
// before the first enrichment run.
func EmptyMarketAnalytics() MarketAnalytics {
	return MarketAnalytics{
		Overview: MarketOverview{
			Summary:     "Execute a análise profunda de mercado para obter dados atualizados.",
			DemandLevel: "Média",
			Trends:      []string{},
		},
		Salary: MarketSalary{
			GrowthProjection: []float64{},
		},
		TopCompanies: []TopCompany{},
		SkillsDemand: []SkillDemand{},
	}
}
