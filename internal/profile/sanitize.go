package profile

import (
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Sanitization turns a parsed but untrusted object graph into a fully
// populated profile. It is total: any missing, null or mistyped field becomes
// its type's zero value, collections are always non-nil, and no input causes
// an error. This is the primary defense against the model omitting optional
// schema fields or bending types.

// SanitizeProfile normalizes an untrusted payload into a UserProfile.
func SanitizeProfile(raw map[string]any) *UserProfile {
	var p UserProfile
	decodeLoose(raw, &p)

	p.Strategy.SuggestedAreas = ensureAreas(p.Strategy.SuggestedAreas)
	p.SkillsAndGaps.Strengths = ensureSkills(p.SkillsAndGaps.Strengths)
	p.SkillsAndGaps.Weaknesses = ensureSkills(p.SkillsAndGaps.Weaknesses)
	p.SkillsAndGaps.InferredGaps = ensureGaps(p.SkillsAndGaps.InferredGaps)
	p.PDI.Axes = ensureAxes(p.PDI.Axes)
	p.Resume = ensureResume(p.Resume)
	p.MarketInfo = *SanitizeMarketValue(p.MarketInfo)

	return &p
}

// SanitizeMarket normalizes an untrusted payload into a MarketAnalytics.
func SanitizeMarket(raw map[string]any) *MarketAnalytics {
	var m MarketAnalytics
	decodeLoose(raw, &m)
	return SanitizeMarketValue(m)
}

// SanitizeMarketValue defaults every collection of an already-typed market
// section and normalizes its enums.
func SanitizeMarketValue(m MarketAnalytics) *MarketAnalytics {
	if m.Overview.Trends == nil {
		m.Overview.Trends = []string{}
	}
	m.Overview.DemandLevel = defaultEnum(m.Overview.DemandLevel, "Média", "Alta", "Baixa")
	if m.Salary.GrowthProjection == nil {
		m.Salary.GrowthProjection = []float64{}
	}
	if m.TopCompanies == nil {
		m.TopCompanies = []TopCompany{}
	}
	if m.SkillsDemand == nil {
		m.SkillsDemand = []SkillDemand{}
	}
	for i := range m.SkillsDemand {
		m.SkillsDemand[i].Percentage = clampFloat(m.SkillsDemand[i].Percentage, 0, 100)
	}
	return &m
}

// SanitizeJobs normalizes an untrusted {jobs: [...]} envelope into a list of
// opportunities. A missing or malformed jobs field yields an empty list, and
// entries that are not objects are dropped.
func SanitizeJobs(raw map[string]any) []JobOpportunity {
	jobs := []JobOpportunity{}
	if raw == nil {
		return jobs
	}

	list, ok := raw["jobs"].([]any)
	if !ok {
		return jobs
	}

	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		var job JobOpportunity
		decodeLoose(entry, &job)
		job.FitScore = clampScore(job.FitScore)
		jobs = append(jobs, job)
	}

	return jobs
}

// decodeLoose maps an untrusted payload onto a typed value, coercing scalar
// types where possible and silently skipping whatever cannot be decoded.
// Decode errors are deliberately discarded: partial data is still applied and
// the defaulting passes fill the rest.
func decodeLoose(raw map[string]any, out any) {
	if raw == nil {
		return
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       roundFloatHook,
	})
	if err != nil {
		return
	}

	_ = decoder.Decode(raw)
}

// roundFloatHook rounds fractional numbers targeted at integer fields instead
// of letting the decoder truncate them. The synthesis prompt forbids
// fractional scores, but the model occasionally emits them anyway.
func roundFloatHook(from reflect.Kind, to reflect.Kind, data any) (any, error) {
	if from == reflect.Float64 && (to == reflect.Int || to == reflect.Int64) {
		if f, ok := data.(float64); ok {
			return int(math.Round(f)), nil
		}
	}
	return data, nil
}

func ensureAreas(areas []StrategyArea) []StrategyArea {
	if areas == nil {
		return []StrategyArea{}
	}
	for i := range areas {
		areas[i].MatchScore = clampScore(areas[i].MatchScore)
		if areas[i].NextSteps == nil {
			areas[i].NextSteps = []string{}
		}
	}
	return areas
}

func ensureSkills(skills []Skill) []Skill {
	if skills == nil {
		return []Skill{}
	}
	for i := range skills {
		skills[i].Type = defaultEnum(skills[i].Type, "hard", "soft")
	}
	return skills
}

func ensureGaps(gaps []Gap) []Gap {
	if gaps == nil {
		return []Gap{}
	}
	for i := range gaps {
		gaps[i].Type = defaultEnum(gaps[i].Type, "hard", "soft")
		gaps[i].Priority = defaultEnum(gaps[i].Priority, "Média", "Alta", "Baixa")
	}
	return gaps
}

func ensureAxes(axes []PDIAxis) []PDIAxis {
	if axes == nil {
		return []PDIAxis{}
	}
	for i := range axes {
		if axes[i].Objectives == nil {
			axes[i].Objectives = []PDIObjective{}
		}
		for j := range axes[i].Objectives {
			obj := &axes[i].Objectives[j]
			if obj.Actions == nil {
				obj.Actions = []string{}
			}
			obj.Priority = defaultEnum(obj.Priority, "Média", "Alta", "Baixa")
		}
	}
	return axes
}

func ensureResume(r ResumeData) ResumeData {
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	for i := range r.Experience {
		if r.Experience[i].Highlights == nil {
			r.Experience[i].Highlights = []string{}
		}
	}
	if r.Skills.Hard == nil {
		r.Skills.Hard = []string{}
	}
	if r.Skills.Soft == nil {
		r.Skills.Soft = []string{}
	}
	if r.Certifications == nil {
		r.Certifications = []string{}
	}
	if r.Languages == nil {
		r.Languages = []string{}
	}
	if r.Keywords == nil {
		r.Keywords = []string{}
	}
	return r
}

// defaultEnum returns value when it matches fallback or one of allowed,
// otherwise fallback.
func defaultEnum(value, fallback string, allowed ...string) string {
	if value == fallback {
		return value
	}
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	return fallback
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
