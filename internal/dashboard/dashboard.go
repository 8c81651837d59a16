// Package dashboard renders the profile sections for the terminal.
package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/careerarchitect/career-architect/internal/market"
	"github.com/careerarchitect/career-architect/internal/profile"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	scoreStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("11"))
)

// Strategy renders the career strategy section.
func Strategy(s *profile.Strategy) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Estratégia de Carreira"))
	b.WriteString("\n")
	writeField(&b, "Resumo", s.Summary)
	writeField(&b, "Meta de curto prazo", s.ShortTermGoal)
	writeField(&b, "Meta de médio prazo", s.MidTermGoal)

	if len(s.SuggestedAreas) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Áreas sugeridas") + "\n")
		for _, area := range s.SuggestedAreas {
			b.WriteString(fmt.Sprintf("  %s %s\n",
				scoreStyle.Render(fmt.Sprintf("[%3d%%]", area.MatchScore)),
				valueStyle.Render(area.Title),
			))
			if area.Justification != "" {
				b.WriteString("    " + mutedStyle.Render(area.Justification) + "\n")
			}
			for _, step := range area.NextSteps {
				b.WriteString("    • " + valueStyle.Render(step) + "\n")
			}
		}
	}

	return b.String()
}

// SkillsAndGaps renders strengths, weaknesses and inferred gaps.
func SkillsAndGaps(sg *profile.SkillsAndGaps) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Skills & Gaps"))
	b.WriteString("\n")

	if len(sg.Strengths) > 0 {
		b.WriteString(sectionStyle.Render("Pontos fortes") + "\n")
		for _, skill := range sg.Strengths {
			writeSkill(&b, skill)
		}
	}

	if len(sg.Weaknesses) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Pontos de atenção") + "\n")
		for _, skill := range sg.Weaknesses {
			writeSkill(&b, skill)
		}
	}

	if len(sg.InferredGaps) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Gaps identificados") + "\n")
		for _, gap := range sg.InferredGaps {
			b.WriteString(fmt.Sprintf("  • %s %s\n",
				valueStyle.Render(gap.SkillName),
				mutedStyle.Render(fmt.Sprintf("(%s, prioridade %s)", gap.Type, gap.Priority)),
			))
			if gap.Impact != "" {
				b.WriteString("    " + mutedStyle.Render("Impacto: "+gap.Impact) + "\n")
			}
			if gap.Suggestion != "" {
				b.WriteString("    " + mutedStyle.Render("Sugestão: "+gap.Suggestion) + "\n")
			}
		}
	}

	return b.String()
}

// PDI renders the individual development plan.
func PDI(p *profile.PDI) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Plano de Desenvolvimento Individual"))
	b.WriteString("\n")
	writeField(&b, "Resumo executivo", p.ExecutiveSummary)

	for _, axis := range p.Axes {
		b.WriteString("\n" + sectionStyle.Render(axis.AxisName) + "\n")
		for _, obj := range axis.Objectives {
			b.WriteString(fmt.Sprintf("  • %s %s\n",
				valueStyle.Render(obj.Description),
				mutedStyle.Render(fmt.Sprintf("(%s, prioridade %s)", obj.Deadline, obj.Priority)),
			))
			for _, action := range obj.Actions {
				b.WriteString("      - " + valueStyle.Render(action) + "\n")
			}
			if obj.Indicators != "" {
				b.WriteString("    " + mutedStyle.Render("Indicadores: "+obj.Indicators) + "\n")
			}
		}
	}

	return b.String()
}

// Market renders the market analytics section, including grounding sources
// when the data came from a research run.
func Market(m *profile.MarketAnalytics) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Mercado"))
	b.WriteString("\n")
	writeField(&b, "Panorama", m.Overview.Summary)
	writeField(&b, "Nível de demanda", m.Overview.DemandLevel)
	if len(m.Overview.Trends) > 0 {
		b.WriteString(labelStyle.Render("Tendências:") + "\n")
		for _, trend := range m.Overview.Trends {
			b.WriteString("  • " + valueStyle.Render(trend) + "\n")
		}
	}

	b.WriteString("\n" + sectionStyle.Render("Faixas salariais (BRL/mês)") + "\n")
	writeSalaryBand(&b, "Júnior", m.Salary.Junior)
	writeSalaryBand(&b, "Pleno", m.Salary.Pleno)
	writeSalaryBand(&b, "Sênior", m.Salary.Senior)

	if len(m.TopCompanies) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Empresas contratando") + "\n")
		for _, company := range m.TopCompanies {
			b.WriteString(fmt.Sprintf("  • %s %s\n",
				valueStyle.Render(company.Name),
				mutedStyle.Render(fmt.Sprintf("(~%d vagas)", company.Vacancies)),
			))
		}
	}

	if len(m.SkillsDemand) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Skills mais pedidas") + "\n")
		for _, skill := range m.SkillsDemand {
			marker := " "
			if skill.UserHas {
				marker = "✓"
			}
			b.WriteString(fmt.Sprintf("  %s %s %s\n",
				scoreStyle.Render(marker),
				valueStyle.Render(skill.Name),
				mutedStyle.Render(fmt.Sprintf("%.0f%%", skill.Percentage)),
			))
		}
	}

	writeField(&b, "Perspectiva", m.Insights.GrowthPerspective)
	writeField(&b, "Certificações com ROI", m.Insights.ROICertifications)
	writeField(&b, "Desafios", m.Insights.Challenges)

	if len(m.Sources) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Fontes") + "\n")
		for _, source := range m.Sources {
			b.WriteString("  • " + valueStyle.Render(source.Title) + " " + mutedStyle.Render(source.URI) + "\n")
		}
	}

	return b.String()
}

// Resume renders the generated resume.
func Resume(r *profile.ResumeData) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(r.FullName))
	b.WriteString("\n")
	writeField(&b, "Cargo", r.Title)
	writeField(&b, "Senioridade", r.SeniorityLevel)
	writeField(&b, "Localização", r.Location)
	writeField(&b, "Contato", r.ContactPlaceholder)
	writeField(&b, "LinkedIn", r.Linkedin)
	writeField(&b, "GitHub", r.Github)
	writeField(&b, "Portfólio", r.Portfolio)
	writeField(&b, "Resumo", r.Summary)

	if len(r.Experience) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Experiência") + "\n")
		for _, exp := range r.Experience {
			b.WriteString(fmt.Sprintf("  • %s %s\n",
				valueStyle.Render(exp.Role+" @ "+exp.Company),
				mutedStyle.Render("("+exp.Period+")"),
			))
			for _, highlight := range exp.Highlights {
				b.WriteString("      - " + valueStyle.Render(highlight) + "\n")
			}
		}
	}

	if len(r.Education) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Formação") + "\n")
		for _, edu := range r.Education {
			b.WriteString(fmt.Sprintf("  • %s %s\n",
				valueStyle.Render(edu.Course+" - "+edu.Institution),
				mutedStyle.Render(fmt.Sprintf("(%s, %s)", edu.Period, edu.Status)),
			))
		}
	}

	if len(r.Skills.Hard) > 0 {
		writeField(&b, "Hard skills", strings.Join(r.Skills.Hard, ", "))
	}
	if len(r.Skills.Soft) > 0 {
		writeField(&b, "Soft skills", strings.Join(r.Skills.Soft, ", "))
	}
	if len(r.Certifications) > 0 {
		writeField(&b, "Certificações", strings.Join(r.Certifications, ", "))
	}
	if len(r.Languages) > 0 {
		writeField(&b, "Idiomas", strings.Join(r.Languages, ", "))
	}

	return b.String()
}

// Jobs renders job listings sorted by fit score.
func Jobs(jobs *market.Jobs) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Vagas Encontradas"))
	b.WriteString("\n")

	if jobs.Len() == 0 {
		b.WriteString(mutedStyle.Render("Nenhuma vaga encontrada nesta busca.") + "\n")
		return b.String()
	}

	for _, job := range jobs.Items {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			scoreStyle.Render(fmt.Sprintf("[%3d%%]", job.FitScore)),
			valueStyle.Render(job.Title),
		))
		b.WriteString("    " + mutedStyle.Render(job.Company+" · "+job.Location) + "\n")
		if job.URL != "" {
			b.WriteString("    " + mutedStyle.Render(job.URL) + "\n")
		}
	}

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	b.WriteString(labelStyle.Render(label+":") + " " + valueStyle.Render(value) + "\n")
}

func writeSkill(b *strings.Builder, skill profile.Skill) {
	detail := skill.Type
	if skill.Level != "" {
		detail += ", " + skill.Level
	}
	b.WriteString(fmt.Sprintf("  • %s %s\n",
		valueStyle.Render(skill.Name),
		mutedStyle.Render("("+detail+")"),
	))
}

func writeSalaryBand(b *strings.Builder, label string, band profile.SalaryBand) {
	if band.Min == 0 && band.Max == 0 && band.Avg == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("  %s %s\n",
		labelStyle.Render(label+":"),
		valueStyle.Render(fmt.Sprintf("R$ %d – R$ %d (média R$ %d)", band.Min, band.Max, band.Avg)),
	))
}
