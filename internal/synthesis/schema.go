package synthesis

import "google.golang.org/genai"

// profileSchema declares the shape the synthesis response must conform to.
// marketInfo is deliberately absent: market data comes from the enrichment
// path and the synthesized profile receives a placeholder instead.
func profileSchema() *genai.Schema {
	skillItem := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":     {Type: genai.TypeString},
			"type":     {Type: genai.TypeString, Enum: []string{"hard", "soft"}},
			"level":    {Type: genai.TypeString},
			"evidence": {Type: genai.TypeString},
		},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"strategy": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"summary": {Type: genai.TypeString},
					"suggestedAreas": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"title":         {Type: genai.TypeString},
								"level":         {Type: genai.TypeString},
								"justification": {Type: genai.TypeString},
								"matchScore":    {Type: genai.TypeInteger, Description: "Score from 0 to 100"},
								"risks":         {Type: genai.TypeString},
								"nextSteps":     {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
							},
						},
					},
					"shortTermGoal": {Type: genai.TypeString},
					"midTermGoal":   {Type: genai.TypeString},
				},
			},
			"skillsAndGaps": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"strengths":  {Type: genai.TypeArray, Items: skillItem},
					"weaknesses": {Type: genai.TypeArray, Items: skillItem},
					"inferredGaps": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"skillName":  {Type: genai.TypeString},
								"type":       {Type: genai.TypeString, Enum: []string{"hard", "soft"}},
								"priority":   {Type: genai.TypeString, Enum: []string{"Alta", "Média", "Baixa"}},
								"impact":     {Type: genai.TypeString},
								"suggestion": {Type: genai.TypeString},
							},
						},
					},
				},
			},
			"pdi": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"executiveSummary": {Type: genai.TypeString},
					"axes": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"axisName": {Type: genai.TypeString},
								"objectives": {
									Type: genai.TypeArray,
									Items: &genai.Schema{
										Type: genai.TypeObject,
										Properties: map[string]*genai.Schema{
											"description": {Type: genai.TypeString},
											"deadline":    {Type: genai.TypeString},
											"actions":     {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
											"resources":   {Type: genai.TypeString},
											"indicators":  {Type: genai.TypeString},
											"priority":    {Type: genai.TypeString, Enum: []string{"Alta", "Média", "Baixa"}},
										},
									},
								},
							},
						},
					},
				},
			},
			"resume": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"fullName":           {Type: genai.TypeString},
					"title":              {Type: genai.TypeString},
					"location":           {Type: genai.TypeString},
					"contactPlaceholder": {Type: genai.TypeString},
					"summary":            {Type: genai.TypeString},
					"seniorityLevel":     {Type: genai.TypeString, Enum: []string{"Estágio", "Júnior", "Pleno", "Sênior", "Especialista"}},
					"education": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"course":      {Type: genai.TypeString},
								"institution": {Type: genai.TypeString},
								"period":      {Type: genai.TypeString},
								"status":      {Type: genai.TypeString},
								"details":     {Type: genai.TypeString},
							},
						},
					},
					"experience": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"role":       {Type: genai.TypeString},
								"company":    {Type: genai.TypeString},
								"period":     {Type: genai.TypeString},
								"highlights": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
							},
						},
					},
					"skills": {
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"hard": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
							"soft": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
						},
					},
					"certifications": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"languages":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"keywords":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				},
			},
		},
	}
}
