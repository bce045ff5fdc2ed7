package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"scanmatch-utils/pkg/models"
)

// analysisPayload mirrors the snake_case provider response shape
type analysisPayload struct {
	Searchability struct {
		Score       float64 `json:"score"`
		ContactInfo struct {
			Present bool     `json:"present"`
			Missing []string `json:"missing"`
		} `json:"contact_info"`
		Sections struct {
			HasSummary             bool `json:"has_summary"`
			HasProperHeadings      bool `json:"has_proper_headings"`
			ProperlyFormattedDates bool `json:"properly_formatted_dates"`
		} `json:"sections"`
		JobTitleMatch struct {
			Score       float64 `json:"score"`
			Explanation string  `json:"explanation"`
		} `json:"job_title_match"`
		Recommendations []string `json:"recommendations"`
	} `json:"searchability"`

	HardSkills struct {
		Score                float64  `json:"score"`
		MatchedSkills        []string `json:"matched_skills"`
		MissingSkills        []string `json:"missing_skills"`
		TechnicalProficiency struct {
			Score     float64  `json:"score"`
			Strengths []string `json:"strengths"`
			Gaps      []string `json:"gaps"`
		} `json:"technical_proficiency"`
		Recommendations []string `json:"recommendations"`
	} `json:"hard_skills"`

	SoftSkills struct {
		Score                float64  `json:"score"`
		MatchedSkills        []string `json:"matched_skills"`
		MissingSkills        []string `json:"missing_skills"`
		LeadershipIndicators []string `json:"leadership_indicators"`
		Recommendations      []string `json:"recommendations"`
	} `json:"soft_skills"`

	RecruiterTips struct {
		Score         float64 `json:"score"`
		JobLevelMatch struct {
			Assessment     string `json:"assessment"`
			Recommendation string `json:"recommendation"`
		} `json:"job_level_match"`
		MeasurableResults struct {
			Present []string `json:"present"`
			Missing []string `json:"missing"`
		} `json:"measurable_results"`
		ResumeTone struct {
			Assessment   string   `json:"assessment"`
			Improvements []string `json:"improvements"`
		} `json:"resume_tone"`
		WebPresence struct {
			Mentioned   []string `json:"mentioned"`
			Recommended []string `json:"recommended"`
		} `json:"web_presence"`
	} `json:"recruiter_tips"`

	Overall struct {
		TotalScore  float64 `json:"total_score"`
		ApplyingFor struct {
			JobTitle    string `json:"job_title"`
			Explanation string `json:"explanation"`
		} `json:"applying_for"`
		ShortlistRecommendation struct {
			Decision    string `json:"decision"`
			Explanation string `json:"explanation"`
		} `json:"shortlist_recommendation"`
		CriticalImprovements []string `json:"critical_improvements"`
		KeyStrengths         []string `json:"key_strengths"`
	} `json:"overall"`
}

// cleanResponse strips markdown fences and any text surrounding the JSON
// object that some providers wrap around their output
func cleanResponse(response string) string {
	cleaned := strings.TrimSpace(response)

	if idx := strings.Index(cleaned, "```json"); idx != -1 {
		start := idx + len("```json")
		if end := strings.Index(cleaned[start:], "```"); end != -1 {
			cleaned = strings.TrimSpace(cleaned[start : start+end])
		}
	} else if idx := strings.Index(cleaned, "```"); idx != -1 {
		start := idx + len("```")
		if end := strings.Index(cleaned[start:], "```"); end != -1 {
			cleaned = strings.TrimSpace(cleaned[start : start+end])
		}
	}

	if !strings.HasPrefix(cleaned, "{") {
		if start := strings.Index(cleaned, "{"); start != -1 {
			cleaned = cleaned[start:]
		}
	}
	if !strings.HasSuffix(cleaned, "}") {
		if end := strings.LastIndex(cleaned, "}"); end != -1 {
			cleaned = cleaned[:end+1]
		}
	}

	return cleaned
}

// requiredScoreFields lists every score path that must be numeric in [0,100]
var requiredScoreFields = []string{
	"searchability.score",
	"hard_skills.score",
	"soft_skills.score",
	"recruiter_tips.score",
	"overall.total_score",
	"searchability.job_title_match.score",
	"hard_skills.technical_proficiency.score",
}

// requiredArrayFields lists every path that must be a JSON array
var requiredArrayFields = []string{
	"searchability.contact_info.missing",
	"searchability.recommendations",
	"hard_skills.matched_skills",
	"hard_skills.missing_skills",
	"hard_skills.technical_proficiency.strengths",
	"hard_skills.technical_proficiency.gaps",
	"hard_skills.recommendations",
	"soft_skills.matched_skills",
	"soft_skills.missing_skills",
	"soft_skills.leadership_indicators",
	"soft_skills.recommendations",
	"recruiter_tips.measurable_results.present",
	"recruiter_tips.measurable_results.missing",
	"recruiter_tips.resume_tone.improvements",
	"recruiter_tips.web_presence.mentioned",
	"recruiter_tips.web_presence.recommended",
	"overall.critical_improvements",
	"overall.key_strengths",
}

var requiredSections = []string{"searchability", "hard_skills", "soft_skills", "recruiter_tips", "overall"}

// parseAndValidate parses the provider response and structurally validates
// it. On parse failure the wrapping artifacts are stripped and parsing is
// retried once before the attempt is treated as failed.
func parseAndValidate(responseText string) (*analysisPayload, error) {
	raw := []byte(strings.TrimSpace(responseText))

	var generic map[string]interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		raw = []byte(cleanResponse(responseText))
		if err := json.Unmarshal(raw, &generic); err != nil {
			return nil, fmt.Errorf("invalid JSON response: %w", err)
		}
	}

	if err := validateStructure(generic); err != nil {
		return nil, err
	}

	var payload analysisPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode analysis payload: %w", err)
	}

	return &payload, nil
}

// validateStructure enforces the five-section response contract: sections
// present, score paths numeric within [0,100], array paths actually arrays.
// Violations are never coerced or defaulted.
func validateStructure(data map[string]interface{}) error {
	for _, section := range requiredSections {
		if data[section] == nil {
			return fmt.Errorf("missing required section: %s", section)
		}
	}

	for _, field := range requiredScoreFields {
		value := nestedProperty(data, field)
		score, ok := value.(float64)
		if !ok || score < 0 || score > 100 {
			return fmt.Errorf("invalid score value for %s: %v", field, value)
		}
	}

	for _, field := range requiredArrayFields {
		value := nestedProperty(data, field)
		if _, ok := value.([]interface{}); !ok {
			return fmt.Errorf("expected array for %s, got: %T", field, value)
		}
	}

	return nil
}

func nestedProperty(data map[string]interface{}, path string) interface{} {
	var current interface{} = data
	for _, key := range strings.Split(path, ".") {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current = obj[key]
	}
	return current
}

// mapToAnalysis maps the validated snake_case payload into the internal
// camelCase Analysis, generating a fresh identifier and creation timestamp.
// Absent optional arrays default to empty, never to absence.
func mapToAnalysis(p *analysisPayload) *models.Analysis {
	return &models.Analysis{
		ID: uuid.New().String(),
		Searchability: models.SearchabilityAnalysis{
			Score: models.MustScore(int(p.Searchability.Score)),
			ContactInfo: models.ContactInfo{
				Present: p.Searchability.ContactInfo.Present,
				Missing: orEmpty(p.Searchability.ContactInfo.Missing),
			},
			Sections: models.SectionFlags{
				HasSummary:             p.Searchability.Sections.HasSummary,
				HasProperHeadings:      p.Searchability.Sections.HasProperHeadings,
				ProperlyFormattedDates: p.Searchability.Sections.ProperlyFormattedDates,
			},
			JobTitleMatch: models.JobTitleMatch{
				Score:       models.MustScore(int(p.Searchability.JobTitleMatch.Score)),
				Explanation: p.Searchability.JobTitleMatch.Explanation,
			},
			Recommendations: orEmpty(p.Searchability.Recommendations),
		},
		HardSkills: models.HardSkillsAnalysis{
			Score:         models.MustScore(int(p.HardSkills.Score)),
			MatchedSkills: orEmpty(p.HardSkills.MatchedSkills),
			MissingSkills: orEmpty(p.HardSkills.MissingSkills),
			TechnicalProficiency: models.TechnicalProficiency{
				Score:     models.MustScore(int(p.HardSkills.TechnicalProficiency.Score)),
				Strengths: orEmpty(p.HardSkills.TechnicalProficiency.Strengths),
				Gaps:      orEmpty(p.HardSkills.TechnicalProficiency.Gaps),
			},
			Recommendations: orEmpty(p.HardSkills.Recommendations),
		},
		SoftSkills: models.SoftSkillsAnalysis{
			Score:                models.MustScore(int(p.SoftSkills.Score)),
			MatchedSkills:        orEmpty(p.SoftSkills.MatchedSkills),
			MissingSkills:        orEmpty(p.SoftSkills.MissingSkills),
			LeadershipIndicators: orEmpty(p.SoftSkills.LeadershipIndicators),
			Recommendations:      orEmpty(p.SoftSkills.Recommendations),
		},
		RecruiterTips: models.RecruiterTipsAnalysis{
			Score: models.MustScore(int(p.RecruiterTips.Score)),
			JobLevelMatch: models.JobLevelMatch{
				Assessment:     p.RecruiterTips.JobLevelMatch.Assessment,
				Recommendation: p.RecruiterTips.JobLevelMatch.Recommendation,
			},
			MeasurableResults: models.MeasurableResults{
				Present: orEmpty(p.RecruiterTips.MeasurableResults.Present),
				Missing: orEmpty(p.RecruiterTips.MeasurableResults.Missing),
			},
			ResumeTone: models.ResumeTone{
				Assessment:   p.RecruiterTips.ResumeTone.Assessment,
				Improvements: orEmpty(p.RecruiterTips.ResumeTone.Improvements),
			},
			WebPresence: models.WebPresence{
				Mentioned:   orEmpty(p.RecruiterTips.WebPresence.Mentioned),
				Recommended: orEmpty(p.RecruiterTips.WebPresence.Recommended),
			},
			// The provider contract carries no recruiter-tips recommendations
			Recommendations: []string{},
		},
		Overall: models.OverallAnalysis{
			TotalScore: models.MustScore(int(p.Overall.TotalScore)),
			ApplyingFor: models.ApplyingFor{
				JobTitle:    p.Overall.ApplyingFor.JobTitle,
				Explanation: p.Overall.ApplyingFor.Explanation,
			},
			ShortlistRecommendation: models.ShortlistRecommendation{
				Decision:    p.Overall.ShortlistRecommendation.Decision,
				Explanation: p.Overall.ShortlistRecommendation.Explanation,
			},
			CriticalImprovements: orEmpty(p.Overall.CriticalImprovements),
			KeyStrengths:         orEmpty(p.Overall.KeyStrengths),
		},
		CreatedAt: time.Now().UTC(),
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
