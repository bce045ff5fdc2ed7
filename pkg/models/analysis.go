package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ErrScoreOutOfRange is returned when a score value falls outside [0, 100]
var ErrScoreOutOfRange = fmt.Errorf("score must be between 0 and 100")

// Score is a bounded evaluation score in [0, 100]. The zero value is a valid
// score of zero.
type Score struct {
	value int
}

// NewScore validates and wraps a raw score value
func NewScore(value int) (Score, error) {
	if value < 0 || value > 100 {
		return Score{}, fmt.Errorf("%w, got %d", ErrScoreOutOfRange, value)
	}
	return Score{value: value}, nil
}

// MustScore wraps a score value that is already known to be valid. It panics
// on out-of-range input and is meant for values that passed structural
// validation upstream.
func MustScore(value int) Score {
	s, err := NewScore(value)
	if err != nil {
		panic(err)
	}
	return s
}

// Value returns the raw score
func (s Score) Value() int {
	return s.value
}

// IsExcellent reports whether the score is 90 or above
func (s Score) IsExcellent() bool {
	return s.value >= 90
}

// IsGood reports whether the score is 70 or above
func (s Score) IsGood() bool {
	return s.value >= 70
}

// IsFair reports whether the score is 50 or above
func (s Score) IsFair() bool {
	return s.value >= 50
}

// IsPoor reports whether the score is below 50
func (s Score) IsPoor() bool {
	return s.value < 50
}

func (s Score) String() string {
	return strconv.Itoa(s.value)
}

// MarshalJSON encodes the score as a bare number
func (s Score) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.value)
}

// UnmarshalJSON accepts the current bare-number encoding plus the two legacy
// object encodings {"_value": n} and {"value": n} still present in persisted
// job records
func (s *Score) UnmarshalJSON(data []byte) error {
	var number float64
	if err := json.Unmarshal(data, &number); err == nil {
		parsed, err := NewScore(int(number))
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}

	var wrapped struct {
		Underscore *float64 `json:"_value"`
		Plain      *float64 `json:"value"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return fmt.Errorf("invalid score encoding: %w", err)
	}

	var value *float64
	switch {
	case wrapped.Underscore != nil:
		value = wrapped.Underscore
	case wrapped.Plain != nil:
		value = wrapped.Plain
	default:
		return fmt.Errorf("invalid score encoding: %s", string(data))
	}

	parsed, err := NewScore(int(*value))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ContactInfo reports the presence of contact details in the resume
type ContactInfo struct {
	Present bool     `json:"present"`
	Missing []string `json:"missing"`
}

// SectionFlags reports structural properties of the resume document
type SectionFlags struct {
	HasSummary             bool `json:"hasSummary"`
	HasProperHeadings      bool `json:"hasProperHeadings"`
	ProperlyFormattedDates bool `json:"properlyFormattedDates"`
}

// JobTitleMatch scores how well the resume's title aligns with the posting
type JobTitleMatch struct {
	Score       Score  `json:"score"`
	Explanation string `json:"explanation"`
}

// SearchabilityAnalysis covers ATS discoverability of the resume
type SearchabilityAnalysis struct {
	Score           Score         `json:"score"`
	ContactInfo     ContactInfo   `json:"contactInfo"`
	Sections        SectionFlags  `json:"sections"`
	JobTitleMatch   JobTitleMatch `json:"jobTitleMatch"`
	Recommendations []string      `json:"recommendations"`
}

// TechnicalProficiency assesses depth in the matched technical skills
type TechnicalProficiency struct {
	Score     Score    `json:"score"`
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
}

// HardSkillsAnalysis covers technical skill alignment
type HardSkillsAnalysis struct {
	Score                Score                `json:"score"`
	MatchedSkills        []string             `json:"matchedSkills"`
	MissingSkills        []string             `json:"missingSkills"`
	TechnicalProficiency TechnicalProficiency `json:"technicalProficiency"`
	Recommendations      []string             `json:"recommendations"`
}

// SoftSkillsAnalysis covers interpersonal and leadership signals
type SoftSkillsAnalysis struct {
	Score                Score    `json:"score"`
	MatchedSkills        []string `json:"matchedSkills"`
	MissingSkills        []string `json:"missingSkills"`
	LeadershipIndicators []string `json:"leadershipIndicators"`
	Recommendations      []string `json:"recommendations"`
}

// JobLevelMatch assesses seniority fit
type JobLevelMatch struct {
	Assessment     string `json:"assessment"`
	Recommendation string `json:"recommendation"`
}

// MeasurableResults tracks quantified achievements
type MeasurableResults struct {
	Present []string `json:"present"`
	Missing []string `json:"missing"`
}

// ResumeTone assesses the writing style
type ResumeTone struct {
	Assessment   string   `json:"assessment"`
	Improvements []string `json:"improvements"`
}

// WebPresence tracks online profile references
type WebPresence struct {
	Mentioned   []string `json:"mentioned"`
	Recommended []string `json:"recommended"`
}

// RecruiterTipsAnalysis covers the recruiter-perspective assessment
type RecruiterTipsAnalysis struct {
	Score             Score             `json:"score"`
	JobLevelMatch     JobLevelMatch     `json:"jobLevelMatch"`
	MeasurableResults MeasurableResults `json:"measurableResults"`
	ResumeTone        ResumeTone        `json:"resumeTone"`
	WebPresence       WebPresence       `json:"webPresence"`
	Recommendations   []string          `json:"recommendations"`
}

// ApplyingFor is the inferred target position
type ApplyingFor struct {
	JobTitle    string `json:"jobTitle"`
	Explanation string `json:"explanation"`
}

// ShortlistRecommendation is the overall hiring recommendation
type ShortlistRecommendation struct {
	Decision    string `json:"decision"`
	Explanation string `json:"explanation"`
}

// OverallAnalysis aggregates the section results into a final verdict
type OverallAnalysis struct {
	TotalScore              Score                   `json:"totalScore"`
	ApplyingFor             ApplyingFor             `json:"applyingFor"`
	ShortlistRecommendation ShortlistRecommendation `json:"shortlistRecommendation"`
	CriticalImprovements    []string                `json:"criticalImprovements"`
	KeyStrengths            []string                `json:"keyStrengths"`
}

// Analysis is the complete five-section evaluation of a resume against a job
// description
type Analysis struct {
	ID            string                `json:"id"`
	Searchability SearchabilityAnalysis `json:"searchability"`
	HardSkills    HardSkillsAnalysis    `json:"hardSkills"`
	SoftSkills    SoftSkillsAnalysis    `json:"softSkills"`
	RecruiterTips RecruiterTipsAnalysis `json:"recruiterTips"`
	Overall       OverallAnalysis       `json:"overall"`
	CreatedAt     time.Time             `json:"createdAt"`
}
