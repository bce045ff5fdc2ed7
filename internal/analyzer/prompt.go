package analyzer

import (
	"fmt"
)

// Provider-safe input caps. Inputs beyond these lengths are silently
// truncated to stay under request-size limits.
const (
	maxResumeLength         = 10000
	maxJobDescriptionLength = 5000
)

// buildAnalysisPrompt creates the strict-JSON analysis prompt shared by all
// providers. The response contract is the five-section payload the engine
// validates.
func buildAnalysisPrompt(resumeText, jobDescriptionText string) string {
	return fmt.Sprintf(`As the Head of Talent Acquisition, conduct a highly critical and objective analysis of this resume against the job description.
Provide a concise and precise ATS analysis with strict adherence to the JSON format below.
No extra text or explanations are permitted before, within, or after the JSON.

Categories:
1. Searchability: Evaluate resume formatting for ATS compatibility
2. Hard Skills: Analyze technical skills match
3. Soft Skills: Evaluate soft skills demonstration
4. Recruiter Tips: Assess overall presentation
5. Overall: Provide comprehensive scoring

JSON Format (Strictly Enforced):
{
  "searchability": {
    "score": <number 0-100>,
    "contact_info": { "present": <boolean>, "missing": ["<string>"] },
    "sections": {
      "has_summary": <boolean>,
      "has_proper_headings": <boolean>,
      "properly_formatted_dates": <boolean>
    },
    "job_title_match": { "score": <number 0-100>, "explanation": "<string>" },
    "recommendations": ["<string>"]
  },
  "hard_skills": {
    "score": <number 0-100>,
    "matched_skills": ["<string>"],
    "missing_skills": ["<string>"],
    "technical_proficiency": {
      "score": <number 0-100>,
      "strengths": ["<string>"],
      "gaps": ["<string>"]
    },
    "recommendations": ["<string>"]
  },
  "soft_skills": {
    "score": <number 0-100>,
    "matched_skills": ["<string>"],
    "missing_skills": ["<string>"],
    "leadership_indicators": ["<string>"],
    "recommendations": ["<string>"]
  },
  "recruiter_tips": {
    "score": <number 0-100>,
    "job_level_match": { "assessment": "<string>", "recommendation": "<string>" },
    "measurable_results": { "present": ["<string>"], "missing": ["<string>"] },
    "resume_tone": { "assessment": "<string>", "improvements": ["<string>"] },
    "web_presence": { "mentioned": ["<string>"], "recommended": ["<string>"] }
  },
  "overall": {
    "total_score": <number 0-100>,
    "applying_for": { "job_title": "<string>", "explanation": "<string>" },
    "shortlist_recommendation": { "decision": "<string>", "explanation": "<string>" },
    "critical_improvements": ["<string>"],
    "key_strengths": ["<string>"]
  }
}

Resume: %s

Job Description: %s
`, resumeText, jobDescriptionText)
}
