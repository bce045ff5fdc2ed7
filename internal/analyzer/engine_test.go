package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scanmatch-utils/internal/config"
	"scanmatch-utils/internal/logging"
)

const validResponse = `{
	"searchability": {
		"score": 82,
		"contact_info": {"present": true, "missing": []},
		"sections": {"has_summary": true, "has_proper_headings": true, "properly_formatted_dates": false},
		"job_title_match": {"score": 75, "explanation": "Title closely matches the posting"},
		"recommendations": ["Use consistent date formats"]
	},
	"hard_skills": {
		"score": 88,
		"matched_skills": ["Go", "PostgreSQL"],
		"missing_skills": ["Kubernetes"],
		"technical_proficiency": {"score": 85, "strengths": ["Backend services"], "gaps": ["Orchestration"]},
		"recommendations": ["Highlight container experience"]
	},
	"soft_skills": {
		"score": 70,
		"matched_skills": ["Communication"],
		"missing_skills": ["Mentoring"],
		"leadership_indicators": ["Led migration project"],
		"recommendations": ["Mention team leadership"]
	},
	"recruiter_tips": {
		"score": 77,
		"job_level_match": {"assessment": "Matches mid-level expectations", "recommendation": "Emphasize ownership"},
		"measurable_results": {"present": ["Cut latency by 40%"], "missing": ["Revenue impact"]},
		"resume_tone": {"assessment": "Professional", "improvements": ["Stronger action verbs"]},
		"web_presence": {"mentioned": ["GitHub"], "recommended": ["LinkedIn"]}
	},
	"overall": {
		"total_score": 80,
		"applying_for": {"job_title": "Backend Engineer", "explanation": "Inferred from experience"},
		"shortlist_recommendation": {"decision": "yes", "explanation": "Strong technical match"},
		"critical_improvements": ["Add measurable outcomes"],
		"key_strengths": ["Go expertise"]
	}
}`

// stubProvider returns scripted responses, one per call
type stubProvider struct {
	responses []string
	errs      []error
	calls     int
}

func (p *stubProvider) GenerateAnalysis(ctx context.Context, prompt string) (string, error) {
	i := p.calls
	p.calls++
	var err error
	if i < len(p.errs) {
		err = p.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(p.responses) {
		return p.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

func (p *stubProvider) IsHealthy(ctx context.Context) error { return nil }
func (p *stubProvider) GetProviderName() string             { return "stub" }

func testConfig(maxRetries int) *config.Config {
	cfg := &config.Config{}
	cfg.Analyzer.MaxRetries = maxRetries
	cfg.Analyzer.RetryDelay = 0
	return cfg
}

func newTestEngine(provider Provider, maxRetries int) *Engine {
	return NewEngine(provider, testConfig(maxRetries), logging.NewMultiLogger())
}

func TestAnalyzeMapsValidResponse(t *testing.T) {
	provider := &stubProvider{responses: []string{validResponse}}
	engine := newTestEngine(provider, 3)

	analysis, err := engine.Analyze(context.Background(), longResumeText(), longJobDescription())
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)

	assert.NotEmpty(t, analysis.ID)
	assert.Equal(t, 80, analysis.Overall.TotalScore.Value())
	assert.Equal(t, 82, analysis.Searchability.Score.Value())
	assert.Equal(t, 85, analysis.HardSkills.TechnicalProficiency.Score.Value())
	assert.Equal(t, []string{"Go", "PostgreSQL"}, analysis.HardSkills.MatchedSkills)
	assert.True(t, analysis.Searchability.ContactInfo.Present)
	assert.Equal(t, "yes", analysis.Overall.ShortlistRecommendation.Decision)
	// The provider contract carries no recruiter-tips recommendations;
	// the mapped field is empty, never nil
	assert.NotNil(t, analysis.RecruiterTips.Recommendations)
	assert.Empty(t, analysis.RecruiterTips.Recommendations)
}

func TestAnalyzeRetriesUntilSuccess(t *testing.T) {
	provider := &stubProvider{
		errs:      []error{errors.New("rate limited"), errors.New("rate limited"), nil},
		responses: []string{"", "", validResponse},
	}
	engine := newTestEngine(provider, 3)

	analysis, err := engine.Analyze(context.Background(), longResumeText(), longJobDescription())
	require.NoError(t, err)
	assert.Equal(t, 3, provider.calls)
	assert.Equal(t, 80, analysis.Overall.TotalScore.Value())
}

func TestAnalyzeExhaustsRetries(t *testing.T) {
	provider := &stubProvider{
		errs: []error{errors.New("down"), errors.New("down"), errors.New("down")},
	}
	engine := newTestEngine(provider, 3)

	_, err := engine.Analyze(context.Background(), longResumeText(), longJobDescription())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAnalysisFailed)
	assert.Equal(t, 3, provider.calls, "must stop at the attempt ceiling")
}

func TestAnalyzeCleansFencedResponse(t *testing.T) {
	fenced := "Here is the analysis:\n```json\n" + validResponse + "\n```\nLet me know if you need anything else."
	provider := &stubProvider{responses: []string{fenced}}
	engine := newTestEngine(provider, 1)

	analysis, err := engine.Analyze(context.Background(), longResumeText(), longJobDescription())
	require.NoError(t, err)
	assert.Equal(t, 80, analysis.Overall.TotalScore.Value())
}

func TestAnalyzeRejectsMalformedResponses(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"empty response", "   "},
		{"not json", "I could not produce the analysis."},
		{"missing section", `{"searchability": {"score": 80}, "hard_skills": {"score": 80}, "soft_skills": {"score": 80}, "overall": {"total_score": 80}}`},
		{"score out of range", replaceInFixture(t, `"total_score": 80`, `"total_score": 180`)},
		{"score wrong type", replaceInFixture(t, `"total_score": 80`, `"total_score": "80"`)},
		{"array wrong type", replaceInFixture(t, `"key_strengths": ["Go expertise"]`, `"key_strengths": "Go expertise"`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &stubProvider{responses: []string{tt.response}}
			engine := newTestEngine(provider, 1)

			_, err := engine.Analyze(context.Background(), longResumeText(), longJobDescription())
			assert.ErrorIs(t, err, ErrAnalysisFailed)
		})
	}
}

// slowProvider never answers; it waits out whatever deadline it is given
type slowProvider struct {
	calls int
}

func (p *slowProvider) GenerateAnalysis(ctx context.Context, prompt string) (string, error) {
	p.calls++
	<-ctx.Done()
	return "", ctx.Err()
}

func (p *slowProvider) IsHealthy(ctx context.Context) error { return nil }
func (p *slowProvider) GetProviderName() string             { return "slow" }

func TestAnalyzeAppliesPerAttemptTimeout(t *testing.T) {
	provider := &slowProvider{}
	cfg := testConfig(2)
	cfg.Analyzer.Timeout = 10 * time.Millisecond
	engine := NewEngine(provider, cfg, logging.NewMultiLogger())

	start := time.Now()
	_, err := engine.Analyze(context.Background(), longResumeText(), longJobDescription())

	assert.ErrorIs(t, err, ErrAnalysisFailed)
	assert.Equal(t, 2, provider.calls, "each attempt must get its own deadline")
	assert.Less(t, time.Since(start), 2*time.Second, "attempts must be cut off by the configured timeout")
}

func TestAnalyzeHonorsContextBetweenAttempts(t *testing.T) {
	provider := &stubProvider{
		errs: []error{errors.New("down"), errors.New("down"), errors.New("down")},
	}
	cfg := testConfig(3)
	cfg.Analyzer.RetryDelay = time.Minute
	engine := NewEngine(provider, cfg, logging.NewMultiLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Analyze(ctx, longResumeText(), longJobDescription())
	assert.ErrorIs(t, err, ErrAnalysisFailed)
	assert.Equal(t, 1, provider.calls, "canceled context must stop the retry loop")
}

func replaceInFixture(t *testing.T, old, repl string) string {
	t.Helper()
	replaced := strings.Replace(validResponse, old, repl, 1)
	require.NotEqual(t, validResponse, replaced, "fixture fragment %q not found", old)
	return replaced
}

func longResumeText() string {
	return strings.Repeat("Seasoned backend engineer with Go and distributed systems experience. ", 5)
}

func longJobDescription() string {
	return strings.Repeat("We are hiring a backend engineer to build Go services. ", 3)
}
