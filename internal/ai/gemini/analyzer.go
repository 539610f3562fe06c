package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/matchwell/matchwell/internal/ai"
	"github.com/matchwell/matchwell/internal/crm"
	"github.com/matchwell/matchwell/internal/logger"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Analyzer implements ai.Analyzer on top of a Gemini content generator.
type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed analyze_prompt.md
var analyzePromptTemplate string

//go:embed compare_prompt.md
var comparePromptTemplate string

const defaultMaxLogLength = 200

func NewAnalyzer(generator contentGenerator, log *zap.Logger, maxLogLength int) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Analyzer{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Analyze sends the free text to Gemini and parses the structured profile.
// All failures, including unparseable output, are reported as ai.ErrAnalyzer.
func (a *Analyzer) Analyze(ctx context.Context, freeText string) (*crm.Profile, error) {
	freeText = strings.TrimSpace(freeText)
	if freeText == "" {
		return nil, fmt.Errorf("%w: free text is empty", ai.ErrAnalyzer)
	}

	prompt := strings.ReplaceAll(analyzePromptTemplate, "{{FREE_TEXT}}", freeText)

	a.logger.Debug("gemini analyze request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ai.ErrAnalyzer, err)
	}

	a.logger.Debug("gemini analyze response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("%w: parse analyze response: %v", ai.ErrAnalyzer, err)
	}

	profile := &crm.Profile{
		Version:    crm.ProfileVersion,
		Skills:     coerceStrings(data["skills"]),
		Seniority:  coerceString(data["seniority"]),
		Industries: coerceStrings(data["industries"]),
		Keywords:   coerceStrings(data["keywords"]),
		Summary:    coerceString(data["summary"]),
	}

	return profile, nil
}

// Compare asks Gemini to judge the fit between two profiles.
func (a *Analyzer) Compare(ctx context.Context, candidate, position *crm.Profile, rawResume string) (*ai.Assessment, error) {
	if candidate == nil || position == nil {
		return nil, fmt.Errorf("%w: both profiles are required", ai.ErrAnalyzer)
	}

	candidateJSON, err := json.MarshalIndent(candidate, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: marshal candidate profile: %v", ai.ErrAnalyzer, err)
	}

	positionJSON, err := json.MarshalIndent(position, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: marshal position profile: %v", ai.ErrAnalyzer, err)
	}

	prompt := strings.ReplaceAll(comparePromptTemplate, "{{CANDIDATE_JSON}}", string(candidateJSON))
	prompt = strings.ReplaceAll(prompt, "{{POSITION_JSON}}", string(positionJSON))
	prompt = strings.ReplaceAll(prompt, "{{RESUME_TEXT}}", strings.TrimSpace(rawResume))

	a.logger.Debug("gemini compare request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ai.ErrAnalyzer, err)
	}

	a.logger.Debug("gemini compare response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	assessment, err := parseAssessment(raw)
	if err != nil {
		return nil, err
	}

	assessment.Raw = raw
	return assessment, nil
}

func parseAssessment(raw string) (*ai.Assessment, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("%w: parse compare response: %v", ai.ErrAnalyzer, err)
	}

	score := int(coerceFloat(data["score"]))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	tier := strings.ToLower(coerceString(data["tier"]))
	switch tier {
	case ai.TierProceed, ai.TierHold, ai.TierReject:
	default:
		tier = ai.TierHold
	}

	return &ai.Assessment{
		Score:         score,
		Tier:          tier,
		Confidence:    strings.ToLower(coerceString(data["confidence"])),
		MatchedSkills: coerceStrings(data["matched_skills"]),
		MissingSkills: coerceStrings(data["missing_skills"]),
		Rationale:     coerceString(data["rationale"]),
	}, nil
}
