package commentary

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"github.com/wonny/finhealth/internal/contracts"
)

// ParseCommentary decodes a model response into Commentary.
// Fenced or malformed JSON is repaired before a second decode attempt.
func ParseCommentary(text string) (*contracts.Commentary, error) {
	raw := stripFence(strings.TrimSpace(text))
	if raw == "" {
		return nil, ErrEmptyResponse
	}

	var c contracts.Commentary
	if err := json.Unmarshal([]byte(raw), &c); err == nil {
		return normalize(&c), nil
	}

	repaired, err := jsonrepair.RepairJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("repair commentary json: %w", err)
	}
	var fixed contracts.Commentary
	if err := json.Unmarshal([]byte(repaired), &fixed); err != nil {
		return nil, fmt.Errorf("decode commentary json: %w", err)
	}
	return normalize(&fixed), nil
}

// normalize clamps model-reported scores into their documented ranges
func normalize(c *contracts.Commentary) *contracts.Commentary {
	c.Confidence = clampPtr(c.Confidence, 0, 1)
	c.TaxComplianceScore = clampPtr(c.TaxComplianceScore, 0, 100)
	c.PercentileRank = clampPtr(c.PercentileRank, 0, 100)
	return c
}

func clampPtr(v *float64, lo, hi float64) *float64 {
	if v == nil {
		return nil
	}
	x := *v
	if x < lo {
		x = lo
	}
	if x > hi {
		x = hi
	}
	return &x
}

// CleanMarkdown strips an outer code fence and surrounding whitespace
func CleanMarkdown(input string) string {
	return strings.TrimSpace(stripFence(strings.TrimSpace(input)))
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	body := strings.TrimSuffix(s, "```")
	// drop the opening fence line, including any language tag
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = strings.TrimPrefix(body, "```")
	}
	return strings.TrimSpace(body)
}
