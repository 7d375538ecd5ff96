package internal

import (
	"regexp"
	"strings"
)

// Tone vocabulary patterns with per-category weights. Technical vocabulary
// is weighted up because its terms are rarely used outside that register;
// casual filler words are weighted down for the opposite reason.
var tonePatterns = []struct {
	tone    string
	pattern *regexp.Regexp
	weight  float64
}{
	{"technical", regexp.MustCompile(`\b(api|function|code|data|algorithm|software|debug|variable|parameter|method|class|object|array|interface|module|system|database|query|framework|library|documentation|compile|runtime|server|client|architecture|deployment)\b`), 1.2},
	{"academic", regexp.MustCompile(`\b(research|study|analysis|theory|hypothesis|methodology|findings|conclusion|literature|evidence|abstract|thesis|dissertation|empirical|experiment|investigation|journal|publication|review|scholarly)\b`), 1.0},
	{"business", regexp.MustCompile(`\b(business|client|project|deadline|meeting|report|strategy|objective|goals|timeline|stakeholder|budget|proposal|contract|partnership|revenue|market|opportunity|initiative|performance|deliverable)\b`), 1.0},
	{"casual", regexp.MustCompile(`\b(hey|hi|hello|thanks|awesome|cool|great|wow|yeah|ok|okay|stuff|thing|like|maybe|probably|basically|actually|pretty|super|totally)\b`), 0.8},
	{"creative", regexp.MustCompile(`\b(story|write|creative|imagine|describe|narrative|character|scene|setting|plot|theme|style|voice|emotion|feeling|expression|artistic|visual|design|concept)\b`), 1.0},
}

// DetectTone classifies text by scoring weighted vocabulary matches per
// register. Ties break toward the earlier category in scan order; text
// matching nothing is "professional".
func DetectTone(text string) string {
	lower := strings.ToLower(text)

	best := "professional"
	maxScore := 0.0
	for _, tp := range tonePatterns {
		score := float64(len(tp.pattern.FindAllString(lower, -1))) * tp.weight
		if score > maxScore {
			maxScore = score
			best = tp.tone
		}
	}
	return best
}
