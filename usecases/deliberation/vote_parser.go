package deliberation

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/getplenum/plenum-backend/models"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

// Models wrap their structured output in prose in wildly different ways
// depending on the model family. Each strategy is a pure function that either
// recognizes the vote schema in the raw text or passes; they are tried in a
// fixed order and the first one that recognizes the schema wins.
type parseStrategy func(raw string) (models.Vote, bool)

var parseStrategies = []parseStrategy{
	parseDirect,
	parseFencedBlock,
	parseEmbeddedObject,
	parseTagged,
}

// ParseVote reduces one raw model response to a canonical vote. expectedLen is
// the number of named outcomes of the request, or 0 when outcomes are
// positional. An invalid vector is a hard failure: the caller must abort the
// whole deliberation rather than let a guessed vote skew the aggregate.
func ParseVote(raw string, expectedLen int) (models.Vote, error) {
	for _, strategy := range parseStrategies {
		vote, ok := strategy(raw)
		if !ok {
			continue
		}
		if err := vote.Scores.Validate(expectedLen); err != nil {
			return models.Vote{}, err
		}
		return vote, nil
	}
	return models.Vote{}, errors.New("response matches no known vote format")
}

// voteFromJson recognizes the canonical schema in a JSON candidate: an object
// with a numeric "score" array and a string "justification". Non-integer score
// entries do not conform; the vote format is integer-only by construction.
func voteFromJson(candidate string) (models.Vote, bool) {
	if !gjson.Valid(candidate) {
		return models.Vote{}, false
	}
	parsed := gjson.Parse(candidate)
	if !parsed.IsObject() {
		return models.Vote{}, false
	}

	score := parsed.Get("score")
	justification := parsed.Get("justification")
	if !score.IsArray() || justification.Type != gjson.String {
		return models.Vote{}, false
	}

	entries := score.Array()
	scores := make(models.DecisionVector, len(entries))
	for i, entry := range entries {
		if entry.Type != gjson.Number {
			return models.Vote{}, false
		}
		value := entry.Float()
		if value != math.Trunc(value) {
			return models.Vote{}, false
		}
		scores[i] = int64(value)
	}

	return models.Vote{Scores: scores, Justification: justification.String()}, true
}

func parseDirect(raw string) (models.Vote, bool) {
	return voteFromJson(strings.TrimSpace(raw))
}

var fencedBlockRegexp = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")

func parseFencedBlock(raw string) (models.Vote, bool) {
	match := fencedBlockRegexp.FindStringSubmatch(raw)
	if match == nil {
		return models.Vote{}, false
	}
	return voteFromJson(strings.TrimSpace(match[1]))
}

// parseEmbeddedObject scans the text for balanced {...} substrings and tries
// each one in order. Braces inside JSON strings are skipped, so a
// justification containing '{' does not derail the scan.
func parseEmbeddedObject(raw string) (models.Vote, bool) {
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(raw); i++ {
		c := raw[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				if vote, ok := voteFromJson(raw[start : i+1]); ok {
					return vote, true
				}
				start = -1
			}
		}
	}

	return models.Vote{}, false
}

// Legacy tagged format, kept for models that ignore JSON instructions:
// a case-insensitive "SCORE:" with a comma-separated integer list, and a
// "JUSTIFICATION:" running to end-of-text or the next "SCORE:".
var (
	taggedScoreRegexp         = regexp.MustCompile(`(?i)score\s*:\s*([0-9][0-9,\s]*)`)
	taggedJustificationRegexp = regexp.MustCompile(`(?is)justification\s*:\s*(.*?)\s*(?:score\s*:|$)`)
)

func parseTagged(raw string) (models.Vote, bool) {
	scoreMatch := taggedScoreRegexp.FindStringSubmatch(raw)
	if scoreMatch == nil {
		return models.Vote{}, false
	}

	parts := strings.Split(scoreMatch[1], ",")
	scores := make(models.DecisionVector, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return models.Vote{}, false
		}
		scores = append(scores, value)
	}
	if len(scores) == 0 {
		return models.Vote{}, false
	}

	justification := ""
	if justificationMatch := taggedJustificationRegexp.FindStringSubmatch(raw); justificationMatch != nil {
		justification = strings.TrimSpace(justificationMatch[1])
	}

	return models.Vote{Scores: scores, Justification: justification}, true
}
