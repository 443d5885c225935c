package deliberation

import (
	"math"

	"github.com/getplenum/plenum-backend/models"

	"github.com/cockroachdb/errors"
)

// averageSamples reduces the repeated votes of one model in one round to a
// single representative vector: a per-component arithmetic mean, floored to an
// integer. Justifications are natural language and do not mix, so every
// sample's justification is kept as its own entry for the feedback and
// synthesis stages. With one sample this is the identity.
func averageSamples(votes []models.Vote) (models.DecisionVector, []string, error) {
	if len(votes) == 0 {
		return nil, nil, errors.New("no votes to average")
	}

	width := len(votes[0].Scores)
	justifications := make([]string, len(votes))
	for i, vote := range votes {
		if len(vote.Scores) != width {
			return nil, nil, errors.Newf(
				"sample %d has %d score entries, expected %d", i, len(vote.Scores), width)
		}
		justifications[i] = vote.Justification
	}

	averaged := make(models.DecisionVector, width)
	for k := 0; k < width; k++ {
		var sum int64
		for _, vote := range votes {
			sum += vote.Scores[k]
		}
		averaged[k] = sum / int64(len(votes))
	}

	return averaged, justifications, nil
}

// aggregateVectors combines one vector per model into the round's composite
// vote, as a weighted mean per outcome index. The result is intentionally not
// renormalized to sum back to the full scale: flooring at the sample and
// aggregation stages can leave it a few parts per million short, bounded by
// one part per outcome.
func aggregateVectors(vectors []models.DecisionVector, weights []float64) (models.DecisionVector, error) {
	if len(vectors) == 0 {
		return nil, errors.New("no vectors to aggregate")
	}
	if len(vectors) != len(weights) {
		return nil, errors.Newf("got %d vectors for %d weights", len(vectors), len(weights))
	}

	width := len(vectors[0])
	var totalWeight float64
	for j, vector := range vectors {
		if len(vector) != width {
			return nil, errors.Newf(
				"model %d voted on %d outcomes, expected %d", j, len(vector), width)
		}
		totalWeight += weights[j]
	}
	if totalWeight <= 0 {
		return nil, errors.New("total model weight is zero")
	}

	composite := make(models.DecisionVector, width)
	for k := 0; k < width; k++ {
		var weighted float64
		for j, vector := range vectors {
			weighted += float64(vector[k]) * weights[j]
		}
		composite[k] = int64(math.Floor(weighted / totalWeight))
	}

	return composite, nil
}
