package dbmodels

import (
	"encoding/json"
	"time"

	"github.com/getplenum/plenum-backend/models"
	"github.com/getplenum/plenum-backend/utils"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type DbDeliberationLog struct {
	Id             uuid.UUID `db:"id"`
	Prompt         string    `db:"prompt"`
	Outcomes       []string  `db:"outcomes"`
	ModelCount     int       `db:"model_count"`
	IterationCount int       `db:"iteration_count"`
	Scores         []byte    `db:"scores"`
	Justification  string    `db:"justification"`
	CreatedAt      time.Time `db:"created_at"`
}

const TABLE_DELIBERATION_LOGS = "deliberation_logs"

var DeliberationLogFields = utils.ColumnList[DbDeliberationLog]()

type dbOutcomeScore struct {
	Outcome string `json:"outcome"`
	Score   int64  `json:"score"`
}

func AdaptDeliberationLog(db DbDeliberationLog) (models.DeliberationLog, error) {
	var dbScores []dbOutcomeScore
	if err := json.Unmarshal(db.Scores, &dbScores); err != nil {
		return models.DeliberationLog{}, errors.Wrap(err, "could not unmarshal deliberation scores")
	}

	scores := make([]models.OutcomeScore, len(dbScores))
	for i, score := range dbScores {
		scores[i] = models.OutcomeScore{Outcome: score.Outcome, Score: score.Score}
	}

	return models.DeliberationLog{
		Id:             db.Id,
		Prompt:         db.Prompt,
		Outcomes:       db.Outcomes,
		ModelCount:     db.ModelCount,
		IterationCount: db.IterationCount,
		Scores:         scores,
		Justification:  db.Justification,
		CreatedAt:      db.CreatedAt,
	}, nil
}

func SerializeDeliberationScores(scores []models.OutcomeScore) ([]byte, error) {
	dbScores := make([]dbOutcomeScore, len(scores))
	for i, score := range scores {
		dbScores[i] = dbOutcomeScore{Outcome: score.Outcome, Score: score.Score}
	}
	serialized, err := json.Marshal(dbScores)
	if err != nil {
		return nil, errors.Wrap(err, "could not marshal deliberation scores")
	}
	return serialized, nil
}
