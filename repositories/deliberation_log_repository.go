package repositories

import (
	"context"

	"github.com/getplenum/plenum-backend/models"
	"github.com/getplenum/plenum-backend/repositories/dbmodels"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewQueryBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

type DeliberationLogRepository struct {
	pool *pgxpool.Pool
}

func NewDeliberationLogRepository(pool *pgxpool.Pool) *DeliberationLogRepository {
	return &DeliberationLogRepository{pool: pool}
}

func (r *DeliberationLogRepository) Liveness(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *DeliberationLogRepository) CreateDeliberationLog(
	ctx context.Context,
	log models.DeliberationLog,
) error {
	scores, err := dbmodels.SerializeDeliberationScores(log.Scores)
	if err != nil {
		return err
	}

	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_DELIBERATION_LOGS).
		Columns(
			"id",
			"prompt",
			"outcomes",
			"model_count",
			"iteration_count",
			"scores",
			"justification",
		).
		Values(
			log.Id,
			log.Prompt,
			log.Outcomes,
			log.ModelCount,
			log.IterationCount,
			scores,
			log.Justification,
		)

	sql, args, err := query.ToSql()
	if err != nil {
		return errors.Wrap(err, "can't build sql query")
	}

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return errors.Wrap(err, "error inserting deliberation log")
	}
	return nil
}

func (r *DeliberationLogRepository) GetDeliberationLogById(
	ctx context.Context,
	id uuid.UUID,
) (models.DeliberationLog, error) {
	query := NewQueryBuilder().
		Select(dbmodels.DeliberationLogFields...).
		From(dbmodels.TABLE_DELIBERATION_LOGS).
		Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return models.DeliberationLog{}, errors.Wrap(err, "can't build sql query")
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return models.DeliberationLog{}, errors.Wrap(err, "error querying deliberation log")
	}

	db, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[dbmodels.DbDeliberationLog])
	if errors.Is(err, pgx.ErrNoRows) {
		return models.DeliberationLog{},
			errors.Wrapf(models.NotFoundError, "deliberation %s", id)
	}
	if err != nil {
		return models.DeliberationLog{}, errors.Wrap(err, "error scanning deliberation log")
	}

	return dbmodels.AdaptDeliberationLog(db)
}
