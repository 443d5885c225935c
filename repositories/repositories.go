package repositories

import (
	"github.com/getplenum/plenum-backend/infra"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	ConnectorRepository       *LlmConnectorRepository
	DeliberationLogRepository *DeliberationLogRepository
}

func NewRepositories(pool *pgxpool.Pool, llmConfig infra.LlmProviderConfiguration) Repositories {
	var logRepository *DeliberationLogRepository
	if pool != nil {
		logRepository = NewDeliberationLogRepository(pool)
	}

	return Repositories{
		ConnectorRepository:       NewLlmConnectorRepository(llmConfig),
		DeliberationLogRepository: logRepository,
	}
}
