package usecases

import (
	"github.com/getplenum/plenum-backend/infra"
	"github.com/getplenum/plenum-backend/repositories"
	"github.com/getplenum/plenum-backend/usecases/deliberation"
)

type Usecases struct {
	Repositories repositories.Repositories

	deliberationConfig infra.DeliberationConfiguration
}

type Option func(*options)

type options struct {
	deliberationConfig infra.DeliberationConfiguration
}

func WithDeliberationConfig(cfg infra.DeliberationConfiguration) Option {
	return func(o *options) {
		o.deliberationConfig = cfg
	}
}

func NewUsecases(repositories repositories.Repositories, opts ...Option) Usecases {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	return Usecases{
		Repositories:       repositories,
		deliberationConfig: o.deliberationConfig,
	}
}

func (usecases Usecases) NewLivenessUsecase() LivenessUsecase {
	// A typed nil pointer must not end up behind the interface, or the nil
	// check inside the usecase never fires.
	u := LivenessUsecase{}
	if usecases.Repositories.DeliberationLogRepository != nil {
		u.livenessRepository = usecases.Repositories.DeliberationLogRepository
	}
	return u
}

func (usecases Usecases) NewDeliberationUsecase() deliberation.DeliberationUsecase {
	var logRepository deliberation.DeliberationLogRepository
	if usecases.Repositories.DeliberationLogRepository != nil {
		logRepository = usecases.Repositories.DeliberationLogRepository
	}

	return deliberation.NewDeliberationUsecase(
		usecases.Repositories.ConnectorRepository,
		deliberation.NewFilePromptRenderer(usecases.deliberationConfig.PromptFolder),
		logRepository,
		usecases.deliberationConfig,
	)
}
