package usecases

import (
	"context"
)

type livenessRepository interface {
	Liveness(ctx context.Context) error
}

type LivenessUsecase struct {
	livenessRepository livenessRepository
}

// Liveness reports whether the service can take traffic. Without a database
// the service runs stateless and is always live.
func (u *LivenessUsecase) Liveness(ctx context.Context) error {
	if u.livenessRepository == nil {
		return nil
	}
	return u.livenessRepository.Liveness(ctx)
}
