package services

import (
	"github.com/ghuser/possystem/pkg/app"
	"github.com/ghuser/possystem/services/identity/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	Auth *AuthService
}

// New wires identity services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	return &Services{
		Auth: NewAuthService(postgres.NewUserRepository(a.Db), a.Tokens),
	}
}
