package container

import (
	app "step-bot/internal/application"
	"step-bot/internal/domain/port"
)

type Container struct {
	UserService     *app.UserService
	AnalysisService *app.AnalysisService
}

func New(userRepo port.UserRepository, analyzer port.StepAnalyzer, history port.AnalysisRepository, opts app.AnalysisOptions) *Container {
	userService := app.NewUserService(userRepo)
	analysisService := app.NewAnalysisService(userService, analyzer, history, opts)

	return &Container{
		UserService:     userService,
		AnalysisService: analysisService,
	}
}
