package server

import (
	"github.com/google/wire"

	"github.com/fbvsig/opinion_radar/app/display/internal/biz"
	"github.com/fbvsig/opinion_radar/app/display/internal/data"
	"github.com/fbvsig/opinion_radar/app/display/internal/service"
)

// ProviderSet 是展示服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,

	// Data providers
	data.NewData,
	data.NewScoreRepo,

	// Biz providers
	biz.NewScoreUseCase,

	// Service providers
	service.NewDisplayService,
)
