package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"voyager-api/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/assets",
				Handler: AssetsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/market/:symbol",
				Handler: MarketHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/candles/:symbol",
				Handler: CandlesHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/technicals/:symbol",
				Handler: TechnicalsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/derivatives/:symbol",
				Handler: DerivativesHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/options/:ticker",
				Handler: OptionsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/predict/:symbol",
				Handler: PredictHandler(serverCtx),
			},
		},
		rest.WithPrefix("/api/v1"),
	)
}
