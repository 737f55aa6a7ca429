package handler

import (
	"errors"
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"voyager-api/internal/logic"
	"voyager-api/internal/svc"
	"voyager-api/internal/types"
	"voyager-api/pkg/predict"
)

func PredictHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SymbolReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := logic.NewPredictLogic(r.Context(), svcCtx)
		resp, err := l.Predict(&req)
		switch {
		case errors.Is(err, predict.ErrDisabled):
			httpx.WriteJsonCtx(r.Context(), w, http.StatusServiceUnavailable, map[string]string{
				"error": "commentary is not configured",
			})
		case err != nil:
			httpx.ErrorCtx(r.Context(), w, err)
		default:
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
