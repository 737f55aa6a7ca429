package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"voyager-api/internal/logic"
	"voyager-api/internal/svc"
	"voyager-api/internal/types"
)

func DerivativesHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.DerivativesReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := logic.NewDerivativesLogic(r.Context(), svcCtx)
		resp, err := l.Derivatives(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
