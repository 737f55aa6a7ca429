package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"voyager-api/internal/logic"
	"voyager-api/internal/svc"
	"voyager-api/internal/types"
)

func OptionsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.OptionsReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := logic.NewOptionsLogic(r.Context(), svcCtx)
		resp, err := l.Options(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
