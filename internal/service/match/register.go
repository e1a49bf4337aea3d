package match

import (
	"github.com/go-chi/chi/v5"

	"github.com/legitsearch/platform/internal/app"
	"github.com/legitsearch/platform/internal/auth"
)

// Registrar ties the match service into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts the match routes. Everything requires a token.
func (reg *Registrar) Register(r chi.Router) {
	svc := NewService(reg.appCtx)

	r.Route("/api/matches", func(r chi.Router) {
		r.Use(auth.Middleware(reg.appCtx.Cfg))

		r.Post("/like/{matched_user_id}", svc.HandleLike)
		r.Post("/dislike/{matched_user_id}", svc.HandleDislike)
		r.Get("/", svc.HandleList)
		r.Get("/mutual", svc.HandleMutual)
		r.Get("/likes-count", svc.HandleLikesCount)
	})
}
