package authsvc

import (
	"github.com/go-chi/chi/v5"

	"github.com/legitsearch/platform/internal/app"
	"github.com/legitsearch/platform/internal/auth"
)

// Registrar ties the auth service into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts the auth routes. /register and /login are public,
// /me requires a bearer token.
func (reg *Registrar) Register(r chi.Router) {
	svc := NewService(reg.appCtx)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", svc.HandleRegister)
		r.Post("/login", svc.HandleLogin)
		r.With(auth.Middleware(reg.appCtx.Cfg)).Get("/me", svc.HandleMe)
	})
}
