package users

import (
	"github.com/go-chi/chi/v5"

	"github.com/legitsearch/platform/internal/app"
	"github.com/legitsearch/platform/internal/auth"
)

// Registrar ties the users service into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts the user routes. The interest/skill catalogs are
// public; everything touching a specific account needs a token.
func (reg *Registrar) Register(r chi.Router) {
	svc := NewService(reg.appCtx)

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/interests", svc.HandleListInterests)
		r.Post("/interests", svc.HandleCreateInterest)
		r.Get("/skills", svc.HandleListSkills)
		r.Post("/skills", svc.HandleCreateSkill)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(reg.appCtx.Cfg))

			r.Get("/profile", svc.HandleGetProfile)
			r.Post("/profile", svc.HandleCreateProfile)
			r.Put("/profile", svc.HandleUpdateProfile)
			r.Get("/profile/{user_id:[0-9]+}", svc.HandleGetUserProfile)

			r.Post("/profile/interests/{interest_id}", svc.HandleAttachInterest)
			r.Delete("/profile/interests/{interest_id}", svc.HandleDetachInterest)
			r.Post("/profile/skills/{skill_id}", svc.HandleAttachSkill)
			r.Delete("/profile/skills/{skill_id}", svc.HandleDetachSkill)
			r.Post("/profile/custom-interest", svc.HandleCustomInterest)
			r.Post("/profile/custom-skill", svc.HandleCustomSkill)
			r.Post("/profile/avatar", svc.HandleUploadAvatar)

			r.Get("/search", svc.HandleSearch)
			r.Get("/{user_id:[0-9]+}", svc.HandleGetUser)
		})
	})
}
