package users

import (
	"net/http"
	"time"

	"github.com/legitsearch/platform/internal/auth"
	"github.com/legitsearch/platform/internal/server"
)

type catalogItem struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Category  *string   `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

type catalogRequest struct {
	Name     string  `json:"name"`
	Category *string `json:"category"`
}

// HandleListInterests returns the interest catalog, ordered by name.
func (s *Service) HandleListInterests(w http.ResponseWriter, r *http.Request) {
	interests, err := s.catalogRepo.ListInterests(r.Context())
	if err != nil {
		server.Error(w, err)
		return
	}
	items := make([]catalogItem, 0, len(interests))
	for _, i := range interests {
		items = append(items, catalogItem{ID: i.ID, Name: i.Name, Category: i.Category, CreatedAt: i.CreatedAt})
	}
	server.JSON(w, http.StatusOK, items)
}

// HandleListSkills returns the skill catalog, ordered by name.
func (s *Service) HandleListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := s.catalogRepo.ListSkills(r.Context())
	if err != nil {
		server.Error(w, err)
		return
	}
	items := make([]catalogItem, 0, len(skills))
	for _, sk := range skills {
		items = append(items, catalogItem{ID: sk.ID, Name: sk.Name, Category: sk.Category, CreatedAt: sk.CreatedAt})
	}
	server.JSON(w, http.StatusOK, items)
}

// HandleCreateInterest adds a catalog interest.
func (s *Service) HandleCreateInterest(w http.ResponseWriter, r *http.Request) {
	var req catalogRequest
	if err := server.Decode(r, &req); err != nil || req.Name == "" {
		server.BadRequest(w, "name is required")
		return
	}
	interest, err := s.catalogRepo.FindOrCreateInterest(r.Context(), req.Name, req.Category)
	if err != nil {
		server.Error(w, err)
		return
	}
	server.JSON(w, http.StatusCreated, catalogItem{ID: interest.ID, Name: interest.Name, Category: interest.Category, CreatedAt: interest.CreatedAt})
}

// HandleCreateSkill adds a catalog skill.
func (s *Service) HandleCreateSkill(w http.ResponseWriter, r *http.Request) {
	var req catalogRequest
	if err := server.Decode(r, &req); err != nil || req.Name == "" {
		server.BadRequest(w, "name is required")
		return
	}
	skill, err := s.catalogRepo.FindOrCreateSkill(r.Context(), req.Name, req.Category)
	if err != nil {
		server.Error(w, err)
		return
	}
	server.JSON(w, http.StatusCreated, catalogItem{ID: skill.ID, Name: skill.Name, Category: skill.Category, CreatedAt: skill.CreatedAt})
}

// HandleAttachInterest adds an existing catalog interest to the
// authenticated user. Requires a profile; attach is idempotent.
func (s *Service) HandleAttachInterest(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	interestID, err := pathID(r, "interest_id")
	if err != nil {
		server.BadRequest(w, "interest_id must be a valid integer")
		return
	}
	if _, err := s.profileRepo.GetByUserID(r.Context(), userID); err != nil {
		server.Error(w, err)
		return
	}

	interest, err := s.catalogRepo.GetInterest(r.Context(), interestID)
	if err != nil {
		server.Error(w, err)
		return
	}
	if err := s.userRepo.AddInterest(r.Context(), userID, interest); err != nil {
		server.Error(w, err)
		return
	}
	server.JSON(w, http.StatusOK, map[string]string{"message": "interest added successfully"})
}

// HandleDetachInterest removes an interest from the user. Removing an
// unattached interest is a no-op.
func (s *Service) HandleDetachInterest(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	interestID, err := pathID(r, "interest_id")
	if err != nil {
		server.BadRequest(w, "interest_id must be a valid integer")
		return
	}

	interest, err := s.catalogRepo.GetInterest(r.Context(), interestID)
	if err != nil {
		server.Error(w, err)
		return
	}
	if err := s.userRepo.RemoveInterest(r.Context(), userID, interest); err != nil {
		server.Error(w, err)
		return
	}
	server.JSON(w, http.StatusOK, map[string]string{"message": "interest removed successfully"})
}

// HandleAttachSkill adds an existing catalog skill to the user.
// Requires a profile, like interest attachment.
func (s *Service) HandleAttachSkill(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	skillID, err := pathID(r, "skill_id")
	if err != nil {
		server.BadRequest(w, "skill_id must be a valid integer")
		return
	}
	if _, err := s.profileRepo.GetByUserID(r.Context(), userID); err != nil {
		server.Error(w, err)
		return
	}

	skill, err := s.catalogRepo.GetSkill(r.Context(), skillID)
	if err != nil {
		server.Error(w, err)
		return
	}
	if err := s.userRepo.AddSkill(r.Context(), userID, skill); err != nil {
		server.Error(w, err)
		return
	}
	server.JSON(w, http.StatusOK, map[string]string{"message": "skill added successfully"})
}

// HandleDetachSkill removes a skill from the user.
func (s *Service) HandleDetachSkill(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	skillID, err := pathID(r, "skill_id")
	if err != nil {
		server.BadRequest(w, "skill_id must be a valid integer")
		return
	}

	skill, err := s.catalogRepo.GetSkill(r.Context(), skillID)
	if err != nil {
		server.Error(w, err)
		return
	}
	if err := s.userRepo.RemoveSkill(r.Context(), userID, skill); err != nil {
		server.Error(w, err)
		return
	}
	server.JSON(w, http.StatusOK, map[string]string{"message": "skill removed successfully"})
}

// HandleCustomInterest find-or-creates an interest by name and
// attaches it in one step. Missing category defaults to "Custom".
func (s *Service) HandleCustomInterest(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req catalogRequest
	if err := server.Decode(r, &req); err != nil || req.Name == "" {
		server.BadRequest(w, "name is required")
		return
	}
	if _, err := s.profileRepo.GetByUserID(r.Context(), userID); err != nil {
		server.Error(w, err)
		return
	}

	category := req.Category
	if category == nil {
		custom := "Custom"
		category = &custom
	}

	interest, err := s.catalogRepo.FindOrCreateInterest(r.Context(), req.Name, category)
	if err != nil {
		server.Error(w, err)
		return
	}
	if err := s.userRepo.AddInterest(r.Context(), userID, interest); err != nil {
		server.Error(w, err)
		return
	}
	server.JSON(w, http.StatusCreated, catalogItem{ID: interest.ID, Name: interest.Name, Category: interest.Category, CreatedAt: interest.CreatedAt})
}

// HandleCustomSkill find-or-creates a skill by name and attaches it.
func (s *Service) HandleCustomSkill(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req catalogRequest
	if err := server.Decode(r, &req); err != nil || req.Name == "" {
		server.BadRequest(w, "name is required")
		return
	}
	if _, err := s.profileRepo.GetByUserID(r.Context(), userID); err != nil {
		server.Error(w, err)
		return
	}

	category := req.Category
	if category == nil {
		custom := "Custom"
		category = &custom
	}

	skill, err := s.catalogRepo.FindOrCreateSkill(r.Context(), req.Name, category)
	if err != nil {
		server.Error(w, err)
		return
	}
	if err := s.userRepo.AddSkill(r.Context(), userID, skill); err != nil {
		server.Error(w, err)
		return
	}
	server.JSON(w, http.StatusCreated, catalogItem{ID: skill.ID, Name: skill.Name, Category: skill.Category, CreatedAt: skill.CreatedAt})
}
