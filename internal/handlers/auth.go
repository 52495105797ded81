package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BYMO9/griboul/internal/auth"
	"github.com/BYMO9/griboul/internal/logging"
	"github.com/BYMO9/griboul/internal/models"
	"github.com/BYMO9/griboul/internal/repositories"
)

// AuthHandler implements the authenticated-caller profile endpoints.
type AuthHandler struct {
	Users   UserStore
	NowFunc func() time.Time
}

type createUserRequest struct {
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

type userEnvelope struct {
	Message   string `json:"message,omitempty"`
	User      any    `json:"user"`
	IsNewUser *bool  `json:"isNewUser,omitempty"`
}

// CreateUser handles POST /api/auth/users: upsert on first login. An
// existing account just gets its last-active timestamp refreshed.
func (h AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized", "No token provided")
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	existing, err := h.Users.FindByUID(ctx, identity.UID)
	if err == nil {
		touched, touchErr := h.Users.Touch(ctx, identity.UID)
		if touchErr != nil {
			logger.Error("failed to refresh last active", "uid", identity.UID, "error", touchErr)
			touched = existing
		}
		isNew := false
		respondJSON(ctx, w, http.StatusOK, userEnvelope{
			Message:   "User already exists",
			User:      touched.Public(),
			IsNewUser: &isNew,
		})
		return
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		logger.Error("user lookup failed", "uid", identity.UID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to create user", err.Error())
		return
	}

	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		name = "Unknown Builder"
	}

	user, err := h.Users.Create(ctx, models.User{
		ID:            uuid.NewString(),
		UID:           identity.UID,
		Email:         identity.Email,
		Name:          name,
		Provider:      identity.Provider,
		Notifications: models.DefaultNotificationSettings(),
		LastActiveAt:  h.now(),
	})
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			// Lost a race with a concurrent first login; fall back to
			// the existing-account path.
			touched, touchErr := h.Users.Touch(ctx, identity.UID)
			if touchErr == nil {
				isNew := false
				respondJSON(ctx, w, http.StatusOK, userEnvelope{
					Message:   "User already exists",
					User:      touched.Public(),
					IsNewUser: &isNew,
				})
				return
			}
		}
		logger.Error("failed to create user", "uid", identity.UID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to create user", err.Error())
		return
	}

	isNew := true
	respondJSON(ctx, w, http.StatusCreated, userEnvelope{
		Message:   "User created successfully",
		User:      user.Public(),
		IsNewUser: &isNew,
	})
}

// Me handles GET /api/auth/me.
func (h AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized", "No token provided")
		return
	}

	user, err := h.Users.FindByUID(ctx, identity.UID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "User not found", "")
			return
		}
		logging.FromContext(ctx).Error("get user failed", "uid", identity.UID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to get user", err.Error())
		return
	}

	respondJSON(ctx, w, http.StatusOK, userEnvelope{User: ownUserView(user)})
}

// UpdateMe handles PUT /api/auth/me, persisting only whitelisted fields.
func (h AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized", "No token provided")
		return
	}

	update, errMsg := decodeProfileUpdate(r, false)
	if errMsg != "" {
		respondError(ctx, w, http.StatusBadRequest, "Validation Error", errMsg)
		return
	}

	user, err := h.Users.Update(ctx, identity.UID, update)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "User not found", "")
			return
		}
		logging.FromContext(ctx).Error("update user failed", "uid", identity.UID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to update user", err.Error())
		return
	}

	respondJSON(ctx, w, http.StatusOK, userEnvelope{
		Message: "Profile updated successfully",
		User:    ownUserView(user),
	})
}

type completeOnboardingRequest struct {
	IntroVideoURL string `json:"introVideoUrl"`
}

// CompleteOnboarding handles POST /api/auth/onboarding/complete.
func (h AuthHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized", "No token provided")
		return
	}

	var req completeOnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if strings.TrimSpace(req.IntroVideoURL) == "" {
		respondError(ctx, w, http.StatusBadRequest, "Intro video URL is required", "")
		return
	}

	user, err := h.Users.CompleteOnboarding(ctx, identity.UID, req.IntroVideoURL)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "User not found", "")
			return
		}
		logging.FromContext(ctx).Error("complete onboarding failed", "uid", identity.UID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to complete onboarding", err.Error())
		return
	}

	respondJSON(ctx, w, http.StatusOK, userEnvelope{
		Message: "Onboarding completed successfully",
		User:    ownUserView(user),
	})
}

func (h AuthHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

type profileUpdateRequest struct {
	Name                   *string                      `json:"name"`
	Age                    *int                         `json:"age"`
	Location               *string                      `json:"location"`
	Building               *string                      `json:"building"`
	MiniStatement          *string                      `json:"miniStatement"`
	IsPrivate              *bool                        `json:"isPrivate"`
	Notifications          *models.NotificationSettings `json:"notifications"`
	HasCompletedOnboarding *bool                        `json:"hasCompletedOnboarding"`
}

// decodeProfileUpdate parses and validates a profile update body. Fields
// outside the whitelist are discarded during decoding; they can never
// reach the repository. The onboarding flag is only honored where the
// route allows it.
func decodeProfileUpdate(r *http.Request, allowOnboarding bool) (repositories.ProfileUpdate, string) {
	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return repositories.ProfileUpdate{}, "invalid request body: " + err.Error()
	}

	if req.Age != nil && (*req.Age < 13 || *req.Age > 120) {
		return repositories.ProfileUpdate{}, "age must be between 13 and 120"
	}
	if req.Building != nil && len(*req.Building) > 500 {
		return repositories.ProfileUpdate{}, "building description must be at most 500 characters"
	}
	if req.MiniStatement != nil && len(*req.MiniStatement) > 200 {
		return repositories.ProfileUpdate{}, "mini statement must be at most 200 characters"
	}

	update := repositories.ProfileUpdate{
		Name:          req.Name,
		Age:           req.Age,
		Location:      req.Location,
		Building:      req.Building,
		MiniStatement: req.MiniStatement,
		IsPrivate:     req.IsPrivate,
		Notifications: req.Notifications,
	}
	if allowOnboarding {
		update.HasCompletedOnboarding = req.HasCompletedOnboarding
	}

	return update, ""
}
