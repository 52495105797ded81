package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/BYMO9/griboul/internal/auth"
	"github.com/BYMO9/griboul/internal/logging"
	"github.com/BYMO9/griboul/internal/models"
	"github.com/BYMO9/griboul/internal/repositories"
)

// UserHandler implements the public user endpoints.
type UserHandler struct {
	Users  UserStore
	Videos VideoStore
}

// Get handles GET /api/users/{uid}. Owners see their full profile;
// everyone else gets the public projection.
func (h UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := mux.Vars(r)["uid"]

	user, err := h.Users.FindByUID(ctx, uid)
	if err != nil || !user.IsActive {
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			logging.FromContext(ctx).Error("get user failed", "uid", uid, "error", err)
			respondError(ctx, w, http.StatusInternalServerError, "Failed to get user", err.Error())
			return
		}
		respondError(ctx, w, http.StatusNotFound, "User not found", "")
		return
	}

	identity, authenticated := auth.IdentityFromContext(ctx)
	if authenticated && identity.UID == uid {
		respondJSON(ctx, w, http.StatusOK, map[string]any{
			"user":                   ownUserView(user),
			"hasCompletedOnboarding": user.HasCompletedOnboarding,
		})
		return
	}

	respondJSON(ctx, w, http.StatusOK, userEnvelope{User: user.Public()})
}

// Update handles PUT /api/users/{uid}. Callers may only update themselves.
func (h UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := mux.Vars(r)["uid"]

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized", "No token provided")
		return
	}
	if identity.UID != uid {
		respondError(ctx, w, http.StatusForbidden, "Forbidden", "You can only update your own profile")
		return
	}

	update, errMsg := decodeProfileUpdate(r, true)
	if errMsg != "" {
		respondError(ctx, w, http.StatusBadRequest, "Validation Error", errMsg)
		return
	}

	user, err := h.Users.Update(ctx, uid, update)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "User not found", "")
			return
		}
		logging.FromContext(ctx).Error("update user failed", "uid", uid, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to update user", err.Error())
		return
	}

	respondJSON(ctx, w, http.StatusOK, userEnvelope{
		Message: "Profile updated successfully",
		User:    ownUserView(user),
	})
}

// Delete handles DELETE /api/users/{uid}: soft delete of the account and
// all of its videos. Callers may only delete themselves.
func (h UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := mux.Vars(r)["uid"]

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized", "No token provided")
		return
	}
	if identity.UID != uid {
		respondError(ctx, w, http.StatusForbidden, "Forbidden", "You can only delete your own account")
		return
	}

	if err := h.Users.Deactivate(ctx, uid); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "User not found", "")
			return
		}
		logging.FromContext(ctx).Error("delete user failed", "uid", uid, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to delete account", err.Error())
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{
		"message": "Account deleted successfully",
	})
}

// ListVideos handles GET /api/users/{uid}/videos. Private videos are only
// visible on the owner's own profile.
func (h UserHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := mux.Vars(r)["uid"]
	page, limit := pageParams(r)

	user, err := h.Users.FindByUID(ctx, uid)
	if err != nil || !user.IsActive {
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			logging.FromContext(ctx).Error("get user failed", "uid", uid, "error", err)
			respondError(ctx, w, http.StatusInternalServerError, "Failed to get user videos", err.Error())
			return
		}
		respondError(ctx, w, http.StatusNotFound, "User not found", "")
		return
	}

	identity, authenticated := auth.IdentityFromContext(ctx)
	isOwnProfile := authenticated && identity.UID == uid

	videos, total, err := h.Videos.ListByUser(ctx, user.ID, isOwnProfile, page, limit)
	if err != nil {
		logging.FromContext(ctx).Error("list user videos failed", "uid", uid, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to get user videos", err.Error())
		return
	}

	views := make([]models.PublicVideo, 0, len(videos))
	for _, video := range videos {
		views = append(views, video.Public(nil))
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"videos":     views,
		"pagination": paginate(page, limit, total, len(videos)),
	})
}

// Nearby handles GET /api/users/nearby/{location}.
func (h UserHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	location := mux.Vars(r)["location"]

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	users, err := h.Users.FindNearby(ctx, location, limit)
	if err != nil {
		logging.FromContext(ctx).Error("nearby users failed", "location", location, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to get nearby users", err.Error())
		return
	}

	publicUsers := make([]models.PublicUser, 0, len(users))
	for _, user := range users {
		publicUsers = append(publicUsers, user.Public())
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"users":    publicUsers,
		"location": location,
		"count":    len(publicUsers),
	})
}
