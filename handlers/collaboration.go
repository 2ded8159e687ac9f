package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quickcount-api/middleware"
	"quickcount-api/models"
	"quickcount-api/services"
)

type CollaborationHandler struct {
	Directory      *services.DirectoryService
	Collaborations *services.CollaborationService
	WS             *WSHandler
}

func NewCollaborationHandler(directory *services.DirectoryService, collaborations *services.CollaborationService, ws *WSHandler) *CollaborationHandler {
	return &CollaborationHandler{
		Directory:      directory,
		Collaborations: collaborations,
		WS:             ws,
	}
}

// SearchUser resolves an email to a user summary, never matching the caller.
func (h *CollaborationHandler) SearchUser(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var query struct {
		Email string `form:"email" binding:"required,email"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Directory.FindByEmail(c.Request.Context(), query.Email, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No user found with this email"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// SendRequest creates a pending collaboration request addressed by email.
func (h *CollaborationHandler) SendRequest(c *gin.Context) {
	from := models.UserSummary{
		ID:    middleware.GetUserID(c),
		Email: middleware.GetUserEmail(c),
	}

	var req models.SendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, err := h.Directory.FindByEmail(c.Request.Context(), req.Email, from.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lookup failed"})
		return
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No user found with this email"})
		return
	}

	// Denormalized sender name travels with the request
	self, err := h.Directory.FindByEmail(c.Request.Context(), from.Email, "")
	if err != nil || self == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}
	from.Name = self.Name

	request, err := h.Collaborations.SendRequest(c.Request.Context(), from, *target)
	if err != nil {
		switch err {
		case services.ErrSelfRequest:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case services.ErrDuplicateRequest, services.ErrAlreadyLinked:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send request"})
		}
		return
	}

	h.WS.NotifyUser(target.ID, EventRequestCreated, request)

	c.JSON(http.StatusCreated, request)
}

// ListRequests returns the caller's pending incoming requests.
func (h *CollaborationHandler) ListRequests(c *gin.Context) {
	userID := middleware.GetUserID(c)

	requests, err := h.Collaborations.PendingRequests(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests"})
		return
	}

	c.JSON(http.StatusOK, requests)
}

// RespondRequest accepts or rejects a pending request addressed to the caller.
func (h *CollaborationHandler) RespondRequest(c *gin.Context) {
	userID := middleware.GetUserID(c)
	requestID := c.Param("id")

	var req models.RespondRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, collab, err := h.Collaborations.Respond(c.Request.Context(), requestID, userID, *req.Accept)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		case services.ErrNotRecipient:
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case services.ErrAlreadyResponded:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to respond"})
		}
		return
	}

	if request.Status == models.RequestAccepted {
		h.WS.NotifyUser(request.FromUserID, EventRequestAccepted, collab)
	} else {
		h.WS.NotifyUser(request.FromUserID, EventRequestRejected, request)
	}

	c.JSON(http.StatusOK, gin.H{
		"request":       request,
		"collaboration": collab,
	})
}

// ListCollaborations returns everything the caller participates in plus the
// shared-with-me subset.
func (h *CollaborationHandler) ListCollaborations(c *gin.Context) {
	userID := middleware.GetUserID(c)

	list, err := h.Collaborations.Collaborations(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collaborations"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// ToggleSharing flips the budget_shared flag; owner only.
func (h *CollaborationHandler) ToggleSharing(c *gin.Context) {
	userID := middleware.GetUserID(c)
	collabID := c.Param("id")

	collab, err := h.Collaborations.ToggleSharing(c.Request.Context(), collabID, userID)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			c.JSON(http.StatusNotFound, gin.H{"error": "Collaboration not found"})
		case services.ErrNotOwner:
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sharing"})
		}
		return
	}

	h.WS.NotifyUser(collab.User2ID, EventCollaborationUpdated, collab)

	c.JSON(http.StatusOK, collab)
}

// RemoveCollaboration deletes the link for both sides.
func (h *CollaborationHandler) RemoveCollaboration(c *gin.Context) {
	userID := middleware.GetUserID(c)
	collabID := c.Param("id")

	collab, err := h.Collaborations.Remove(c.Request.Context(), collabID, userID)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			c.JSON(http.StatusNotFound, gin.H{"error": "Collaboration not found"})
		case services.ErrNotParticipant:
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove collaboration"})
		}
		return
	}

	other := collab.User1ID
	if other == userID {
		other = collab.User2ID
	}
	h.WS.NotifyUser(other, EventCollaborationRemoved, gin.H{"id": collab.ID})

	c.JSON(http.StatusOK, gin.H{"message": "Collaboration removed"})
}

// SharedBudget returns the owner's budget projection for the collaborator.
func (h *CollaborationHandler) SharedBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)
	collabID := c.Param("id")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	shared, err := h.Collaborations.SharedBudget(c.Request.Context(), collabID, userID, limit)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			c.JSON(http.StatusNotFound, gin.H{"error": "Collaboration not found"})
		case services.ErrNotParticipant, services.ErrBudgetNotShared:
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shared budget"})
		}
		return
	}

	c.JSON(http.StatusOK, shared)
}
