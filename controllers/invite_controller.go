package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"famhub_server/models"
	"famhub_server/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// InviteController handles HTTP requests for pending-invitation resolution
// and decisions. The caller identity arrives pre-verified from the gateway
// in X-Member-* headers; this layer never authenticates.
type InviteController struct {
	InviteService   *services.PendingInviteService
	DecisionService *services.DecisionService
}

type errorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

type decisionResponse struct {
	Action       string  `json:"action"`
	MembershipID *string `json:"membershipId"`
	AuditID      string  `json:"auditId"`
	Redirect     string  `json:"redirect"`
}

func callerFromRequest(r *http.Request) (services.CallerIdentity, bool) {
	caller := services.CallerIdentity{
		MemberID: r.Header.Get("X-Member-Id"),
		Email:    r.Header.Get("X-Member-Email"),
		Phone:    r.Header.Get("X-Member-Phone"),
	}
	return caller, caller.MemberID != ""
}

func decisionSource(r *http.Request) string {
	if source := r.Header.Get("X-Decision-Source"); source != "" {
		return source
	}
	return models.DecisionSourceWeb
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeDecisionError maps domain errors to structured responses. Unclassified
// errors are logged with the correlation id and returned opaque.
func writeDecisionError(w http.ResponseWriter, err error, correlationID string) {
	switch {
	case errors.Is(err, services.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "INVALID_TOKEN", Message: "Decision token is invalid or expired"})
	case errors.Is(err, services.ErrInviteNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "INVITE_NOT_FOUND", Message: "No matching pending invitation"})
	case errors.Is(err, services.ErrSwitchConfirmationRequired):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "SWITCH_CONFIRMATION_REQUIRED", Message: "Accepting this invitation switches families; explicit confirmation required"})
	case errors.Is(err, services.ErrAlreadyMember):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "ALREADY_MEMBER", Message: "A membership already exists for this family"})
	case errors.Is(err, services.ErrConcurrentConsumption):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "CONCURRENT_CONSUMPTION", Message: "Invitation was already decided; refresh and try again"})
	default:
		log.Printf("decision request %s failed: %v", correlationID, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "INTERNAL_ERROR", Message: "Something went wrong", CorrelationID: correlationID})
	}
}

// ListPendingInvitationsHandler returns every open invitation addressed to
// the caller's identity, plus a decision token.
func (c *InviteController) ListPendingInvitationsHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "VALIDATION_ERROR", Message: "Missing member identity"})
		return
	}

	correlationID := uuid.NewString()
	response, err := c.InviteService.ListPendingInvitations(r.Context(), caller)
	if err != nil {
		log.Printf("pending-invitation lookup %s failed: %v", correlationID, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "INTERNAL_ERROR", Message: "Something went wrong", CorrelationID: correlationID})
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// AcceptInviteHandler consumes one invitation and creates the membership.
func (c *InviteController) AcceptInviteHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "VALIDATION_ERROR", Message: "Missing member identity"})
		return
	}

	var request struct {
		DecisionToken   string `json:"decisionToken"`
		SwitchConfirmed bool   `json:"switchConfirmed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "VALIDATION_ERROR", Message: "Invalid request body"})
		return
	}

	inviteID := mux.Vars(r)["inviteId"]
	correlationID := uuid.NewString()

	result, err := c.DecisionService.Accept(r.Context(), caller, inviteID, request.DecisionToken, request.SwitchConfirmed, decisionSource(r), correlationID)
	if err != nil {
		writeDecisionError(w, err, correlationID)
		return
	}

	membershipID := result.MembershipID
	writeJSON(w, http.StatusOK, decisionResponse{
		Action:       result.Action,
		MembershipID: &membershipID,
		AuditID:      result.AuditID,
		Redirect:     "/families/" + result.FamilyID + "/inventory",
	})
}

// DeclineInviteHandler consumes one invitation without creating a membership.
func (c *InviteController) DeclineInviteHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "VALIDATION_ERROR", Message: "Missing member identity"})
		return
	}

	var request struct {
		DecisionToken string `json:"decisionToken"`
		Reason        string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "VALIDATION_ERROR", Message: "Invalid request body"})
		return
	}

	inviteID := mux.Vars(r)["inviteId"]
	correlationID := uuid.NewString()

	result, err := c.DecisionService.Decline(r.Context(), caller, inviteID, request.DecisionToken, request.Reason, decisionSource(r), correlationID)
	if err != nil {
		writeDecisionError(w, err, correlationID)
		return
	}

	writeJSON(w, http.StatusOK, decisionResponse{
		Action:   result.Action,
		AuditID:  result.AuditID,
		Redirect: "/dashboard",
	})
}

// DeclineAllInvitesHandler declines every open invitation for the caller,
// best-effort per invitation.
func (c *InviteController) DeclineAllInvitesHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "VALIDATION_ERROR", Message: "Missing member identity"})
		return
	}

	var request struct {
		DecisionToken string `json:"decisionToken"`
		Reason        string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "VALIDATION_ERROR", Message: "Invalid request body"})
		return
	}

	correlationID := uuid.NewString()

	result, err := c.DecisionService.DeclineAll(r.Context(), caller, request.DecisionToken, request.Reason, decisionSource(r), correlationID)
	if err != nil {
		writeDecisionError(w, err, correlationID)
		return
	}

	writeJSON(w, http.StatusOK, decisionResponse{
		Action:   result.Action,
		AuditID:  result.AuditID,
		Redirect: "/dashboard",
	})
}
