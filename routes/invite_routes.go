package routes

import (
	"famhub_server/controllers"
	"famhub_server/services"

	"github.com/gorilla/mux"
)

// RegisterInvitationRoutes registers all invitation-decision routes under `/api/invitations`
func RegisterInvitationRoutes(router *mux.Router, inviteService *services.PendingInviteService, decisionService *services.DecisionService) {
	controller := &controllers.InviteController{
		InviteService:   inviteService,
		DecisionService: decisionService,
	}

	inviteRouter := router.PathPrefix("/api/invitations").Subrouter()
	inviteRouter.HandleFunc("/pending", controller.ListPendingInvitationsHandler).Methods("GET")    // List pending invitations for the caller
	inviteRouter.HandleFunc("/decline-all", controller.DeclineAllInvitesHandler).Methods("POST")    // Decline every pending invitation
	inviteRouter.HandleFunc("/{inviteId}/accept", controller.AcceptInviteHandler).Methods("POST")   // Accept one invitation
	inviteRouter.HandleFunc("/{inviteId}/decline", controller.DeclineInviteHandler).Methods("POST") // Decline one invitation
}
