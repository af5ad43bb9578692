package routes

import (
	"github.com/gin-gonic/gin"

	"servihub/internal/adapter/http/handlers"
)

const (
	PathRequests = "/requests"
)

func addMarketplaceRoutes(
	rg *gin.RouterGroup,
	requestHandler *handlers.ServiceRequestHandler,
	proposalHandler *handlers.ProposalHandler,
	acceptanceHandler *handlers.AcceptanceHandler,
	reviewHandler *handlers.ReviewHandler,
) {
	requests := rg.Group(PathRequests)
	{
		requests.POST("", requestHandler.CreateRequest)
		requests.GET("", requestHandler.ListRequests)
		requests.GET("/:request_id", requestHandler.GetRequest)
		requests.POST("/:request_id/cancel", requestHandler.CancelRequest)
		requests.POST("/:request_id/approve", requestHandler.ApproveRequest)
		requests.POST("/:request_id/work/complete", requestHandler.CompleteWork)

		requests.POST("/:request_id/proposals", proposalHandler.SubmitProposal)
		requests.GET("/:request_id/proposals", proposalHandler.ListProposals)
		requests.POST("/:request_id/proposals/reject", proposalHandler.RejectProposal)
		requests.POST("/:request_id/payments/intent", proposalHandler.CreatePaymentIntent)
		requests.POST("/:request_id/proposals/accept", acceptanceHandler.AcceptProposal)

		requests.POST("/:request_id/reviews", reviewHandler.SubmitReview)
	}
}
