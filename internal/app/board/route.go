package board

import "github.com/gin-gonic/gin"

// RegisterRoutes wires the board surface. Read endpoints take the optional
// authenticator (anonymous allowed, relation gate decides); mutations take
// the required one.
func RegisterRoutes(rg *gin.RouterGroup, handler Handler, optionalAuth, requireAuth gin.HandlerFunc) {
	boards := rg.Group("/boards")
	{
		boards.GET("", optionalAuth, handler.ListBoards)
		boards.POST("", requireAuth, handler.CreateBoard)

		boards.GET("/:board_id", optionalAuth, handler.GetBoard)
		boards.PUT("/:board_id", requireAuth, handler.UpdateBoard)
		boards.DELETE("/:board_id", requireAuth, handler.DeleteBoard)

		boards.GET("/:board_id/users", optionalAuth, handler.GetBoardUsers)
		boards.POST("/:board_id/users", requireAuth, handler.AddMember)
		boards.GET("/:board_id/users/:user_id", optionalAuth, handler.GetBoardUser)
		boards.DELETE("/:board_id/users/:user_id", requireAuth, handler.RemoveMember)

		boards.GET("/:board_id/tickets", optionalAuth, handler.ListTickets)
		boards.POST("/:board_id/tickets", requireAuth, handler.CreateTicket)
		boards.DELETE("/:board_id/tickets", requireAuth, handler.RemoveTickets)

		boards.GET("/:board_id/tickets/:ticket_id", optionalAuth, handler.GetTicket)
		boards.PUT("/:board_id/tickets/:ticket_id", requireAuth, handler.UpdateTicket)
		boards.DELETE("/:board_id/tickets/:ticket_id", requireAuth, handler.RemoveTicket)

		boards.GET("/:board_id/screenshot", optionalAuth, handler.GetScreenshot)
	}
}
