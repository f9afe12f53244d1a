package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/travoiq/callrelay/internal/utils"
)

// writeError renders any error as {"detail": "<message>"} with the status
// mapped from the AppError code.
func writeError(c *gin.Context, err error) {
	c.JSON(utils.HTTPStatus(err), gin.H{"detail": utils.Message(err)})
}
