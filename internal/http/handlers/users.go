package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/users (admin)
func (a *API) GetUsers(c *gin.Context) {
	users, err := a.Users.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": len(users)})
}

// GET /api/users/:id
func (a *API) GetUserByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, err := a.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
