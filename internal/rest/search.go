package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hualinpp/threadhub/domain"
)

// SearchHandler represent the httphandler for full-text search
type SearchHandler struct {
	Service domain.SearchUsecase
}

func NewSearchHandler(svc domain.SearchUsecase) *SearchHandler {
	return &SearchHandler{Service: svc}
}

func searchParams(c *gin.Context) (query string, page, pageSize int64, ok bool) {
	query = strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, ResponseError{Message: domain.ErrBadParamInput.Error()})
		return "", 0, 0, false
	}
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil {
		page = 1
	}
	pageSize, err = strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if err != nil {
		pageSize = 10
	}
	return query, page, pageSize, true
}

// SearchPosts runs a keyword query over the posts index
func (h *SearchHandler) SearchPosts(c *gin.Context) {
	query, page, pageSize, ok := searchParams(c)
	if !ok {
		return
	}

	docs, total, err := h.Service.SearchPosts(c.Request.Context(), query, page, pageSize)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": docs, "total": total})
}

// SearchUsers runs a keyword query over the users index
func (h *SearchHandler) SearchUsers(c *gin.Context) {
	query, page, pageSize, ok := searchParams(c)
	if !ok {
		return
	}

	docs, total, err := h.Service.SearchUsers(c.Request.Context(), query, page, pageSize)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": docs, "total": total})
}
