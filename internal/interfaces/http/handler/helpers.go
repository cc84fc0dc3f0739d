package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/interfaces/http/dto"
)

// parseID parses the :id path parameter
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// bindListRequest binds pagination query parameters, falling back to defaults
func bindListRequest(c *gin.Context) (dto.ListRequest, error) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, err
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}
	if req.OrderDir == "" {
		req.OrderDir = "desc"
	}
	return req, nil
}

// toSharedFilter converts list parameters to a repository filter
func toSharedFilter(req dto.ListRequest) shared.Filter {
	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = req.Search
	return filter
}

// parseOptionalUUID parses an optional query parameter as a UUID
func parseOptionalUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	value := c.Query(name)
	if value == "" {
		return nil, true
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, false
	}
	return &id, true
}
