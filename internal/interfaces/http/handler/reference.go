package handler

import (
	appref "github.com/eric6923/finTrack-sub000/internal/application/reference"
	"github.com/gin-gonic/gin"
)

// ReferenceHandler serves buses, operators, agents and categories. Each
// handler method is bound to one kind when routes are registered.
type ReferenceHandler struct {
	BaseHandler
	service *appref.Service
}

// NewReferenceHandler creates a ReferenceHandler
func NewReferenceHandler(service *appref.Service) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

// CreateBus godoc
//
//	@ID			createBus
//	@Summary	Create a bus
//	@Tags		reference
//	@Accept		json
//	@Produce	json
//	@Param		request	body		appref.BusRequest	true	"Bus"
//	@Success	201		{object}	APIResponse[appref.ItemResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/buses [post]
func (h *ReferenceHandler) CreateBus(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req appref.BusRequest
	if !h.bind(c, &req) {
		return
	}
	h.created(c)(h.service.CreateBus(c.Request.Context(), tenantID, req))
}

// CreateOperator godoc
//
//	@ID			createOperator
//	@Summary	Create an operator
//	@Tags		reference
//	@Accept		json
//	@Produce	json
//	@Param		request	body		appref.PartyRequest	true	"Operator"
//	@Success	201		{object}	APIResponse[appref.ItemResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/operators [post]
func (h *ReferenceHandler) CreateOperator(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req appref.PartyRequest
	if !h.bind(c, &req) {
		return
	}
	h.created(c)(h.service.CreateOperator(c.Request.Context(), tenantID, req))
}

// CreateAgent godoc
//
//	@ID			createAgent
//	@Summary	Create an agent
//	@Tags		reference
//	@Accept		json
//	@Produce	json
//	@Param		request	body		appref.PartyRequest	true	"Agent"
//	@Success	201		{object}	APIResponse[appref.ItemResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/agents [post]
func (h *ReferenceHandler) CreateAgent(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req appref.PartyRequest
	if !h.bind(c, &req) {
		return
	}
	h.created(c)(h.service.CreateAgent(c.Request.Context(), tenantID, req))
}

// CreateCategory godoc
//
//	@ID				createCategory
//	@Summary		Create a category
//	@Description	Creates a category. Linking it to a shareholder makes it that shareholder's finance category.
//	@Tags			reference
//	@Accept			json
//	@Produce		json
//	@Param			request	body		appref.CategoryRequest	true	"Category"
//	@Success		201		{object}	APIResponse[appref.ItemResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/categories [post]
func (h *ReferenceHandler) CreateCategory(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req appref.CategoryRequest
	if !h.bind(c, &req) {
		return
	}
	h.created(c)(h.service.CreateCategory(c.Request.Context(), tenantID, req))
}

func (h *ReferenceHandler) created(c *gin.Context) func(*appref.ItemResponse, error) {
	return func(item *appref.ItemResponse, err error) {
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Created(c, item)
	}
}

// List returns the handler listing one kind
//
//	@ID			listReference
//	@Summary	List reference data
//	@Tags		reference
//	@Produce	json
//	@Param		kind	path		string	true	"buses, operators, agents or categories"
//	@Success	200		{object}	APIResponse[[]appref.ItemResponse]
//	@Security	BearerAuth
//	@Router		/{kind} [get]
func (h *ReferenceHandler) List(kind appref.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, ok := h.tenant(c)
		if !ok {
			return
		}
		items, err := h.service.List(c.Request.Context(), tenantID, kind)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, items)
	}
}

// Get returns the handler fetching one item of a kind
//
//	@ID			getReference
//	@Summary	Get a reference item
//	@Tags		reference
//	@Produce	json
//	@Param		kind	path		string	true	"buses, operators, agents or categories"
//	@Param		id		path		string	true	"ID"
//	@Success	200		{object}	APIResponse[appref.ItemResponse]
//	@Failure	404		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/{kind}/{id} [get]
func (h *ReferenceHandler) Get(kind appref.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, ok := h.tenant(c)
		if !ok {
			return
		}
		id, ok := h.pathID(c)
		if !ok {
			return
		}
		item, err := h.service.Get(c.Request.Context(), tenantID, kind, id)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, item)
	}
}

// Delete returns the handler removing one item of a kind. Items still
// referenced by transactions are refused with a conflict.
//
//	@ID			deleteReference
//	@Summary	Delete a reference item
//	@Tags		reference
//	@Param		kind	path	string	true	"buses, operators, agents or categories"
//	@Param		id		path	string	true	"ID"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/{kind}/{id} [delete]
func (h *ReferenceHandler) Delete(kind appref.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, ok := h.tenant(c)
		if !ok {
			return
		}
		id, ok := h.pathID(c)
		if !ok {
			return
		}
		if err := h.service.Delete(c.Request.Context(), tenantID, kind, id); err != nil {
			h.HandleError(c, err)
			return
		}
		h.NoContent(c)
	}
}
