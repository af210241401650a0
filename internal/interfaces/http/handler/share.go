package handler

import (
	appledger "github.com/eric6923/finTrack-sub000/internal/application/ledger"
	appshare "github.com/eric6923/finTrack-sub000/internal/application/shareholding"
	"github.com/gin-gonic/gin"
)

// ShareHandler serves the company share profile and monthly distributions
type ShareHandler struct {
	BaseHandler
	profiles      *appshare.ProfileService
	distributions *appledger.DistributionService
}

// NewShareHandler creates a ShareHandler
func NewShareHandler(profiles *appshare.ProfileService, distributions *appledger.DistributionService) *ShareHandler {
	return &ShareHandler{profiles: profiles, distributions: distributions}
}

// DistributeBody selects the month to distribute
//
//	@Description	Distribution request
type DistributeBody struct {
	Date string `json:"date" binding:"required,month" example:"2024-03"`
}

type distributionsQuery struct {
	Period string `form:"period" binding:"month"`
}

// Distribute godoc
//
//	@ID				distributeShares
//	@Summary		Distribute monthly profit
//	@Description	Splits the month's booking profit between shareholders. Running it again for the same month only applies the difference.
//	@Tags			shares
//	@Accept			json
//	@Produce		json
//	@Param			Idempotency-Key	header		string			false	"Idempotency key"
//	@Param			request			body		DistributeBody	true	"Month"
//	@Success		200				{object}	APIResponse[appledger.DistributionResult]
//	@Failure		400				{object}	ErrorResponse
//	@Failure		404				{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/shares/distribute [post]
func (h *ShareHandler) Distribute(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var body DistributeBody
	if !h.bind(c, &body) {
		return
	}
	res, err := h.distributions.DistributeMonthly(c.Request.Context(), tenantID, body.Date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, res)
}

// ListDistributions godoc
//
//	@ID			listDistributions
//	@Summary	List distributions
//	@Tags		shares
//	@Produce	json
//	@Param		period	query		string	false	"Month YYYY-MM"
//	@Success	200		{object}	APIResponse[[]appledger.DistributionResponse]
//	@Security	BearerAuth
//	@Router		/shares/distributions [get]
func (h *ShareHandler) ListDistributions(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q distributionsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	rows, err := h.distributions.ListDistributions(c.Request.Context(), tenantID, q.Period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if rows == nil {
		rows = []appledger.DistributionResponse{}
	}
	h.Success(c, rows)
}

// CreateProfile godoc
//
//	@ID				createShareProfile
//	@Summary		Create the share profile
//	@Description	Creates the tenant's company share profile. A tenant has at most one.
//	@Tags			shares
//	@Accept			json
//	@Produce		json
//	@Param			request	body		appshare.CreateProfileRequest	true	"Profile"
//	@Success		201		{object}	APIResponse[appshare.ProfileResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/shares/profile [post]
func (h *ShareHandler) CreateProfile(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req appshare.CreateProfileRequest
	if !h.bind(c, &req) {
		return
	}
	profile, err := h.profiles.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, profile)
}

// GetProfile godoc
//
//	@ID			getShareProfile
//	@Summary	Get the share profile
//	@Tags		shares
//	@Produce	json
//	@Success	200	{object}	APIResponse[appshare.ProfileResponse]
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/shares/profile [get]
func (h *ShareHandler) GetProfile(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	profile, err := h.profiles.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// AddShareholder godoc
//
//	@ID			addShareholder
//	@Summary	Add a shareholder
//	@Tags		shares
//	@Accept		json
//	@Produce	json
//	@Param		request	body		appshare.ShareholderRequest	true	"Shareholder"
//	@Success	201		{object}	APIResponse[appshare.ShareholderResponse]
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/shares/profile/shareholders [post]
func (h *ShareHandler) AddShareholder(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req appshare.ShareholderRequest
	if !h.bind(c, &req) {
		return
	}
	holder, err := h.profiles.AddShareholder(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, holder)
}
