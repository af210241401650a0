package handler

import (
	"net/http"

	appledger "github.com/eric6923/finTrack-sub000/internal/application/ledger"
	"github.com/gin-gonic/gin"
)

// StatementHandler exports ledger statements as CSV
type StatementHandler struct {
	BaseHandler
	statements *appledger.StatementService
}

// NewStatementHandler creates a StatementHandler
func NewStatementHandler(statements *appledger.StatementService) *StatementHandler {
	return &StatementHandler{statements: statements}
}

// Export godoc
//
//	@ID				exportStatement
//	@Summary		Export a statement
//	@Description	Renders the period's transactions as CSV. With object storage configured the file is uploaded and a download link is returned; otherwise the CSV is the response body.
//	@Tags			statements
//	@Produce		json
//	@Produce		text/csv
//	@Param			date	query		string	false	"YYYY-MM or YYYY-MM-DD"
//	@Param			start	query		string	false	"Range start YYYY-MM-DD"
//	@Param			end		query		string	false	"Range end YYYY-MM-DD"
//	@Success		200		{object}	APIResponse[appledger.Statement]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/statements [get]
func (h *StatementHandler) Export(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q rangeQuery
	if !h.bindQuery(c, &q) {
		return
	}
	st, err := h.statements.Export(c.Request.Context(), tenantID, q.Date, q.Start, q.End)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if st.DownloadURL != "" {
		h.Success(c, st)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+st.FileName+`"`)
	c.Data(http.StatusOK, appledger.StatementContentType, st.Data)
}
