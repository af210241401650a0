package router

import (
	appref "github.com/eric6923/finTrack-sub000/internal/application/reference"
	"github.com/eric6923/finTrack-sub000/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers are the handlers served under the API group
type Handlers struct {
	Health       *handler.HealthHandler
	Balances     *handler.BalanceHandler
	Transactions *handler.TransactionHandler
	Profit       *handler.ProfitHandler
	Shares       *handler.ShareHandler
	Reference    *handler.ReferenceHandler
	Statements   *handler.StatementHandler
}

// LedgerRoutes registers the FinTrack API. idempotent guards the POST
// routes that move money.
func LedgerRoutes(r *Router, h Handlers, idempotent gin.HandlerFunc) {
	if idempotent == nil {
		idempotent = func(c *gin.Context) { c.Next() }
	}

	r.Register(NewDomainGroup("system", "").
		GET("/health", h.Health.Health))

	r.Register(NewDomainGroup("balances", "/balances").
		GET("", h.Balances.Get).
		PUT("", h.Balances.SetOpening))

	r.Register(NewDomainGroup("transactions", "/transactions").
		POST("", idempotent, h.Transactions.Record).
		GET("", h.Transactions.List).
		GET("/:id", h.Transactions.Get).
		PUT("/:id", h.Transactions.Update).
		DELETE("/:id", h.Transactions.Delete).
		POST("/:id/settle", idempotent, h.Transactions.Settle).
		GET("/:id/history", h.Transactions.History))

	r.Register(NewDomainGroup("profit", "/profit").
		GET("/month", h.Profit.Month).
		GET("/range", h.Profit.Range))

	shares := NewDomainGroup("shares", "/shares").
		POST("/distribute", idempotent, h.Shares.Distribute).
		GET("/distributions", h.Shares.ListDistributions)
	shares.Group("profile", "/profile").
		POST("", h.Shares.CreateProfile).
		GET("", h.Shares.GetProfile).
		POST("/shareholders", h.Shares.AddShareholder)
	r.Register(shares)

	creators := map[appref.Kind]gin.HandlerFunc{
		appref.KindBus:      h.Reference.CreateBus,
		appref.KindOperator: h.Reference.CreateOperator,
		appref.KindAgent:    h.Reference.CreateAgent,
		appref.KindCategory: h.Reference.CreateCategory,
	}
	for _, kind := range []appref.Kind{appref.KindBus, appref.KindOperator, appref.KindAgent, appref.KindCategory} {
		r.Register(NewDomainGroup(string(kind), "/"+string(kind)).
			POST("", creators[kind]).
			GET("", h.Reference.List(kind)).
			GET("/:id", h.Reference.Get(kind)).
			DELETE("/:id", h.Reference.Delete(kind)))
	}

	r.Register(NewDomainGroup("statements", "/statements").
		GET("", h.Statements.Export))
}
