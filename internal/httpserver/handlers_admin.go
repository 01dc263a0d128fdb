package httpserver

import (
	"log"
	"net/http"

	"shoplab/internal/domain"

	"github.com/gin-gonic/gin"
)

func adminStatsHandler(svc AdminService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := svc.Stats(c.Request.Context(), currentUser(c))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, statsView{
			Users:    st.Users,
			Products: st.Products,
			Orders:   st.Orders,
			Revenue:  domain.FormatCents(st.RevenueCents),
		})
	}
}

func adminOrdersHandler(svc AdminService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.Orders(c.Request.Context(), currentUser(c), c.Query("status"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": toOrderViews(orders)})
	}
}
