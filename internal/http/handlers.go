package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/plateful/plateful/internal/config"
	"github.com/plateful/plateful/internal/mail"
	"github.com/plateful/plateful/internal/media"
	"github.com/plateful/plateful/internal/metrics"
	"github.com/plateful/plateful/internal/payment"
	"github.com/plateful/plateful/internal/queue"
	"github.com/plateful/plateful/internal/repo"
)

const sessionCookie = "token"

// token expiries are written and queried in UTC
var timeNow = func() time.Time { return time.Now().UTC() }

type Handler struct {
	Cfg    *config.Config
	Store  *repo.Store
	Redis  *repo.Redis
	Mail   mail.Mailer
	Media  media.Uploader
	Pay    *payment.Stripe
	Events queue.Publisher
}

func NewHandler(cfg *config.Config, store *repo.Store, rds *repo.Redis, m mail.Mailer, up media.Uploader, pay *payment.Stripe, pub queue.Publisher) *Handler {
	return &Handler{
		Cfg:    cfg,
		Store:  store,
		Redis:  rds,
		Mail:   m,
		Media:  up,
		Pay:    pay,
		Events: pub,
	}
}

func fail(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"success": false, "message": msg})
}

func (h *Handler) sessionTTL() time.Duration {
	days := h.Cfg.SessionTTLDays
	if days <= 0 {
		days = 1
	}
	return time.Duration(days) * 24 * time.Hour
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookie, token, int(h.sessionTTL().Seconds()), "/", "", h.Cfg.Production(), true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", h.Cfg.Production(), true)
}

// authUserID reads the id the session guard attached to the context.
func authUserID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString("uid"))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func countEmail(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.EmailsSent.WithLabelValues(kind, outcome).Inc()
}

// Healthz godoc
// @Summary Liveness probe
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
