package app

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/atcnagpur/contentadmin/internal/config"
	"github.com/atcnagpur/contentadmin/internal/models"
	"github.com/atcnagpur/contentadmin/internal/resources"
	"github.com/atcnagpur/contentadmin/internal/synchronizer"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type App struct {
	config   *config.ServerConfig
	registry *resources.Registry
	logger   *zap.SugaredLogger
}

func NewApp(config *config.ServerConfig, registry *resources.Registry, logger *zap.SugaredLogger) *App {
	return &App{
		config:   config,
		registry: registry,
		logger:   logger,
	}
}

func (a *App) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, models.MessageRes{Success: true, Message: "pong"})
}

func (a *App) GetSummary(c *gin.Context) {
	err := a.registry.LoadAll(c.Request.Context())
	res := models.SummaryRes{Success: err == nil, Resources: a.registry.Summary()}
	if err != nil {
		_ = c.Error(err)
		res.Message = synchronizer.Message(err)
		c.JSON(errorStatus(err), res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (a *App) GetRecords(c *gin.Context) {
	s, ok := a.lookup(c)
	if !ok {
		return
	}

	if refresh, _ := strconv.ParseBool(c.Query("refresh")); refresh {
		if err := s.Load(c.Request.Context()); err != nil && !errors.Is(err, synchronizer.ErrStaleResponse) {
			a.fail(c, err)
			return
		}
	}

	a.respondRecords(c, http.StatusOK, s)
}

func (a *App) LoadRecords(c *gin.Context) {
	s, ok := a.lookup(c)
	if !ok {
		return
	}

	if err := s.Load(c.Request.Context()); err != nil && !errors.Is(err, synchronizer.ErrStaleResponse) {
		a.fail(c, err)
		return
	}

	a.respondRecords(c, http.StatusOK, s)
}

func (a *App) CreateRecord(c *gin.Context) {
	s, ok := a.lookup(c)
	if !ok {
		return
	}

	draft, err := bindDraft(c)
	if err != nil {
		a.badRequest(c, err)
		return
	}

	if err := s.Create(c.Request.Context(), draft); err != nil {
		a.fail(c, err)
		return
	}

	a.respondRecords(c, http.StatusCreated, s)
}

func (a *App) UpdateRecord(c *gin.Context) {
	s, ok := a.lookup(c)
	if !ok {
		return
	}
	id, ok := a.recordID(c)
	if !ok {
		return
	}

	draft, err := bindDraft(c)
	if err != nil {
		a.badRequest(c, err)
		return
	}

	if err := s.Update(c.Request.Context(), id, draft); err != nil {
		a.fail(c, err)
		return
	}

	a.respondRecords(c, http.StatusOK, s)
}

// RequestDelete only issues a token; nothing is sent to the backend until
// the token is confirmed.
func (a *App) RequestDelete(c *gin.Context) {
	s, ok := a.lookup(c)
	if !ok {
		return
	}
	id, ok := a.recordID(c)
	if !ok {
		return
	}

	token, err := s.RequestDelete(id)
	if err != nil {
		a.fail(c, err)
		return
	}

	c.JSON(http.StatusAccepted, models.DeleteTokenRes{Success: true, Token: token})
}

func (a *App) ConfirmDelete(c *gin.Context) {
	if err := a.registry.ConfirmDelete(c.Request.Context(), c.Param("token")); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageRes{Success: true, Message: "deleted"})
}

func (a *App) CancelDelete(c *gin.Context) {
	if err := a.registry.CancelDelete(c.Param("token")); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageRes{Success: true, Message: "cancelled"})
}

func (a *App) lookup(c *gin.Context) (*synchronizer.Synchronizer, bool) {
	name := c.Param("name")
	s, ok := a.registry.Lookup(name)
	if !ok {
		c.JSON(http.StatusNotFound, models.MessageRes{Message: "unknown resource " + strconv.Quote(name)})
		return nil, false
	}
	return s, true
}

func (a *App) recordID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		a.badRequest(c, errInvalidID)
		return 0, false
	}
	return id, true
}

func (a *App) respondRecords(c *gin.Context, code int, s *synchronizer.Synchronizer) {
	status := s.Status()
	c.JSON(code, models.RecordsRes{
		Success: true,
		Message: status.Message,
		State:   status.State.String(),
		Records: s.Records(),
	})
}

func (a *App) badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, models.MessageRes{Message: err.Error()})
}

func (a *App) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	code := errorStatus(err)
	if code == http.StatusInternalServerError {
		a.logger.Errorw("unexpected error", "path", c.FullPath(), "error", err)
	}
	c.JSON(code, models.MessageRes{Message: synchronizer.Message(err)})
}
