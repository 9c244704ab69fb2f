// Package httpapi exposes the draft command surface over JSON/HTTP.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kiliankoe/auctiondraft/internal/game"
	"github.com/kiliankoe/auctiondraft/internal/report"
	"github.com/rs/zerolog/log"
)

const HostTokenHeader = "X-Host-Token"

// Notifier is told about every change so live subscribers can refresh.
type Notifier interface {
	EmitState(code string)
	Evicted(code string)
}

type nopNotifier struct{}

func (nopNotifier) EmitState(string) {}
func (nopNotifier) Evicted(string)   {}

type API struct {
	RM       *game.Registry
	notify   Notifier
	exporter *report.Exporter
	accounts gin.Accounts
}

func New(rm *game.Registry, notify Notifier, exporter *report.Exporter) *API {
	if notify == nil {
		notify = nopNotifier{}
	}
	return &API{RM: rm, notify: notify, exporter: exporter}
}

// WithHostAuth puts session creation behind basic auth.
func (a *API) WithHostAuth(user, pass string) *API {
	a.accounts = gin.Accounts{user: pass}
	return a
}

func (a *API) Register(r gin.IRouter) {
	api := r.Group("/api/sessions")

	create := []gin.HandlerFunc{a.createSession}
	if len(a.accounts) > 0 {
		create = append([]gin.HandlerFunc{gin.BasicAuth(a.accounts)}, create...)
	}
	api.POST("", create...)

	api.GET("/:code", a.withSession, a.getSession)
	api.POST("/:code/join", a.withSession, a.join)
	api.GET("/:code/items", a.withSession, a.items)
	api.GET("/:code/export.csv", a.withSession, a.exportCSV)

	host := api.Group("/:code", a.withSession, a.requireHost)
	host.POST("/start", a.command("start", func(c *gin.Context, s *game.Session) (game.Snapshot, error) {
		return s.StartDraft()
	}))
	host.POST("/nominate", a.command("nominate", func(c *gin.Context, s *game.Session) (game.Snapshot, error) {
		var req struct {
			Nominator string `json:"nominator"`
			Item      string `json:"item"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			return game.Snapshot{}, badRequest{err}
		}
		return s.Nominate(req.Nominator, req.Item)
	}))
	host.POST("/bid", a.command("bid", func(c *gin.Context, s *game.Session) (game.Snapshot, error) {
		var req struct {
			Bidder string `json:"bidder" binding:"required"`
			Amount int    `json:"amount" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			return game.Snapshot{}, badRequest{err}
		}
		return s.Bid(req.Bidder, req.Amount)
	}))
	host.POST("/close", a.closeAuction)
	host.POST("/advance", a.command("advance", func(c *gin.Context, s *game.Session) (game.Snapshot, error) {
		return s.Advance()
	}))
	host.DELETE("", a.evict)
}

type badRequest struct{ err error }

func (b badRequest) Error() string { return "invalid request: " + b.err.Error() }

func (a *API) createSession(c *gin.Context) {
	var req struct {
		StartingBudget int `json:"startingBudget"`
		MaxSlots       int `json:"maxSlots"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, badRequest{err})
			return
		}
	}
	code, hostToken, err := a.RM.Create(game.Rules{StartingBudget: req.StartingBudget, MaxSlots: req.MaxSlots})
	if err != nil {
		writeError(c, err)
		return
	}
	log.Info().Str("code", code).Msg("session created")
	c.JSON(http.StatusCreated, gin.H{"sessionCode": code, "hostToken": hostToken})
}

func (a *API) withSession(c *gin.Context) {
	s, err := a.RM.Get(c.Param("code"))
	if err != nil {
		writeError(c, err)
		c.Abort()
		return
	}
	c.Set("session", s)
	c.Next()
}

func (a *API) requireHost(c *gin.Context) {
	s := session(c)
	if c.GetHeader(HostTokenHeader) != s.HostToken {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": "not_host", "error": "Only the host can do that"})
		return
	}
	c.Next()
}

func session(c *gin.Context) *game.Session {
	return c.MustGet("session").(*game.Session)
}

func (a *API) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, session(c).Snapshot())
}

func (a *API) join(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
		Icon string `json:"icon"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest{err})
		return
	}
	s := session(c)
	snap, err := s.Join(req.Name, req.Icon)
	if errors.Is(err, game.ErrDraftStarted) {
		c.JSON(http.StatusOK, gin.H{"viewer": true, "message": err.Error(), "state": snap})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	log.Info().Str("code", s.Code).Str("name", req.Name).Msg("lobby join")
	a.notify.EmitState(s.Code)
	c.JSON(http.StatusOK, gin.H{"viewer": false, "state": snap})
}

func (a *API) items(c *gin.Context) {
	s := session(c)
	items := s.AvailableItems()
	if items == nil {
		items = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"freeText": s.FreeText(), "items": items})
}

func (a *API) exportCSV(c *gin.Context) {
	s := session(c)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="draft_`+s.Code+`.csv"`)
	c.Status(http.StatusOK)
	if err := report.WriteCSV(c.Writer, s.Snapshot()); err != nil {
		log.Error().Err(err).Str("code", s.Code).Msg("csv export failed")
	}
}

func (a *API) command(name string, run func(*gin.Context, *game.Session) (game.Snapshot, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session(c)
		snap, err := run(c, s)
		if err != nil {
			a.fail(c, s, name, err)
			return
		}
		a.applied(s, name, snap)
		c.JSON(http.StatusOK, snap)
	}
}

func (a *API) closeAuction(c *gin.Context) {
	s := session(c)
	award, snap, err := s.Close()
	if err != nil {
		a.fail(c, s, "close", err)
		return
	}
	log.Info().Str("code", s.Code).Str("item", award.Item).Str("winner", award.Winner).Int("price", award.Price).Msg("item awarded")
	a.applied(s, "close", snap)
	c.JSON(http.StatusOK, gin.H{"award": award, "state": snap})
}

func (a *API) evict(c *gin.Context) {
	s := session(c)
	if err := a.RM.Evict(s.Code); err != nil {
		writeError(c, err)
		return
	}
	a.notify.Evicted(s.Code)
	c.Status(http.StatusNoContent)
}

func (a *API) applied(s *game.Session, name string, snap game.Snapshot) {
	log.Info().Str("code", s.Code).Uint64("version", snap.Version).Str("status", string(snap.Status)).Msg(name)
	if snap.Status == game.StatusFinished {
		a.exporter.Finished(snap)
	}
	a.notify.EmitState(s.Code)
}

func (a *API) fail(c *gin.Context, s *game.Session, name string, err error) {
	if game.IsFault(err) {
		log.Error().Err(err).Str("code", s.Code).Str("command", name).Msg("ledger invariant violated")
	}
	writeError(c, err)
}

func writeError(c *gin.Context, err error) {
	code := game.Code(err)
	var br badRequest
	if errors.As(err, &br) {
		code = "bad_request"
	}
	c.JSON(statusFor(err), gin.H{"code": code, "error": err.Error()})
}

func statusFor(err error) int {
	var br badRequest
	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrSessionNotFound):
		return http.StatusNotFound
	case game.IsFault(err):
		return http.StatusInternalServerError
	case errors.Is(err, game.ErrInvalidPhase),
		errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrNominatorIneligible),
		errors.Is(err, game.ErrAuctionInProgress),
		errors.Is(err, game.ErrNoActiveAuction),
		errors.Is(err, game.ErrDuplicateName),
		errors.Is(err, game.ErrItemAlreadyAwarded):
		return http.StatusConflict
	case game.Code(err) != "internal":
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
