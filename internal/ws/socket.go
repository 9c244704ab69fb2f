package ws

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/kiliankoe/auctiondraft/internal/game"
	"github.com/kiliankoe/auctiondraft/internal/report"
	"github.com/rs/zerolog/log"
)

const (
	RoleHost        = "host"
	RoleParticipant = "participant"
	RoleViewer      = "viewer"
)

type ConnCtx struct {
	Code  string
	Token string
	Role  string
	Name  string // participant display name, if any
}

// ImageResolver maps an item name to a display image. Purely cosmetic.
type ImageResolver interface {
	ImageURL(name string) string
}

type Server struct {
	RM       *game.Registry
	images   ImageResolver
	exporter *report.Exporter

	mu      sync.RWMutex
	members map[string]map[string]socketio.Conn // sessionCode -> socketID -> Conn
}

func New(rm *game.Registry, images ImageResolver, exporter *report.Exporter) *Server {
	return &Server{RM: rm, images: images, exporter: exporter, members: make(map[string]map[string]socketio.Conn)}
}

type createPayload struct {
	StartingBudget int `json:"startingBudget"`
	MaxSlots       int `json:"maxSlots"`
}

// Mount attaches the Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	// draft:create
	io.OnEvent("/", "draft:create", func(s socketio.Conn, payload createPayload) map[string]any {
		code, hostToken, err := srv.RM.Create(game.Rules{StartingBudget: payload.StartingBudget, MaxSlots: payload.MaxSlots})
		if err != nil {
			return srv.err(s, err)
		}
		srv.attach(s, &ConnCtx{Code: code, Token: hostToken, Role: RoleHost})
		log.Info().Str("sid", s.ID()).Str("code", code).Msg("draft:create")
		srv.emitStateTo(code)
		return map[string]any{"sessionCode": code, "hostToken": hostToken}
	})

	// draft:join registers a participant, or attaches a viewer once the draft runs.
	io.OnEvent("/", "draft:join", func(s socketio.Conn, payload struct {
		SessionCode string `json:"sessionCode"`
		Name        string `json:"name"`
		Icon        string `json:"icon"`
	}) map[string]any {
		sess, err := srv.RM.Get(payload.SessionCode)
		if err != nil {
			return srv.err(s, err)
		}
		snap, err := sess.Join(payload.Name, payload.Icon)
		if errors.Is(err, game.ErrDraftStarted) {
			srv.attach(s, &ConnCtx{Code: sess.Code, Role: RoleViewer, Name: payload.Name})
			log.Info().Str("sid", s.ID()).Str("code", sess.Code).Msg("draft:join as viewer")
			srv.emitStateTo(sess.Code)
			return map[string]any{"role": RoleViewer, "message": err.Error()}
		}
		if err != nil {
			return srv.err(s, err)
		}
		name := snap.Lobby[len(snap.Lobby)-1].Name
		srv.attach(s, &ConnCtx{Code: sess.Code, Role: RoleParticipant, Name: name})
		log.Info().Str("sid", s.ID()).Str("code", sess.Code).Str("name", name).Msg("draft:join")
		srv.emitStateTo(sess.Code)
		return map[string]any{"role": RoleParticipant, "name": name}
	})

	// draft:watch
	io.OnEvent("/", "draft:watch", func(s socketio.Conn, payload struct {
		SessionCode string `json:"sessionCode"`
	}) map[string]any {
		sess, err := srv.RM.Get(payload.SessionCode)
		if err != nil {
			return srv.err(s, err)
		}
		srv.attach(s, &ConnCtx{Code: sess.Code, Role: RoleViewer})
		log.Info().Str("sid", s.ID()).Str("code", sess.Code).Msg("draft:watch")
		srv.emitStateToConn(s, sess)
		return map[string]any{"role": RoleViewer}
	})

	// draft:resume (reconnection)
	io.OnEvent("/", "draft:resume", func(s socketio.Conn, payload struct {
		SessionCode string `json:"sessionCode"`
		Role        string `json:"role"`
		Token       string `json:"token"`
		Name        string `json:"name"`
	}) map[string]any {
		sess, err := srv.RM.Get(payload.SessionCode)
		if err != nil {
			return srv.err(s, err)
		}
		ctx := &ConnCtx{Code: sess.Code, Role: RoleViewer}
		switch payload.Role {
		case RoleHost:
			if payload.Token != sess.HostToken {
				return srv.fail(s, "unauthorized", "Invalid host token")
			}
			ctx.Role, ctx.Token = RoleHost, payload.Token
		case RoleParticipant:
			snap := sess.Snapshot()
			if !isRegistered(snap, payload.Name) {
				return srv.fail(s, "unknown_participant", "No such participant")
			}
			ctx.Role, ctx.Name = RoleParticipant, payload.Name
		}
		srv.attach(s, ctx)
		log.Info().Str("sid", s.ID()).Str("code", sess.Code).Str("role", ctx.Role).Msg("draft:resume")
		srv.emitStateToConn(s, sess)
		return map[string]any{"ok": true, "role": ctx.Role}
	})

	// draft:items lists nominable items not yet drafted.
	io.OnEvent("/", "draft:items", func(s socketio.Conn) map[string]any {
		ctx := s.Context().(*ConnCtx)
		sess, err := srv.RM.Get(ctx.Code)
		if err != nil {
			return srv.err(s, err)
		}
		return map[string]any{"freeText": sess.FreeText(), "items": sess.AvailableItems()}
	})

	io.OnEvent("/", "draft:start", func(s socketio.Conn) map[string]any {
		return srv.hostCommand(s, "draft:start", func(sess *game.Session) (game.Snapshot, error) {
			return sess.StartDraft()
		})
	})

	io.OnEvent("/", "draft:nominate", func(s socketio.Conn, payload struct {
		Nominator string `json:"nominator"`
		Item      string `json:"item"`
	}) map[string]any {
		return srv.hostCommand(s, "draft:nominate", func(sess *game.Session) (game.Snapshot, error) {
			return sess.Nominate(payload.Nominator, payload.Item)
		})
	})

	io.OnEvent("/", "draft:bid", func(s socketio.Conn, payload struct {
		Bidder string `json:"bidder"`
		Amount int    `json:"amount"`
	}) map[string]any {
		return srv.hostCommand(s, "draft:bid", func(sess *game.Session) (game.Snapshot, error) {
			return sess.Bid(payload.Bidder, payload.Amount)
		})
	})

	io.OnEvent("/", "draft:close", func(s socketio.Conn) map[string]any {
		return srv.hostCommand(s, "draft:close", func(sess *game.Session) (game.Snapshot, error) {
			award, snap, err := sess.Close()
			if err == nil {
				log.Info().Str("code", sess.Code).Str("item", award.Item).Str("winner", award.Winner).Int("price", award.Price).Msg("item awarded")
			}
			return snap, err
		})
	})

	io.OnEvent("/", "draft:advance", func(s socketio.Conn) map[string]any {
		return srv.hostCommand(s, "draft:advance", func(sess *game.Session) (game.Snapshot, error) {
			return sess.Advance()
		})
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		if ctx, ok := s.Context().(*ConnCtx); ok && ctx.Code != "" {
			srv.removeMember(ctx.Code, s)
		}
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go func() {
		if err := io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket.io serve failed")
		}
	}()

	// Mount to router
	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

// hostCommand runs a mutating command for the host connection s and pushes
// the result to the room.
func (srv *Server) hostCommand(s socketio.Conn, event string, run func(*game.Session) (game.Snapshot, error)) map[string]any {
	ctx, _ := s.Context().(*ConnCtx)
	if ctx == nil || ctx.Role != RoleHost {
		return srv.fail(s, "not_host", "Only the host can do that")
	}
	sess, err := srv.RM.Get(ctx.Code)
	if err != nil {
		return srv.err(s, err)
	}
	snap, err := run(sess)
	if err != nil {
		if game.IsFault(err) {
			log.Error().Err(err).Str("code", ctx.Code).Str("event", event).Msg("ledger invariant violated")
		}
		return srv.err(s, err)
	}
	log.Info().Str("code", ctx.Code).Uint64("version", snap.Version).Str("status", string(snap.Status)).Msg(event)
	// Only the transition itself can succeed with a finished snapshot.
	if snap.Status == game.StatusFinished {
		srv.exporter.Finished(snap)
	}
	srv.emitStateTo(ctx.Code)
	return map[string]any{"ok": true, "version": snap.Version}
}

func (srv *Server) attach(s socketio.Conn, ctx *ConnCtx) {
	if prev, ok := s.Context().(*ConnCtx); ok && prev.Code != "" && prev.Code != ctx.Code {
		s.Leave(prev.Code)
		srv.removeMember(prev.Code, s)
	}
	s.SetContext(ctx)
	s.Join(ctx.Code)
	srv.addMember(ctx.Code, s)
}

func (srv *Server) addMember(code string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.members[code] == nil {
		srv.members[code] = make(map[string]socketio.Conn)
	}
	srv.members[code][c.ID()] = c
}

func (srv *Server) removeMember(code string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if m := srv.members[code]; m != nil {
		delete(m, c.ID())
		if len(m) == 0 {
			delete(srv.members, code)
		}
	}
}

func (srv *Server) conns(code string) []socketio.Conn {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	out := make([]socketio.Conn, 0, len(srv.members[code]))
	for _, c := range srv.members[code] {
		out = append(out, c)
	}
	return out
}

// EmitState pushes the current snapshot of code to every member of its room.
func (srv *Server) EmitState(code string) {
	srv.emitStateTo(code)
}

// Evicted tells the room that its session is gone and forgets its members.
func (srv *Server) Evicted(code string) {
	for _, c := range srv.conns(code) {
		c.Emit("draft:closed", map[string]any{"sessionCode": code})
		c.Leave(code)
	}
	srv.mu.Lock()
	delete(srv.members, code)
	srv.mu.Unlock()
	log.Info().Str("code", code).Msg("session evicted")
}

func (srv *Server) emitStateTo(code string) {
	sess, err := srv.RM.Get(code)
	if err != nil {
		return
	}
	snap := sess.Snapshot()
	for _, c := range srv.conns(code) {
		ctx, _ := c.Context().(*ConnCtx)
		c.Emit("draft:state", srv.statePayload(snap, ctx))
	}
}

func (srv *Server) emitStateToConn(c socketio.Conn, sess *game.Session) {
	ctx, _ := c.Context().(*ConnCtx)
	c.Emit("draft:state", srv.statePayload(sess.Snapshot(), ctx))
}

func (srv *Server) statePayload(snap game.Snapshot, ctx *ConnCtx) map[string]any {
	you := map[string]any{"role": RoleViewer}
	if ctx != nil {
		you["role"] = ctx.Role
		if ctx.Name != "" {
			you["name"] = ctx.Name
		}
	}
	payload := map[string]any{
		"state": snap,
		"you":   you,
	}
	if snap.Auction != nil && srv.images != nil {
		payload["image"] = srv.images.ImageURL(snap.Auction.Item)
	}
	return payload
}

func (srv *Server) err(s socketio.Conn, err error) map[string]any {
	return srv.fail(s, game.Code(err), err.Error())
}

func (srv *Server) fail(s socketio.Conn, code, message string) map[string]any {
	s.Emit("error", map[string]any{"code": code, "message": message})
	return map[string]any{"error": message, "code": code}
}

func isRegistered(snap game.Snapshot, name string) bool {
	for _, e := range snap.Lobby {
		if e.Name == name {
			return true
		}
	}
	return snap.Participant(name) != nil
}
