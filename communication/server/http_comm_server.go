package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"torres/communication"
	"torres/game"
	"torres/gamemaster"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var _ communication.Communicator = (*ServerCommunicator)(nil)

// ServerCommunicator serves a hosted game over HTTP and WebSocket. It also
// implements communication.Communicator for players in the same process.
type ServerCommunicator struct {
	host  *gamemaster.Host
	seats *Seats
	hub   *hub
}

func NewServerCommunicator(host *gamemaster.Host) *ServerCommunicator {
	return &ServerCommunicator{
		host:  host,
		seats: NewSeats(host.NumPlayers()),
		hub:   newHub(),
	}
}

func (sc *ServerCommunicator) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/", sc.handleASCII)
	r.GET("/ascii", sc.handleASCII)
	r.GET("/game_state", sc.handleGameState)
	r.GET("/legal_moves", sc.handleLegalMoves)
	r.POST("/api", sc.handleAPI)

	// WebSocket for players and viewers
	r.GET("/ws", sc.handleWS)
	return r
}

// Start serves on addr until the context is done.
func (sc *ServerCommunicator) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: sc.Router()}
	sc.Relay(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Msgf("torres server listening at %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Relay broadcasts the moves applied to the hosted game, whoever played
// them, until the context is done.
func (sc *ServerCommunicator) Relay(ctx context.Context) {
	updates, unsubscribe := sc.host.Subscribe()
	go func() {
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case u, ok := <-updates:
				if !ok {
					return
				}
				sc.hub.broadcast(communication.TypeMoveUpdate, communication.MoveUpdate{
					Player:     u.Player,
					NextPlayer: u.NextPlayer,
					WireMove:   game.EncodeMove(u.Move),
				})
				if u.GameOver {
					g := sc.host.Game()
					sc.hub.broadcast(communication.TypeGameEnd, communication.GameEnd{
						Winners: g.Winners(),
						Points:  g.PointsPerPlayer(),
					})
				}
			}
		}
	}()
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func (sc *ServerCommunicator) handleASCII(c *gin.Context) {
	c.String(http.StatusOK, sc.host.ASCII())
}

func (sc *ServerCommunicator) handleGameState(c *gin.Context) {
	state, err := sc.host.State()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", state)
}

func (sc *ServerCommunicator) handleLegalMoves(c *gin.Context) {
	player := -1
	if p := c.Query("player"); p != "" {
		var err error
		if player, err = strconv.Atoi(p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player must be a number"})
			return
		}
	}
	c.JSON(http.StatusOK, game.EncodeMoves(sc.host.LegalMoves(player)))
}

// handleAPI runs lifecycle commands and moves without a WebSocket session.
func (sc *ServerCommunicator) handleAPI(c *gin.Context) {
	var req communication.APIRequest
	if err := c.BindJSON(&req); err != nil {
		return
	}
	log.Info().Msgf("received action: %+v", req)

	var resp communication.APIResponse
	switch req.Action {
	case "init":
		resp.Success = sc.host.Init(game.InitMode(req.Mode))
	case "reset":
		resp.Success = sc.host.Reset()
	case "legal_moves":
		resp.Moves = game.EncodeMoves(sc.host.LegalMoves(req.Player))
		resp.Success = true
	default:
		move, err := game.DecodeMove(game.WireMove{Action: game.ActionType(req.Action), X: req.X, Y: req.Y, DestX: req.DestX, DestY: req.DestY})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		err = sc.host.Play(req.Player, move)
		if err != nil {
			log.Info().Err(err).Msg("action could not be performed")
		}
		resp.Success = err == nil
	}
	resp.ASCII = sc.host.ASCII()
	c.JSON(http.StatusOK, resp)
}

func (sc *ServerCommunicator) handleWS(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("failed to upgrade connection")
		return
	}
	client := &conn{ws: ws, session: uuid.NewString()}
	sc.hub.add(client)
	log.Info().Str("session", client.session).Msg("websocket connection established")

	defer func() {
		sc.hub.remove(client)
		if id := sc.seats.Leave(client.session); id >= 0 {
			sc.hub.broadcast(communication.TypePlayerDisconnect, communication.PlayerEvent{ID: id})
		}
		_ = ws.Close()
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("session", client.session).Msg("error reading websocket message")
			}
			return
		}
		var env communication.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			client.sendError(fmt.Sprintf("The send data could not be parsed to JSON. \n Data: %s", data))
			continue
		}
		sc.dispatch(client, env)
	}
}

func (sc *ServerCommunicator) dispatch(client *conn, env communication.Envelope) {
	switch env.Type {
	case communication.TypeMove:
		sc.onMove(client, env.Data)
	case communication.TypeStatusRequest:
		var requests []string
		if err := json.Unmarshal(env.Data, &requests); err != nil {
			client.sendError("status_request needs a list of requests")
			return
		}
		sc.onRequest(client, requests)
	case communication.TypeInfo:
		var info communication.Info
		if err := json.Unmarshal(env.Data, &info); err != nil {
			client.sendError("info needs a type")
			return
		}
		sc.seats.SetType(client.session, info.Type)
	case communication.TypeCommand:
		var commands []string
		if err := json.Unmarshal(env.Data, &commands); err != nil {
			client.sendError("command needs a list of commands")
			return
		}
		sc.onCommand(client, commands)
	default:
		log.Debug().Msgf("unknown message type %q", env.Type)
	}
}

func (sc *ServerCommunicator) onMove(client *conn, data json.RawMessage) {
	if sc.host.Stage() == game.NotStarted {
		client.sendError("The game has not started yet.")
		return
	}
	var wire game.WireMove
	if err := json.Unmarshal(data, &wire); err != nil {
		client.sendError("move could not be parsed")
		return
	}
	valid := false
	if move, err := game.DecodeMove(wire); err == nil {
		valid = sc.host.Play(sc.seats.ID(client.session), move) == nil
	}
	client.send(communication.TypeMoveResponse, communication.MoveResponse{Valid: valid})
}

func (sc *ServerCommunicator) onRequest(client *conn, requests []string) {
	for _, request := range requests {
		switch request {
		case communication.RequestGameState:
			state, err := sc.host.State()
			if err != nil {
				client.sendError(err.Error())
				continue
			}
			client.send(communication.TypeGameStateResponse, json.RawMessage(state))
		case communication.RequestLegalMoves:
			client.send(communication.TypeLegalMovesResponse, game.EncodeMoves(sc.host.LegalMoves(sc.seats.ID(client.session))))
		case communication.RequestPlayerInfo:
			client.send(communication.TypePlayerInfoResponse, communication.PlayerInfo{
				PlayerStatus: sc.seats.Status(),
				PlayerType:   sc.seats.Types(),
				ID:           sc.seats.ID(client.session),
				Session:      client.session,
			})
		}
	}
}

func (sc *ServerCommunicator) onCommand(client *conn, commands []string) {
	for _, command := range commands {
		switch command {
		case communication.CommandReset:
			sc.host.Reset()
		case communication.CommandInit:
			if sc.host.Init("") {
				sc.hub.broadcast(communication.TypeGameStart, nil)
			}
		case communication.CommandJoin:
			id, err := sc.seats.Join(client.session)
			if err != nil {
				client.sendError(fmt.Sprintf("Already %d players connected.", sc.host.NumPlayers()))
				continue
			}
			sc.hub.broadcast(communication.TypePlayerConnect, communication.PlayerEvent{ID: id})
		case communication.CommandLeave:
			if id := sc.seats.Leave(client.session); id >= 0 {
				sc.hub.broadcast(communication.TypePlayerDisconnect, communication.PlayerEvent{ID: id})
			}
		}
	}
}

func (sc *ServerCommunicator) GameState(ctx context.Context) (*game.Torres, error) {
	return sc.host.Game(), nil
}

func (sc *ServerCommunicator) LegalMoves(ctx context.Context, player int) ([]game.Move, error) {
	return sc.host.LegalMoves(player), nil
}

// SendMove reports false for rejected moves and an error only when the game
// can not take moves at all.
func (sc *ServerCommunicator) SendMove(ctx context.Context, player int, move game.Move) (bool, error) {
	err := sc.host.Play(player, move)
	if errors.Is(err, gamemaster.ErrIllegalMove) {
		return false, nil
	}
	return err == nil, err
}
