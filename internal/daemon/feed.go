package daemon

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Commands
const (
	updateScoreboard = "updateScoreboard"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// feedHub tracks live scoreboard websocket connections so solve and award
// handlers can tell clients to refetch.
type feedHub struct {
	m     sync.RWMutex
	conns map[string]*websocket.Conn
}

func newFeedHub() *feedHub {
	return &feedHub{
		conns: make(map[string]*websocket.Conn),
	}
}

func (h *feedHub) add(ws *websocket.Conn) string {
	wsId := uuid.New().String()
	h.m.Lock()
	h.conns[wsId] = ws
	h.m.Unlock()
	return wsId
}

func (h *feedHub) remove(wsId string) {
	h.m.Lock()
	delete(h.conns, wsId)
	h.m.Unlock()
}

func (h *feedHub) broadcast(command string) {
	h.m.RLock()
	defer h.m.RUnlock()
	for _, ws := range h.conns {
		ws.WriteMessage(websocket.TextMessage, []byte(command))
	}
}

func (d *daemon) solveFeedWebsocket(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("error upgrading websocket connection")
		return
	}

	mt := websocket.TextMessage
	// Construct a type to hold the token
	type WsAuthRequest struct {
		Token string `json:"token"`
	}
	// read the on open message
	req := WsAuthRequest{}
	if err := ws.ReadJSON(&req); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseAbnormalClosure) {
			log.Error().Err(err).Msg("error reading json from websocket connection")
		}
		ws.Close()
		return
	}
	// The feed is open to anonymous clients unless the scoreboard itself
	// requires a login
	if d.conf.Scoreboard.RequireAuth {
		if _, err := d.jwtValidate(req.Token); err != nil {
			ws.WriteMessage(mt, []byte("invalid token"))
			ws.Close()
			return
		}
	}

	wsId := d.feed.add(ws)
	defer func() {
		log.Debug().Msg("closing connection")
		d.feed.remove(wsId)
		ws.Close()
	}()

	for {
		if err = ws.WriteMessage(mt, []byte("hb")); err != nil {
			log.Debug().Msg("client disconnected")
			return
		}
		time.Sleep(5 * time.Second)
	}
}
