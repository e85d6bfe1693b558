// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package subscriptions streams sealed blocks and indexed events over websocket.
package subscriptions

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/thetatoken/tdrop-governance/api/restutil"
	"github.com/thetatoken/tdrop-governance/chain"
	"github.com/thetatoken/tdrop-governance/log"
	"github.com/thetatoken/tdrop-governance/logdb"
	"github.com/thetatoken/tdrop-governance/metrics"
)

var (
	logger = log.WithContext("pkg", "subscriptions")

	metricActiveConns = metrics.LazyLoadGauge("api_active_websocket_count")
)

const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second
	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second
	// send pings to peer with this period, must be less than pongWait
	pingPeriod = (pongWait * 7) / 10
)

type Subscriptions struct {
	chain          *chain.Chain
	logDB          *logdb.LogDB
	backtraceLimit uint32
	upgrader       *websocket.Upgrader
	done           chan struct{}
	wg             sync.WaitGroup
}

type msgReader interface {
	Read() (msgs []any, hasMore bool, err error)
}

// New creates the subscriptions endpoint. Subscribers may start at most backtraceLimit blocks behind the head.
func New(c *chain.Chain, logDB *logdb.LogDB, allowedOrigins []string, backtraceLimit uint32) *Subscriptions {
	return &Subscriptions{
		chain:          c,
		logDB:          logDB,
		backtraceLimit: backtraceLimit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// position parses the pos query, the number of the last block the subscriber already has.
// It defaults to the head.
func (s *Subscriptions) position(req *http.Request) (uint32, error) {
	head := s.chain.Head().Number
	pos, ok, err := restutil.Uint64Query(req, "pos")
	if err != nil || !ok {
		return head, err
	}
	if pos > uint64(head) {
		return 0, restutil.BadRequest(errors.New("pos: beyond the head"))
	}
	if uint64(head)-pos > uint64(s.backtraceLimit) {
		return 0, restutil.Forbidden(errors.New("pos: backtrace limit exceeded"))
	}
	return uint32(pos), nil
}

func (s *Subscriptions) handleSubject(w http.ResponseWriter, req *http.Request) error {
	pos, err := s.position(req)
	if err != nil {
		return err
	}

	subject := mux.Vars(req)["subject"]
	var reader msgReader
	switch subject {
	case "blocks":
		reader = newBlockReader(s.chain, pos)
	case "events":
		filter, err := parseEventCriteria(req)
		if err != nil {
			return err
		}
		reader = newEventReader(req.Context(), s.chain, s.logDB, pos, filter)
	default:
		return restutil.NotFound(errors.Errorf("unknown subject %q", subject))
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has replied to the client already
		logger.Debug("upgrade failed", "err", err)
		return nil
	}

	s.wg.Add(1)
	defer s.wg.Done()
	metricActiveConns().Add(1)
	defer metricActiveConns().Add(-1)
	defer conn.Close()

	closed := make(chan struct{})
	// the read loop handles control frames and notices the peer going away
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read loop ended", "err", err)
				return
			}
		}
	}()

	if err := s.pipe(conn, reader, closed); err != nil {
		logger.Debug("subscription ended", "subject", subject, "err", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	return nil
}

// pipe writes what reader yields until the peer leaves or the endpoint closes.
func (s *Subscriptions) pipe(conn *websocket.Conn, reader msgReader, closed <-chan struct{}) error {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		// taken before reading so that no block sealed meanwhile is missed
		tick := s.chain.NewTicker()
		msgs, hasMore, err := reader.Read()
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		if hasMore {
			select {
			case <-closed:
				return nil
			case <-s.done:
				return nil
			default:
			}
			continue
		}
		select {
		case <-closed:
			return nil
		case <-s.done:
			return nil
		case <-tick:
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

// Close ends every open subscription and waits for them to finish.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{subject}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(s.handleSubject))
}
