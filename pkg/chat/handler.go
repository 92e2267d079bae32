package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"foundernet/pkg/auth"
	"foundernet/pkg/metrics"
	"foundernet/pkg/response"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
)

type Handler struct {
	manager  *ConnectionManager
	store    MessageStore
	auth     *auth.Middleware
	metrics  *metrics.Metrics
	logger   *slog.Logger
	upgrader websocket.Upgrader
	now      func() time.Time
}

// NewHandler wires chat. allowedOrigins follows the CORS list; "*" accepts any origin.
func NewHandler(manager *ConnectionManager, store MessageStore, authMW *auth.Middleware,
	m *metrics.Metrics, logger *slog.Logger, allowedOrigins []string) *Handler {
	h := &Handler{
		manager: manager,
		store:   store,
		auth:    authMW,
		metrics: m,
		logger:  logger.With("component", "chat"),
		now:     time.Now,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	secured := router.Group("", h.auth.Required())
	secured.GET("/ws/chat", h.serveWebSocket)
	secured.GET("/chat/status", h.getStatus)
	secured.GET("/messages", h.getMessages)
	secured.GET("/chat/conversations", h.getConversations)
}

// @Summary      Open a chat connection
// @Description  Upgrades to a websocket. Browsers pass the token as ?token= since they cannot set headers.
// @Tags         chat
// @Param        token  query  string  false  "Auth token"
// @Success      101
// @Failure      401  {object}  response.APIResponse
// @Router       /ws/chat [get]
func (h *Handler) serveWebSocket(c *gin.Context) {
	p, _ := auth.CurrentPrincipal(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "user", p.UUID, "error", err)
		return
	}

	client := h.manager.AddClient(p.UUID, conn)
	h.logger.Info("user connected", "user", p.UUID)
	h.touch(p.UUID)

	go h.writeLoop(client)
	go h.readLoop(client)
}

func (h *Handler) touch(userID string) {
	if err := h.store.UpdateLastActive(context.Background(), userID, h.now().Unix()); err != nil {
		h.logger.Warn("update last active", "user", userID, "error", err)
	}
}

func (h *Handler) readLoop(client *Client) {
	defer func() {
		h.manager.RemoveClient(client)
		h.logger.Info("user disconnected", "user", client.UserID)
		h.touch(client.UserID)
	}()

	_ = client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var in inbound
		if err := client.Conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read", "user", client.UserID, "error", err)
			}
			return
		}

		switch in.EventType {
		case EventRead:
			h.processReadReceipt(client, in.MessageIDs)
		case "", EventMessage:
			h.processMessage(client, in)
		default:
			h.sendError(client, fmt.Sprintf("unknown event_type %q", in.EventType))
		}
	}
}

func (h *Handler) writeLoop(client *Client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-client.Done:
			return
		case event := <-client.Send:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteJSON(event); err != nil {
				h.logger.Warn("websocket write", "user", client.UserID, "error", err)
				client.close()
				return
			}
		case <-ticker.C:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				client.close()
				return
			}
		}
	}
}

func validateMessage(in inbound, senderID string) error {
	switch {
	case strings.TrimSpace(in.Content) == "":
		return errors.New("message content cannot be empty")
	case len(in.Content) > maxContentLength:
		return fmt.Errorf("message content too long (max %d characters)", maxContentLength)
	case in.ReceiverID == "":
		return errors.New("receiver_id is required")
	case in.ReceiverID == senderID:
		return errors.New("cannot send messages to yourself")
	}
	return nil
}

// processMessage persists before forwarding so every delivered message has an id.
func (h *Handler) processMessage(client *Client, in inbound) {
	if err := validateMessage(in, client.UserID); err != nil {
		h.reply(client, Acknowledgement{EventType: "ack", ClientID: in.ClientID, Status: StatusError, Error: err.Error()})
		h.metrics.ObserveChatMessage(StatusError)
		return
	}

	sentAt := h.now().UTC()
	id, err := h.store.SaveMessage(context.Background(), client.UserID, in.ReceiverID, in.Content, in.MessageType, sentAt.Unix())
	if err != nil {
		msg := "failed to persist message"
		if errors.Is(err, ErrUnknownParticipant) {
			msg = "receiver does not exist"
		} else {
			h.logger.Error("save message", "sender", client.UserID, "receiver", in.ReceiverID, "error", err)
		}
		h.reply(client, Acknowledgement{EventType: "ack", ClientID: in.ClientID, Status: StatusError, Error: msg})
		h.metrics.ObserveChatMessage(StatusError)
		return
	}

	msgID := strconv.FormatInt(id, 10)
	status := StatusQueued
	err = h.manager.SendToUser(in.ReceiverID, Message{
		EventType:   EventMessage,
		ID:          msgID,
		SenderID:    client.UserID,
		ReceiverID:  in.ReceiverID,
		Content:     in.Content,
		MessageType: in.MessageType,
		Timestamp:   sentAt,
	})
	if err == nil {
		status = StatusSent
	} else if !errors.Is(err, ErrUserOffline) {
		h.logger.Warn("forward message", "receiver", in.ReceiverID, "error", err)
	}

	h.reply(client, Acknowledgement{EventType: "ack", ClientID: in.ClientID, MessageID: msgID, Status: status})
	h.metrics.ObserveChatMessage(status)
}

func (h *Handler) processReadReceipt(client *Client, rawIDs []string) {
	ids := make([]int64, 0, len(rawIDs))
	for _, s := range rawIDs {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		h.sendError(client, "message_ids required for read receipt")
		return
	}

	senders, err := h.store.MarkRead(context.Background(), client.UserID, ids)
	if err != nil {
		h.logger.Error("mark read", "user", client.UserID, "error", err)
		h.sendError(client, "failed to mark messages as read")
		return
	}

	receipt := ReadReceipt{EventType: EventRead, MessageIDs: rawIDs, ReadBy: client.UserID}
	for _, sender := range senders {
		if err := h.manager.SendToUser(sender, receipt); err != nil && !errors.Is(err, ErrUserOffline) {
			h.logger.Warn("send read receipt", "to", sender, "error", err)
		}
	}
}

func (h *Handler) reply(client *Client, event any) {
	if err := client.push(event); err != nil {
		h.logger.Warn("reply dropped", "user", client.UserID, "error", err)
	}
}

func (h *Handler) sendError(client *Client, msg string) {
	h.reply(client, ErrorEvent{EventType: "error", Error: msg})
}

// @Summary      Online users
// @Tags         chat
// @Produce      json
// @Success      200  {object}  response.APIResponse
// @Router       /chat/status [get]
func (h *Handler) getStatus(c *gin.Context) {
	users := h.manager.OnlineUsers()
	response.SendAPIResponse(c, http.StatusOK, true, "online status", gin.H{
		"online_users": users,
		"count":        len(users),
	})
}

// @Summary      Conversation history with a peer
// @Description  Messages between the caller and peer_id older than the before cursor, oldest first
// @Tags         chat
// @Produce      json
// @Param        peer_id  query  string  true   "Peer user UUID"
// @Param        limit    query  int     false  "Maximum messages (max 100)" default(50)
// @Param        before   query  int     false  "Epoch seconds cursor"
// @Success      200  {object}  response.APIResponse{data=[]HistoryItem}
// @Failure      400  {object}  response.APIResponse
// @Router       /messages [get]
func (h *Handler) getMessages(c *gin.Context) {
	p, _ := auth.CurrentPrincipal(c)

	peerID := c.Query("peer_id")
	if peerID == "" {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "peer_id is required", nil)
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid limit parameter", nil)
		return
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	before := h.now().Unix() + 1
	if bs := c.Query("before"); bs != "" {
		if before, err = strconv.ParseInt(bs, 10, 64); err != nil {
			response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid before parameter", nil)
			return
		}
	}

	items, err := h.store.History(c.Request.Context(), p.UUID, peerID, limit, before)
	if err != nil {
		h.logger.Error("fetch history", "user", p.UUID, "peer", peerID, "error", err)
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to fetch messages", nil)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "messages", items)
}

// @Summary      Conversations of the caller
// @Description  One entry per peer with the latest message and unread count, newest first
// @Tags         chat
// @Produce      json
// @Success      200  {object}  response.APIResponse{data=[]Conversation}
// @Router       /chat/conversations [get]
func (h *Handler) getConversations(c *gin.Context) {
	p, _ := auth.CurrentPrincipal(c)

	convs, err := h.store.Conversations(c.Request.Context(), p.UUID)
	if err != nil {
		h.logger.Error("fetch conversations", "user", p.UUID, "error", err)
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to fetch conversations", nil)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "conversations", convs)
}
