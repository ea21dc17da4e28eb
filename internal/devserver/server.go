// Package devserver is a local stand-in for the plant-care assistant. It
// speaks the same multipart/JSON contract as the real endpoint and answers
// with canned advice, so the client can be developed and tested offline.
package devserver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/HMTking/greenify/internal/attachment"
	"github.com/HMTking/greenify/pkg/plantapi"
)

// maxFormBytes caps a request at the attachment limits plus room for text.
const maxFormBytes = attachment.MaxCount*attachment.MaxBytes + 1<<20

// Image describes an uploaded image after validation.
type Image struct {
	Name     string
	MimeType string
	Size     int64
}

// Request is one validated chat turn.
type Request struct {
	SessionID string
	Turn      int
	Text      string
	Images    []Image
}

// ReplyFunc produces the assistant text for a turn. A non-nil error is sent
// back as a 500 with the error text in the "error" field.
type ReplyFunc func(req Request) (string, error)

type Option func(*Server)

// WithToken requires "Authorization: Bearer <token>" on chat requests.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithReply replaces the canned replies.
func WithReply(fn ReplyFunc) Option {
	return func(s *Server) { s.reply = fn }
}

// Server is an http.Handler serving /health and /api/chat.
type Server struct {
	router *gin.Engine
	token  string
	reply  ReplyFunc

	mu       sync.Mutex
	sessions map[string]int
}

// NewServer creates a server with fresh, in-memory sessions.
func NewServer(opts ...Option) *Server {
	s := &Server{
		reply:    CannedReply,
		sessions: make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router = gin.New()
	s.router.Use(gin.Recovery(), requestLogger())
	s.RegisterRoutes(s.router)
	return s
}

// RegisterRoutes attaches the assistant routes to router.
func (s *Server) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", s.handleHealth)
	api := router.Group("/api")
	api.Use(s.requireToken())
	api.POST("/chat", s.handleChat)
}

// ServeHTTP delegates to the gin engine, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions reports how many sessions have been opened.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("devserver request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.token == "" {
			c.Next()
			return
		}
		if c.GetHeader("Authorization") != "Bearer "+s.token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleChat(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormBytes)
	if err := c.Request.ParseMultipartForm(maxFormBytes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	text := strings.TrimSpace(c.PostForm(plantapi.FieldMessage))
	files := c.Request.MultipartForm.File[plantapi.FieldImages]

	if text == "" && len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message or images required"})
		return
	}
	if len(files) > attachment.MaxCount {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d images per message", attachment.MaxCount)})
		return
	}

	images := make([]Image, 0, len(files))
	for _, fh := range files {
		img, status, msg := inspectImage(fh)
		if status != 0 {
			c.JSON(status, gin.H{"error": msg})
			return
		}
		images = append(images, img)
	}

	sessionID, turn, ok := s.nextTurn(c.PostForm(plantapi.FieldSessionID))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}

	reply, err := s.reply(Request{SessionID: sessionID, Turn: turn, Text: text, Images: images})
	if err != nil {
		slog.Warn("devserver reply failed", "session_id", sessionID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	slog.Info("devserver turn", "session_id", sessionID, "turn", turn, "images", len(images))
	c.JSON(http.StatusOK, gin.H{"message": reply, "sessionId": sessionID})
}

// inspectImage checks an upload's size and sniffed type. A zero status means
// the image is acceptable.
func inspectImage(fh *multipart.FileHeader) (Image, int, string) {
	if fh.Size > attachment.MaxBytes {
		return Image{}, http.StatusRequestEntityTooLarge, "image too large: " + fh.Filename
	}

	f, err := fh.Open()
	if err != nil {
		return Image{}, http.StatusBadRequest, "open image failed: " + fh.Filename
	}
	head, err := readHead(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		slog.Warn("read upload failed", "file", fh.Filename, "error", err)
		return Image{}, http.StatusBadRequest, "read image failed: " + fh.Filename
	}

	contentType := http.DetectContentType(head)
	if contentType == "application/octet-stream" {
		contentType = fh.Header.Get("Content-Type")
	}
	if !strings.HasPrefix(contentType, attachment.MimePrefix) {
		return Image{}, http.StatusUnsupportedMediaType, "unsupported image type: " + fh.Filename
	}
	return Image{Name: fh.Filename, MimeType: contentType, Size: fh.Size}, 0, ""
}

// readHead returns up to the first 512 bytes of r, the most content sniffing
// looks at. Short input is not an error.
func readHead(r io.Reader) ([]byte, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return head[:n], nil
}

// nextTurn resolves the session for a request, opening a new one when id is
// empty. It reports false for ids this server never issued.
func (s *Server) nextTurn(id string) (string, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
		s.sessions[id] = 0
		slog.Info("devserver session opened", "session_id", id)
	}
	turns, ok := s.sessions[id]
	if !ok {
		return "", 0, false
	}
	turns++
	s.sessions[id] = turns
	return id, turns, true
}
