// Package fakeapi is an in-memory implementation of the posts API. It exists so that the test
// suite can be checked against a known-good server, and run locally without the real one.
package fakeapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// DefaultPathPrefix is where the API is mounted unless configured otherwise.
const DefaultPathPrefix = "/api"

type envelope struct {
	Data interface{} `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type postRequest struct {
	ID     *int   `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID int    `json:"userId"`
}

// Server serves the posts API over HTTP.
type Server struct {
	echo  *echo.Echo
	store *Store
}

// NewServer creates a Server backed by the given store, with routes under pathPrefix.
func NewServer(store *Store, pathPrefix string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Pre(middleware.RemoveTrailingSlash())

	s := &Server{echo: e, store: store}
	g := e.Group(pathPrefix)
	g.GET("/posts", s.list)
	g.GET("/posts/:id", s.get)
	g.POST("/posts", s.create)
	g.PUT("/posts/:id", s.replace)
	g.DELETE("/posts/:id", s.delete)
	return s
}

// ServeHTTP makes Server usable as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on the given address until Shutdown is called or an error occurs.
func (s *Server) Start(address string) error {
	err := s.echo.Start(address)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops a server that was started with Start.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying router, for adding middleware such as request logging.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) list(c echo.Context) error {
	var userID *int
	if param := c.QueryParam("userId"); param != "" {
		n, err := strconv.Atoi(param)
		if err != nil {
			return c.JSON(http.StatusOK, envelope{Data: []Post{}})
		}
		userID = &n
	}
	return c.JSON(http.StatusOK, envelope{Data: s.store.List(userID)})
}

func (s *Server) get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	p, err := s.store.Get(id)
	if err != nil {
		return notFound(c)
	}
	return c.JSON(http.StatusOK, envelope{Data: p})
}

func (s *Server) create(c echo.Context) error {
	var req postRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	p := Post{Title: req.Title, Body: req.Body, UserID: req.UserID}
	if req.ID != nil {
		p.ID = *req.ID
	}
	created, err := s.store.Create(p)
	if err != nil {
		// Same status json-server style backends return for a duplicate key.
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, envelope{Data: created})
}

func (s *Server) replace(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	var req postRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	updated, err := s.store.Replace(id, Post{Title: req.Title, Body: req.Body, UserID: req.UserID})
	if err != nil {
		return notFound(c)
	}
	return c.JSON(http.StatusOK, envelope{Data: updated})
}

func (s *Server) delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	deleted, err := s.store.Delete(id)
	if err != nil {
		return notFound(c)
	}
	return c.JSON(http.StatusOK, envelope{Data: deleted})
}

func pathID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil
}

func notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, errorResponse{Error: ErrNotFound.Error()})
}
