package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-browser/internal/models"
	"catalog-browser/internal/session"
	"catalog-browser/internal/view"
)

// BrowseHandler drives per-session list and detail views.
type BrowseHandler struct {
	src      view.Source
	sessions *session.Store
}

func NewBrowseHandler(src view.Source, sessions *session.Store) *BrowseHandler {
	return &BrowseHandler{
		src:      src,
		sessions: sessions,
	}
}

// CreateSession opens a list view and loads it.
func (h *BrowseHandler) CreateSession(c *gin.Context) {
	list := view.NewListView(h.src)
	list.Load(c.Request.Context())

	id := h.sessions.Create(list, view.NewDetailView(h.src))
	c.JSON(http.StatusCreated, gin.H{
		"session_id": id,
		"view":       list.Snapshot(),
	})
}

// GetSession returns the current list view.
func (h *BrowseHandler) GetSession(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.List.Snapshot())
}

// UpdateCriteria applies a partial criteria change.
func (h *BrowseHandler) UpdateCriteria(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}

	var patch models.CriteriaPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sess.List.Apply(patch))
}

// ClearFilters resets the criteria of the session's list view.
func (h *BrowseHandler) ClearFilters(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.List.ClearFilters())
}

// ShowProduct navigates the session's detail view to a product. A request
// superseded by a later navigation of the same session answers 200 with
// that navigation's state, typically still fetching.
func (h *BrowseHandler) ShowProduct(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}

	s := sess.Detail.Navigate(c.Request.Context(), c.Param("id"))
	status := http.StatusOK
	if s.State != view.DetailLoaded && s.Err != nil {
		status = statusFor(s.Err)
	}
	c.JSON(status, s)
}

// DeleteSession discards a session.
func (h *BrowseHandler) DeleteSession(c *gin.Context) {
	if !h.sessions.Delete(c.Param("sid")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session deleted"})
}

func (h *BrowseHandler) lookup(c *gin.Context) (*session.Session, bool) {
	sess, ok := h.sessions.Get(c.Param("sid"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return sess, true
}
