package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bassista/quillpad/internal/session"
)

// PromptResponse is the wire form of a pending modal prompt.
type PromptResponse struct {
	Kind    string   `json:"kind"`
	Message string   `json:"message"`
	Level   string   `json:"level,omitempty"`
	Choices []string `json:"choices"`
}

// SessionResponse is the session snapshot rendered to the UI layer.
type SessionResponse struct {
	DisplayName        string          `json:"displayName"`
	Locator            string          `json:"locator,omitempty"`
	Text               string          `json:"text"`
	Dirty              bool            `json:"dirty"`
	AwaitingSaveTarget bool            `json:"awaitingSaveTarget"`
	ExitRequested      bool            `json:"exitRequested"`
	Prompt             *PromptResponse `json:"prompt,omitempty"`
}

func toSessionResponse(st session.State) SessionResponse {
	resp := SessionResponse{
		DisplayName:        st.DisplayName,
		Locator:            st.Locator,
		Text:               st.Text,
		Dirty:              st.Dirty,
		AwaitingSaveTarget: st.PendingSave != nil,
		ExitRequested:      st.ExitRequested,
	}
	if st.Prompt != nil {
		choices := make([]string, 0, len(st.Prompt.Choices))
		for _, ch := range st.Prompt.Choices {
			choices = append(choices, string(ch))
		}
		resp.Prompt = &PromptResponse{
			Kind:    string(st.Prompt.Kind),
			Message: st.Prompt.Message,
			Level:   string(st.Prompt.Level),
			Choices: choices,
		}
	}
	return resp
}

// SessionController exposes the persistence coordinator to the UI layer.
type SessionController struct {
	coordinator *session.Coordinator
}

func NewSessionController(coordinator *session.Coordinator) *SessionController {
	return &SessionController{coordinator: coordinator}
}

// GetSession returns the current session snapshot.
func (sc *SessionController) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, toSessionResponse(sc.coordinator.Snapshot()))
}

type updateTextRequest struct {
	Text *string `json:"text" binding:"required"`
}

// UpdateText replaces the live buffer with the edited text.
func (sc *SessionController) UpdateText(c *gin.Context) {
	var req updateTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sc.coordinator.SetText(*req.Text)))
}

type loadRequest struct {
	Locator string `json:"locator"`
}

// Load opens a document; with an empty locator the last-used one is tried.
func (sc *SessionController) Load(c *gin.Context) {
	var req loadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sc.coordinator.Load(c.Request.Context(), req.Locator)))
}

type saveRequest struct {
	Locator string `json:"locator"`
}

// Save persists the document interactively.
func (sc *SessionController) Save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, _ := sc.coordinator.Save(c.Request.Context(), req.Locator, true)
	c.JSON(http.StatusOK, toSessionResponse(st))
}

type saveAsRequest struct {
	Locator string `json:"locator" binding:"required"`
}

// SaveAs saves to an explicit target, resolving any pending save.
func (sc *SessionController) SaveAs(c *gin.Context) {
	var req saveAsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sc.coordinator.ChooseSaveTarget(c.Request.Context(), req.Locator)))
}

type newDocumentRequest struct {
	Name  string `json:"name"`
	Force bool   `json:"force"`
}

// NewDocument resets the session, routing dirty sessions through the
// save-confirmation prompt.
func (sc *SessionController) NewDocument(c *gin.Context) {
	var req newDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(sc.coordinator.NewDocument(req.Name, req.Force)))
}

type resolvePromptRequest struct {
	Choice string `json:"choice" binding:"required,oneof=save discard accept cancel ok exit"`
}

// ResolvePrompt applies a user choice to the pending prompt.
func (sc *SessionController) ResolvePrompt(c *gin.Context) {
	var req resolvePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st := sc.coordinator.ResolvePrompt(c.Request.Context(), session.Choice(req.Choice))
	c.JSON(http.StatusOK, toSessionResponse(st))
}

// RequestExit shows the exit toast, or confirms exit if it is showing.
func (sc *SessionController) RequestExit(c *gin.Context) {
	c.JSON(http.StatusOK, toSessionResponse(sc.coordinator.RequestExit()))
}
