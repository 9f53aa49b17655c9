package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bassista/quillpad/internal/prefs"
)

// PreferencesResponse is the wire form of the preference set.
type PreferencesResponse struct {
	AutosaveEnabled bool   `json:"autosaveEnabled"`
	ReadabilityMode bool   `json:"readabilityMode"`
	SwipeLock       bool   `json:"swipeLock"`
	LastUsedLocator string `json:"lastUsedLocator,omitempty"`
}

// PrefsController handles preference reads and writes for the UI layer.
type PrefsController struct {
	store prefs.Store
}

func NewPrefsController(store prefs.Store) *PrefsController {
	return &PrefsController{store: store}
}

// GetPreferences returns the current preference values.
func (pc *PrefsController) GetPreferences(c *gin.Context) {
	p := pc.store.Snapshot()
	c.JSON(http.StatusOK, PreferencesResponse{
		AutosaveEnabled: p.AutosaveEnabled,
		ReadabilityMode: p.ReadabilityMode,
		SwipeLock:       p.SwipeLock,
		LastUsedLocator: p.LastUsedLocator,
	})
}

type updatePreferencesRequest struct {
	AutosaveEnabled *bool   `json:"autosaveEnabled"`
	ReadabilityMode *bool   `json:"readabilityMode"`
	SwipeLock       *bool   `json:"swipeLock"`
	LastUsedLocator *string `json:"lastUsedLocator"`
}

// UpdatePreferences applies a partial update; absent fields are untouched.
func (pc *PrefsController) UpdatePreferences(c *gin.Context) {
	var req updatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.AutosaveEnabled != nil {
		if err := pc.store.SetAutosaveEnabled(*req.AutosaveEnabled); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if req.ReadabilityMode != nil {
		if err := pc.store.SetReadabilityMode(*req.ReadabilityMode); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if req.SwipeLock != nil {
		if err := pc.store.SetSwipeLock(*req.SwipeLock); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if req.LastUsedLocator != nil {
		var err error
		if *req.LastUsedLocator == "" {
			err = pc.store.ClearLastUsedLocator()
		} else {
			err = pc.store.SetLastUsedLocator(*req.LastUsedLocator)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	pc.GetPreferences(c)
}
