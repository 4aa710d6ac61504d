package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/procuretrack/quote-analyzer/internal/llm"
)

type createPromptConfigRequest struct {
	Name         string `json:"name" binding:"required"`
	SystemPrompt string `json:"system_prompt" binding:"required"`
	UserPrompt   string `json:"user_prompt" binding:"required"`
	Activate     bool   `json:"activate"`
}

func (s *Server) listPromptConfigs(c *gin.Context) {
	configs, err := s.prompts.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prompt_configs": configs, "count": len(configs)})
}

// createPromptConfig stores a new extraction template. The template pair must
// carry both substitution placeholders somewhere, or extraction would silently
// lose the document text or the format instructions.
func (s *Server) createPromptConfig(c *gin.Context) {
	var req createPromptConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if missing := missingPlaceholders(req.SystemPrompt + req.UserPrompt); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "prompt templates must contain placeholders: " + strings.Join(missing, ", "),
		})
		return
	}

	cfg, err := s.prompts.Create(c.Request.Context(), req.Name, req.SystemPrompt, req.UserPrompt, req.Activate)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cfg)
}

func (s *Server) activatePromptConfig(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	cfg, err := s.prompts.Activate(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func missingPlaceholders(templates string) []string {
	var missing []string
	for _, p := range []string{llm.FormatInstructionsPlaceholder, llm.TextContentPlaceholder} {
		if !strings.Contains(templates, p) {
			missing = append(missing, p)
		}
	}
	return missing
}
