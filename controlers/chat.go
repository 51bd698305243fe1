package controlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrjawadhere/Hackthon-Smit/model"
)

const historyContextSize = 10

const apologeticReply = "Sorry, something went wrong while handling your message. Your message was saved; please try again."

// ConversationLog is the slice of the chat log the orchestrator needs.
type ConversationLog interface {
	Append(ctx context.Context, threadID, role, content string) (*model.ChatMessage, error)
	LastN(ctx context.Context, threadID string, n int) ([]model.ChatMessage, error)
	History(ctx context.Context, threadID string) ([]model.ChatMessage, error)
}

// Provisioner resolves add-student messages directly, without the agent.
type Provisioner interface {
	Attempt(ctx context.Context, text string) (string, bool)
}

// AgentInvoker is the optional conversational agent. A nil invoker means
// the deterministic fallback answers instead.
type AgentInvoker interface {
	Invoke(ctx context.Context, history []model.ChatMessage, input string) (string, error)
}

type ChatController struct {
	log         ConversationLog
	provisioner Provisioner
	agent       AgentInvoker
}

func NewChatController(log ConversationLog, provisioner Provisioner, agent AgentInvoker) *ChatController {
	return &ChatController{log: log, provisioner: provisioner, agent: agent}
}

type chatRequest struct {
	UserInput string `json:"user_input"`
}

// Chat handles POST /students/chat/:thread_id. The user's message is
// persisted before any resolution runs, so a log entry exists even when
// resolution fails; failures after that point degrade to an apologetic
// reply instead of a 500.
func (cc *ChatController) Chat(c *gin.Context) {
	threadID := c.Param("thread_id")

	var body chatRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "User input cannot be empty."})
		return
	}

	userText := strings.TrimSpace(body.UserInput)
	if userText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "User input cannot be empty."})
		return
	}

	ctx := c.Request.Context()

	if _, err := cc.log.Append(ctx, threadID, model.RoleUser, userText); err != nil {
		cc.degrade(c, threadID, fmt.Errorf("persist user message: %w", err))
		return
	}

	reply := cc.resolve(ctx, threadID, userText)

	if _, err := cc.log.Append(ctx, threadID, model.RoleAssistant, reply); err != nil {
		cc.degrade(c, threadID, fmt.Errorf("persist assistant reply: %w", err))
		return
	}

	history, err := cc.log.History(ctx, threadID)
	if err != nil {
		cc.degrade(c, threadID, fmt.Errorf("fetch history: %w", err))
		return
	}

	c.JSON(http.StatusOK, model.ChatResponse{
		ThreadID: threadID,
		Response: reply,
		History:  history,
	})
}

// resolve applies the strict resolution priority: auto-provision first,
// then the agent when present, then the fixed fallback.
func (cc *ChatController) resolve(ctx context.Context, threadID, userText string) string {
	if reply, handled := cc.provisioner.Attempt(ctx, userText); handled {
		return reply
	}

	if cc.agent != nil {
		history, err := cc.log.LastN(ctx, threadID, historyContextSize)
		if err == nil {
			reply, agentErr := cc.agent.Invoke(ctx, history, userText)
			if agentErr == nil {
				return reply
			}
			zap.S().Warnw("agent invocation failed, using fallback", "thread_id", threadID, "error", agentErr)
		} else {
			zap.S().Warnw("history fetch for agent failed, using fallback", "thread_id", threadID, "error", err)
		}
	}

	return fallbackReply(userText)
}

// degrade reports a dependency failure as a normal-looking reply. The
// error note append is best-effort; its own failure is swallowed.
func (cc *ChatController) degrade(c *gin.Context, threadID string, err error) {
	zap.S().Errorw("chat request degraded", "thread_id", threadID, "error", err)

	if _, noteErr := cc.log.Append(c.Request.Context(), threadID, model.RoleAssistant, apologeticReply); noteErr != nil {
		zap.S().Warnw("failed to log error note", "thread_id", threadID, "error", noteErr)
	}

	c.JSON(http.StatusOK, model.ChatResponse{
		ThreadID: threadID,
		Response: apologeticReply,
		History:  []model.ChatMessage{},
	})
}

func fallbackReply(userText string) string {
	return fmt.Sprintf(
		"I understand you're asking about: '%s'. I'm the Campus AI assistant and I can help you with:\n\n"+
			"• Student management (add, search, update students)\n"+
			"• Campus analytics and statistics\n"+
			"• Department information\n\n"+
			"Try asking something like 'Show me all students' or 'Add a new student'!",
		userText,
	)
}
