// Package assistant runs the scouting assistant: a tool-calling agent
// loop whose progress is persisted per step and streamed to the caller.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/scoutnotes/internal/domain"
	domasst "github.com/kailas-cloud/scoutnotes/internal/domain/assistant"
)

const systemPrompt = `You are ScoutNotes AI Assistant, an intelligent helper for basketball scouts and analysts.

Your capabilities:
- Search and analyze player data and scouting notes
- Create and update scouting notes with detailed observations
- Find relevant information using semantic search
- Perform multi-step tasks to accomplish user goals

Guidelines:
1. Be concise and professional in your responses
2. Use tools when you need to read or modify data
3. When creating notes, be detailed and specific
4. Always confirm actions that modify data (create/update)
5. If you're unsure about player IDs, search first
6. Provide helpful context from the data you retrieve

When users ask you to perform actions:
1. Think through the steps needed
2. Use the appropriate tools
3. Provide clear feedback on what you did
4. Summarize the results`

// historyRuns caps how many previous exchanges feed the model.
const historyRuns = 5

const maxTitleLength = 60

// Emit receives assistant events as they happen, in order.
type Emit func(domasst.Event)

// Service runs the agent loop.
type Service struct {
	store     Store
	completer Completer
	tools     *executor
	maxSteps  int
	logger    *zap.Logger
	now       func() time.Time
}

// New creates an assistant service. maxSteps bounds the number of
// model round-trips per run.
func New(store Store, completer Completer, players Players, notes Notes, retriever Retriever, maxSteps int, logger *zap.Logger) *Service {
	if maxSteps <= 0 {
		maxSteps = 10
	}
	return &Service{
		store:     store,
		completer: completer,
		tools:     &executor{players: players, notes: notes, retriever: retriever},
		maxSteps:  maxSteps,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateConversation starts an empty conversation.
func (s *Service) CreateConversation(ctx context.Context) (*domasst.Conversation, error) {
	id, err := s.store.NextConversationID(ctx)
	if err != nil {
		return nil, err
	}
	conv := &domasst.Conversation{
		ID:        id,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}
	if err := s.store.SaveConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// ListConversations returns all conversations, newest activity first.
func (s *Service) ListConversations(ctx context.Context) ([]domasst.Conversation, error) {
	return s.store.ListConversations(ctx)
}

// GetRun returns a run by ID.
func (s *Service) GetRun(ctx context.Context, id int64) (*domasst.Run, error) {
	return s.store.GetRun(ctx, id)
}

// GetConversation returns a conversation with its runs resolved.
func (s *Service) GetConversation(ctx context.Context, id int64) (*domasst.Conversation, []domasst.Run, error) {
	conv, err := s.store.GetConversation(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	runs := make([]domasst.Run, 0, len(conv.RunIDs))
	for _, runID := range conv.RunIDs {
		run, err := s.store.GetRun(ctx, runID)
		if err != nil {
			return nil, nil, err
		}
		runs = append(runs, *run)
	}
	return conv, runs, nil
}

// Chat executes one agent run for a user message, emitting events as
// steps happen. conversationID 0 starts a new conversation. The
// returned run reflects the final persisted state; agent failures are
// reported through the run status and the error event, not the error
// return.
func (s *Service) Chat(ctx context.Context, conversationID int64, userMessage string, emit Emit) (*domasst.Run, error) {
	userMessage = strings.TrimSpace(userMessage)
	if userMessage == "" {
		return nil, fmt.Errorf("%w: message is required", domain.ErrValidation)
	}

	conv, err := s.resolveConversation(ctx, conversationID, userMessage)
	if err != nil {
		return nil, err
	}

	runID, err := s.store.NextRunID(ctx)
	if err != nil {
		return nil, err
	}
	run := &domasst.Run{
		ID:             runID,
		ConversationID: conv.ID,
		UserMessage:    userMessage,
		Status:         domasst.StatusRunning,
		CreatedAt:      s.now(),
	}
	if err := s.saveRun(ctx, run); err != nil {
		return nil, err
	}
	conv.RunIDs = append(conv.RunIDs, runID)
	conv.UpdatedAt = s.now()
	if err := s.store.SaveConversation(ctx, conv); err != nil {
		return nil, err
	}

	emit(domasst.Event{Type: domasst.EventRunStarted, RunID: runID, ConversationID: conv.ID})

	if err := s.loop(ctx, conv, run, emit); err != nil {
		s.failRun(ctx, run, err, emit)
	}
	return run, nil
}

// loop drives the model until a text response or the step budget.
func (s *Service) loop(ctx context.Context, conv *domasst.Conversation, run *domasst.Run, emit Emit) error {
	thinking := s.addStep(ctx, run, domasst.Step{
		StepType:    domasst.StepThinking,
		Description: "Analyzing your request...",
		Status:      domasst.StatusRunning,
	}, emit)

	history, err := s.buildHistory(ctx, conv, run.ID)
	if err != nil {
		return err
	}
	messages := append([]domain.ChatMessage{{Role: domain.RoleSystem, Content: systemPrompt}}, history...)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: run.UserMessage})

	s.completeStep(ctx, run, thinking, "", emit)

	specs := toolSpecs()
	for iteration := 0; iteration < s.maxSteps; iteration++ {
		msg, err := s.completer.CompleteWithTools(ctx, messages, specs)
		if err != nil {
			return err
		}

		if len(msg.ToolCalls) == 0 {
			return s.finish(ctx, run, strings.TrimSpace(msg.Content), emit)
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			output := s.runTool(ctx, run, call, emit)
			messages = append(messages, domain.ChatMessage{
				Role:       domain.RoleTool,
				Content:    output,
				ToolCallID: call.ID,
				ToolName:   call.Name,
			})
		}
	}

	return errors.New("maximum iterations reached")
}

// runTool executes one tool call as a tracked step. Failures are
// returned to the model as structured output so it can recover.
func (s *Service) runTool(ctx context.Context, run *domasst.Run, call domain.ChatToolCall, emit Emit) string {
	step := s.addStep(ctx, run, domasst.Step{
		StepType:    domasst.StepToolCall,
		Description: fmt.Sprintf("Calling %s...", call.Name),
		ToolName:    call.Name,
		ToolInput:   call.Arguments,
		Status:      domasst.StatusRunning,
	}, emit)

	kind, err := domasst.ParseToolKind(call.Name)
	if err != nil {
		output := fmt.Sprintf(`{"success": false, "error": %q}`, err.Error())
		s.failStep(ctx, run, step, err.Error(), emit)
		return output
	}

	output := s.tools.Execute(ctx, kind, call.Arguments)
	s.completeStep(ctx, run, step, output, emit)
	return output
}

func (s *Service) finish(ctx context.Context, run *domasst.Run, response string, emit Emit) error {
	if response == "" {
		return errors.New("no response generated from model")
	}

	s.addStep(ctx, run, domasst.Step{
		StepType:    domasst.StepResponse,
		Description: "Generating response...",
		Status:      domasst.StatusCompleted,
	}, emit)

	now := s.now()
	run.Status = domasst.StatusCompleted
	run.AssistantResponse = response
	run.CompletedAt = &now
	if err := s.saveRun(ctx, run); err != nil {
		return err
	}

	emit(domasst.Event{Type: domasst.EventFinalResponse, Response: response, Status: domasst.StatusCompleted})
	return nil
}

func (s *Service) failRun(ctx context.Context, run *domasst.Run, cause error, emit Emit) {
	s.logger.Warn("Assistant run failed", zap.Int64("run_id", run.ID), zap.Error(cause))

	s.addStep(ctx, run, domasst.Step{
		StepType:    domasst.StepError,
		Description: fmt.Sprintf("Error: %v", cause),
		ToolOutput:  cause.Error(),
		Status:      domasst.StatusFailed,
	}, emit)

	now := s.now()
	run.Status = domasst.StatusFailed
	run.ErrorMessage = cause.Error()
	run.CompletedAt = &now
	if err := s.saveRun(ctx, run); err != nil {
		s.logger.Error("Failed to persist failed run", zap.Int64("run_id", run.ID), zap.Error(err))
	}

	emit(domasst.Event{Type: domasst.EventError, Error: cause.Error(), Status: domasst.StatusFailed})
}

func (s *Service) resolveConversation(ctx context.Context, id int64, userMessage string) (*domasst.Conversation, error) {
	if id != 0 {
		return s.store.GetConversation(ctx, id)
	}

	convID, err := s.store.NextConversationID(ctx)
	if err != nil {
		return nil, err
	}
	title := userMessage
	if len(title) > maxTitleLength {
		cut := maxTitleLength
		for cut > 0 && !utf8.RuneStart(title[cut]) {
			cut--
		}
		title = title[:cut]
	}
	conv := &domasst.Conversation{
		ID:        convID,
		Title:     title,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}
	if err := s.store.SaveConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// buildHistory replays previous completed exchanges in this
// conversation, newest last, capped at historyRuns.
func (s *Service) buildHistory(ctx context.Context, conv *domasst.Conversation, currentRunID int64) ([]domain.ChatMessage, error) {
	ids := make([]int64, 0, len(conv.RunIDs))
	for _, id := range conv.RunIDs {
		if id != currentRunID {
			ids = append(ids, id)
		}
	}
	if len(ids) > historyRuns {
		ids = ids[len(ids)-historyRuns:]
	}

	var history []domain.ChatMessage
	for _, id := range ids {
		run, err := s.store.GetRun(ctx, id)
		if err != nil {
			return nil, err
		}
		if run.Status != domasst.StatusCompleted {
			continue
		}
		history = append(history, domain.ChatMessage{Role: domain.RoleUser, Content: run.UserMessage})
		if run.AssistantResponse != "" {
			history = append(history, domain.ChatMessage{Role: domain.RoleAssistant, Content: run.AssistantResponse})
		}
	}
	return history, nil
}

// addStep appends a step to the run, persists and emits it.
func (s *Service) addStep(ctx context.Context, run *domasst.Run, step domasst.Step, emit Emit) int {
	step.ID = len(run.Steps) + 1
	step.StepNumber = step.ID
	step.CreatedAt = s.now()
	run.Steps = append(run.Steps, step)

	if err := s.saveRun(ctx, run); err != nil {
		s.logger.Warn("Failed to persist run step", zap.Int64("run_id", run.ID), zap.Error(err))
	}
	emit(domasst.Event{Type: domasst.EventStep, Step: &run.Steps[len(run.Steps)-1]})
	return step.ID
}

func (s *Service) completeStep(ctx context.Context, run *domasst.Run, stepID int, toolOutput string, emit Emit) {
	s.updateStep(ctx, run, stepID, domasst.StatusCompleted, toolOutput, "", emit)
}

func (s *Service) failStep(ctx context.Context, run *domasst.Run, stepID int, errMsg string, emit Emit) {
	s.updateStep(ctx, run, stepID, domasst.StatusFailed, "", errMsg, emit)
}

func (s *Service) updateStep(ctx context.Context, run *domasst.Run, stepID int, status, toolOutput, errMsg string, emit Emit) {
	idx := stepID - 1
	if idx < 0 || idx >= len(run.Steps) {
		return
	}
	step := &run.Steps[idx]
	step.Status = status
	if toolOutput != "" {
		step.ToolOutput = toolOutput
	}
	if errMsg != "" {
		step.Error = errMsg
	}

	if err := s.saveRun(ctx, run); err != nil {
		s.logger.Warn("Failed to persist run step update", zap.Int64("run_id", run.ID), zap.Error(err))
	}
	emit(domasst.Event{Type: domasst.EventStep, Step: step})
}

func (s *Service) saveRun(ctx context.Context, run *domasst.Run) error {
	return s.store.SaveRun(ctx, run)
}
