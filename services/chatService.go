package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"aimentor/db"
	"aimentor/models"
	"aimentor/services/tutor"

	"go.uber.org/zap"
)

type ChatService struct {
	repo    db.ChatRepository
	experts db.ExpertRepository
	tutor   Tutor
	logger  *zap.SugaredLogger
}

func NewChatService(repo db.ChatRepository, experts db.ExpertRepository, t Tutor, logger *zap.SugaredLogger) *ChatService {
	return &ChatService{repo: repo, experts: experts, tutor: t, logger: logger}
}

// Process continues an existing chat or starts a new one, then answers the
// learner's message if there is one.
func (s *ChatService) Process(ctx context.Context, learnerID, sessionID string, req *models.ChatRequest) (*models.Chat, error) {
	s.logger.Infof("Starting chat processing for learner %s", learnerID)

	var opts []tutor.ChatOption
	if req.ExpertID != nil {
		expert, err := s.experts.GetExpert(ctx, learnerID, *req.ExpertID)
		if err != nil {
			s.logger.Errorf("Failed to load expert %d: %v", *req.ExpertID, err)
			return nil, err
		}
		opts = append(opts, tutor.WithPersona(expert.Prompt, expert.Tone))
	}

	var chat *models.Chat
	if req.ChatID != nil {
		existing, err := s.repo.GetChat(ctx, learnerID, *req.ChatID)
		if err != nil {
			s.logger.Errorf("Failed to load chat %d: %v", *req.ChatID, err)
			return nil, err
		}
		chat = existing
	} else {
		created, err := s.startChat(ctx, learnerID, sessionID, req)
		if err != nil {
			return nil, err
		}
		chat = created
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return chat, nil
	}

	chat.Messages = append(chat.Messages, models.ChatMessage{Role: models.RoleUser, Content: message, CreatedAt: time.Now().UTC()})

	reply, err := s.tutor.TutorChat(ctx, chat.Context, message, opts...)
	if err != nil {
		s.logger.Errorf("Tutor reply failed for chat %d: %v", chat.ID, err)
		return nil, err
	}

	chat.Messages = append(chat.Messages, models.ChatMessage{Role: models.RoleAssistant, Content: reply.Reply, CreatedAt: time.Now().UTC()})

	replyJSON, err := json.Marshal(reply)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tutor reply: %w", err)
	}
	chat.Summary = string(replyJSON)

	if err := s.repo.UpdateChat(ctx, chat); err != nil {
		s.logger.Errorf("Failed to save chat %d: %v", chat.ID, err)
		return nil, fmt.Errorf("failed to save chat: %w", err)
	}

	s.logger.Infof("Successfully processed message for chat %d", chat.ID)
	return chat, nil
}

func (s *ChatService) startChat(ctx context.Context, learnerID, sessionID string, req *models.ChatRequest) (*models.Chat, error) {
	source := strings.TrimSpace(req.Source)
	chatContext := strings.TrimSpace(req.Context)

	if source == "" && chatContext == "" && strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("%w: a source, context or message is required", ErrInvalidInput)
	}

	if source != "" {
		analysis, err := s.tutor.AnalyzeSource(ctx, source)
		if err != nil {
			s.logger.Warnf("Source analysis failed, falling back to raw source: %v", err)
		} else if analysisJSON, err := json.Marshal(analysis); err == nil {
			chatContext = string(analysisJSON)
		}
	}
	if chatContext == "" {
		chatContext = source
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = models.DefaultChatTitle
	}

	chat := &models.Chat{
		LearnerID: learnerID,
		SessionID: sessionID,
		Title:     title,
		Source:    source,
		Context:   chatContext,
		Messages:  []models.ChatMessage{},
	}

	if err := s.repo.CreateChat(ctx, chat); err != nil {
		s.logger.Errorf("Failed to create chat: %v", err)
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}

	s.logger.Infof("Created chat %d for learner %s", chat.ID, learnerID)
	return chat, nil
}

func (s *ChatService) List(ctx context.Context, learnerID string) ([]*models.Chat, error) {
	chats, err := s.repo.ListChats(ctx, learnerID)
	if err != nil {
		s.logger.Errorf("Failed to list chats: %v", err)
		return nil, err
	}
	return chats, nil
}

func (s *ChatService) Get(ctx context.Context, learnerID string, id int) (*models.Chat, error) {
	return s.repo.GetChat(ctx, learnerID, id)
}

func (s *ChatService) Update(ctx context.Context, learnerID string, id int, req *models.UpdateChatRequest) (*models.Chat, error) {
	chat, err := s.repo.GetChat(ctx, learnerID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		chat.Title = title
	}
	if req.Source != nil {
		chat.Source = *req.Source
	}
	if req.Context != nil {
		chat.Context = *req.Context
	}

	if err := s.repo.UpdateChat(ctx, chat); err != nil {
		s.logger.Errorf("Failed to update chat %d: %v", id, err)
		return nil, err
	}

	s.logger.Infof("Successfully updated chat %d", id)
	return chat, nil
}

func (s *ChatService) Delete(ctx context.Context, learnerID string, id int) error {
	if err := s.repo.DeleteChat(ctx, learnerID, id); err != nil {
		s.logger.Errorf("Failed to delete chat %d: %v", id, err)
		return err
	}
	s.logger.Infof("Successfully deleted chat %d", id)
	return nil
}
