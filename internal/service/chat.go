package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	inErrors "github.com/auramicrolocs/storefront/internal/errors"
	"github.com/auramicrolocs/storefront/internal/log"
	"github.com/auramicrolocs/storefront/internal/otel"
	"github.com/auramicrolocs/storefront/pkg/request"
	"github.com/auramicrolocs/storefront/pkg/response"
)

const systemInstruction = `You are an expert stylist assistant for Aura Microlocs, a professional locs hair care and styling service located in Montreal, Canada.

Your role is to:
1. Help customers understand locs services and pricing
2. Answer questions about locs care and maintenance
3. Assist with booking and scheduling
4. Provide professional hair styling advice
5. Be friendly, professional, and helpful in both French and English

Services offered:
- Starter Locs: Initial loc formation - $150
- Maintenance: Regular loc retightening - $80-120
- Styling: Creative loc styling and arrangements - $50-100
- Deep Clean: Specialized locs cleaning - $60
- Color Treatment: Professional loc coloring - $80-150

Business Info:
- Location: Montreal, Canada
- Phone: %s
- Always respond in the same language the customer uses (French or English)

Always be friendly, professional, and knowledgeable. If asked about services not offered, politely explain what we do offer instead.`

type ChatService struct {
	client       *genai.Client
	model        string
	supportPhone string
}

func NewChatService(client *genai.Client, model string, supportPhone string) ChatService {
	return ChatService{client: client, model: model, supportPhone: supportPhone}
}

// Fallback is the user-facing reply when the assistant cannot answer. It
// always carries the salon phone number so the visitor is never stranded.
func (s ChatService) Fallback() string {
	return fmt.Sprintf(
		"Désolé, je rencontre des difficultés techniques. Vous pouvez nous joindre au %s.",
		s.supportPhone,
	)
}

// SendMessage relays the visitor's message plus prior turns to the model. On
// any failure the returned error is wrapped and the caller is expected to
// serve Fallback instead.
func (s ChatService) SendMessage(
	c context.Context,
	param request.Chat,
) (response.Chat, error) {
	c, span := otel.Tracer.Start(c, "ChatService SendMessage")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ChatService SendMessage").
		Logger()

	if s.client == nil {
		err := fmt.Errorf("failed sending message with error=%w", inErrors.ErrAssistantNotConfigured)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Chat{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "creating chat").Logger()
	logger.Info().Msgf("creating chat with %d history turns", len(param.History))
	history := make([]*genai.Content, 0, len(param.History))
	for _, turn := range param.History {
		history = append(history, genai.NewContentFromText(turn.Text, genai.Role(turn.Role)))
	}
	chat, err := s.client.Chats.Create(
		c,
		s.model,
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(
				fmt.Sprintf(systemInstruction, s.supportPhone),
				genai.RoleUser,
			),
		},
		history,
	)
	if err != nil {
		err = fmt.Errorf("failed creating chat with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Chat{}, err
	}
	logger.Info().Msg("created chat")

	logger = logger.With().Str(log.KeyProcess, "sending message").Logger()
	logger.Info().Msg("sending message")
	result, err := chat.SendMessage(c, genai.Part{Text: param.Message})
	if err != nil {
		err = fmt.Errorf("failed sending message with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Chat{}, err
	}
	logger.Info().Msg("sent message")

	text := result.Text()
	if text == "" {
		text = s.Fallback()
	}
	return response.Chat{Response: text}, nil
}
