package chat

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"calorion/internal/llm"
	"calorion/internal/logger"
	"calorion/internal/profile"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const systemInstruction = "You are Calorion Nutrition Assistant. Be practical, clear, and supportive for nutrition, calories, meal planning, and healthy weight changes. Avoid medical diagnosis. Use user profile context and provide actionable meal adjustments with calorie impact."

// historyWindow caps how many past messages travel with each request.
const historyWindow = 12

// Message is a single chat message.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Chat is a conversation between a user and the assistant.
type Chat struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Title         string    `json:"title"`
	Messages      []Message `json:"messages"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Service appends user messages and produces assistant replies, degrading
// to a deterministic offline reply when no provider is configured.
type Service struct {
	repo    *Repository
	textGen llm.TextGenerator
	log     *logger.Logger
}

// NewService creates a chat Service. textGen may be nil.
func NewService(repo *Repository, textGen llm.TextGenerator, log *logger.Logger) *Service {
	return &Service{repo: repo, textGen: textGen, log: log.With("service", "chat")}
}

// SendMessage appends the user's message to their latest chat (or a fresh
// one), generates a reply, and stores both.
func (s *Service) SendMessage(ctx context.Context, userID, content string, forceNewChat bool, prof *profile.User) (*Chat, error) {
	var chat *Chat
	var err error
	if !forceNewChat {
		chat, err = s.repo.Latest(ctx, userID)
		if err != nil {
			return nil, err
		}
	}
	if chat == nil {
		chat, err = s.repo.Create(ctx, userID, "Nutrition Assistant Chat")
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	chat.Messages = append(chat.Messages, Message{Role: RoleUser, Content: content, CreatedAt: now})

	reply, err := s.generateReply(ctx, content, chat.Messages, prof)
	if err != nil {
		return nil, err
	}

	chat.Messages = append(chat.Messages, Message{Role: RoleAssistant, Content: reply, CreatedAt: time.Now().UTC()})
	chat.LastMessageAt = time.Now().UTC()

	if err := s.repo.Save(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *Service) generateReply(ctx context.Context, userMessage string, history []Message, prof *profile.User) (string, error) {
	profileContext := buildProfileContext(prof)
	safeMessage := sanitizeText(userMessage, 700)

	if s.textGen == nil {
		return offlineReply(profileContext, safeMessage), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\nUser profile:\n%s\n\n", systemInstruction, profileContext)
	start := 0
	if len(history) > historyWindow {
		start = len(history) - historyWindow
	}
	for _, m := range history[start:] {
		if m.Content == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", m.Role, sanitizeText(m.Content, 500))
	}
	fmt.Fprintf(&b, "user: %s\nassistant:", safeMessage)

	reply, err := s.textGen.GenerateContent(ctx, b.String())
	if err != nil {
		s.log.Warn("assistant reply generation failed, using offline reply", "error", err)
		return offlineReply(profileContext, safeMessage), nil
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = "I could not generate a response right now."
	}
	return reply, nil
}

func buildProfileContext(prof *profile.User) string {
	if prof == nil {
		return "Goal: small-loss\nDaily calories target: 0 kcal"
	}
	cuisines := "N/A"
	if len(prof.Cuisines) > 0 {
		parts := make([]string, 0, len(prof.Cuisines))
		for _, c := range prof.Cuisines {
			if clean := sanitizeText(c, 24); clean != "" {
				parts = append(parts, clean)
			}
			if len(parts) == 8 {
				break
			}
		}
		cuisines = strings.Join(parts, ", ")
	}
	country := sanitizeText(prof.Country, 40)
	if country == "" {
		country = "N/A"
	}
	return strings.Join([]string{
		fmt.Sprintf("Goal: %s", sanitizeText(prof.Goal, 20)),
		fmt.Sprintf("Current weight: %g kg", prof.CurrentWeightKg),
		fmt.Sprintf("Target weight: %g kg", prof.TargetWeightKg),
		fmt.Sprintf("Daily calories target: %d kcal", prof.DailyCaloriesTarget),
		fmt.Sprintf("Country: %s", country),
		fmt.Sprintf("Preferred cuisines: %s", cuisines),
	}, "\n")
}

func offlineReply(profileContext, userMessage string) string {
	return fmt.Sprintf("I can coach you with your plan right now, but AI provider key is missing on server.\n\nBased on your profile:\n%s\n\nYou said: %q\n\nAction: keep today's intake near your daily target and reduce dinner carbs if you already exceeded calories.",
		profileContext, userMessage)
}

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)
var whitespaceRuns = regexp.MustCompile(`\s+`)

// sanitizeText strips control characters, collapses whitespace, and caps
// length. User text goes into prompts, so it is never embedded raw.
func sanitizeText(value string, maxLen int) string {
	s := controlChars.ReplaceAllString(value, " ")
	s = whitespaceRuns.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}
