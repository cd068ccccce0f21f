package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/habitforge/habitforge-backend/internal/ai"
	"github.com/habitforge/habitforge-backend/internal/models"
	"github.com/habitforge/habitforge-backend/internal/scope"
	"gorm.io/gorm"
)

// RecommendationService runs the generation pipeline: analytics, prompt
// construction, one best-effort provider call, deterministic fallback,
// persistence with a 7-day expiry.
type RecommendationService struct {
	db        *gorm.DB
	analytics *AnalyticsService
	generator ai.TextGenerator
}

func NewRecommendationService(db *gorm.DB, analytics *AnalyticsService, generator ai.TextGenerator) *RecommendationService {
	return &RecommendationService{db: db, analytics: analytics, generator: generator}
}

// Generate produces and persists one recommendation. Provider failure is
// recovered locally via the fallback templates and never surfaces to the
// caller; only validation and persistence errors do.
func (s *RecommendationService) Generate(ctx context.Context, userID uuid.UUID, recType models.RecommendationType) (*models.Recommendation, error) {
	if !recType.Valid() {
		return nil, ErrInvalidRecommendation
	}

	summary, err := s.analytics.Summary(userID)
	if err != nil {
		return nil, err
	}

	prompt := buildPrompt(summary, recType)

	content, source := "", models.SourceSystem
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil || text == "" {
		if err != nil && !errors.Is(err, ai.ErrNotConfigured) {
			slog.Warn("AI provider call failed, using fallback", "error", err, "type", string(recType))
		}
		content = fallbackContent(summary, recType)
	} else {
		content = text
		source = models.SourceGemini
	}

	expiresAt := time.Now().UTC().Add(7 * 24 * time.Hour)
	rec := models.Recommendation{
		ID:                 uuid.New(),
		UserID:             userID,
		RecommendationType: recType,
		Title:              humanizeType(recType),
		Content:            content,
		Priority:           1,
		SourceAI:           source,
		ExpiresAt:          &expiresAt,
	}

	if err := s.db.Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to persist recommendation: %w", err)
	}
	return &rec, nil
}

// List returns the user's non-expired recommendations, newest first.
func (s *RecommendationService) List(userID uuid.UUID, unreadOnly bool, limit int) ([]models.Recommendation, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	q := s.db.Scopes(scope.ForUser(userID)).
		Where("expires_at IS NULL OR expires_at > ?", time.Now().UTC())
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var recs []models.Recommendation
	err := q.Order("created_at DESC").Limit(limit).Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendations: %w", err)
	}
	return recs, nil
}

// MarkRead flips is_read on a recommendation the user owns.
func (s *RecommendationService) MarkRead(userID, recID uuid.UUID) error {
	result := s.db.Model(&models.Recommendation{}).
		Scopes(scope.ForUser(userID)).
		Where("id = ?", recID).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark recommendation read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecommendationNotFound
	}
	return nil
}

// Daily returns today's recommendations, generating a motivation and an
// improvement entry if none exist yet for the current calendar day.
func (s *RecommendationService) Daily(ctx context.Context, userID uuid.UUID) ([]models.Recommendation, error) {
	existing, err := s.createdToday(userID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	var recs []models.Recommendation
	for _, t := range []models.RecommendationType{models.RecommendationMotivation, models.RecommendationImprovement} {
		rec, err := s.Generate(ctx, userID, t)
		if err != nil {
			slog.Error("daily recommendation generation failed", "error", err, "type", string(t), "user_id", userID.String())
			continue
		}
		recs = append(recs, *rec)
	}
	return recs, nil
}

// EnsureDaily generates a single motivation recommendation if the user has
// none for today. It is meant to run fire-and-forget after login; errors are
// logged, never returned.
func (s *RecommendationService) EnsureDaily(ctx context.Context, userID uuid.UUID) {
	existing, err := s.createdToday(userID)
	if err != nil {
		slog.Error("daily recommendation check failed", "error", err, "user_id", userID.String())
		return
	}
	if len(existing) > 0 {
		return
	}

	if _, err := s.Generate(ctx, userID, models.RecommendationMotivation); err != nil {
		slog.Error("daily recommendation generation failed", "error", err, "user_id", userID.String())
	}
}

func (s *RecommendationService) createdToday(userID uuid.UUID) ([]models.Recommendation, error) {
	today := startOfToday()
	var recs []models.Recommendation
	err := s.db.Scopes(scope.ForUser(userID)).
		Where("created_at >= ? AND created_at < ?", today, today.AddDate(0, 0, 1)).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load today's recommendations: %w", err)
	}
	return recs, nil
}

func buildPrompt(a *AnalyticsSummary, recType models.RecommendationType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User Habit Analytics:\n")
	fmt.Fprintf(&b, "- Total active habits: %d\n", a.TotalHabits)
	fmt.Fprintf(&b, "- Average streak: %.1f days\n", a.AverageStreak)
	fmt.Fprintf(&b, "- Average completion rate: %.1f%%\n", a.AverageCompletionRate)
	fmt.Fprintf(&b, "- Best streak: %d days\n", a.BestStreak)
	fmt.Fprintf(&b, "- Habit categories: %v\n", a.Categories)
	fmt.Fprintf(&b, "- Number of struggling habits: %d\n", len(a.StrugglingHabits))
	fmt.Fprintf(&b, "- Number of strong habits: %d\n", len(a.StrongHabits))
	b.WriteString("\n")

	switch recType {
	case models.RecommendationHabitSuggestion:
		b.WriteString("Based on this user's habit tracking data, suggest 1-2 new habits they could add to improve their life. " +
			"Consider their current categories and completion rates. Provide specific, actionable habit suggestions. " +
			"Keep the response concise (max 200 words) and motivational.")
	case models.RecommendationMotivation:
		b.WriteString("Create a motivational message for this user based on their habit tracking performance. " +
			"Acknowledge their progress and encourage them to keep going. If they're struggling, " +
			"provide gentle encouragement and practical tips. Keep it personal and under 150 words.")
	case models.RecommendationImprovement:
		b.WriteString("Analyze the user's habit data and provide 1-2 specific suggestions for improving their " +
			"habit tracking success. Focus on practical strategies they can implement immediately. " +
			"Keep the response actionable and under 200 words.")
	}
	return b.String()
}

// fallbackContent is the deterministic, always-total replacement used when
// the provider is unreachable or misconfigured.
func fallbackContent(a *AnalyticsSummary, recType models.RecommendationType) string {
	switch recType {
	case models.RecommendationMotivation:
		if a.AverageCompletionRate > 70 {
			return fmt.Sprintf("Excellent work! You're maintaining a %.0f%% completion rate across %d habits. "+
				"Your consistency is building strong foundations for lasting change. Keep up the momentum!",
				a.AverageCompletionRate, a.TotalHabits)
		}
		return fmt.Sprintf("You've taken the first step by tracking %d habits. Remember, building habits takes time. "+
			"Focus on completing one habit at a time, and celebrate small wins. Progress, not perfection!",
			a.TotalHabits)

	case models.RecommendationImprovement:
		if len(a.StrugglingHabits) > 0 {
			return fmt.Sprintf("Consider focusing on your top performing habits first. You have %d habits with high "+
				"completion rates. Build on these successes before adding new ones. Try setting reminders or "+
				"habit stacking to improve struggling habits.", len(a.StrongHabits))
		}
		return "Great foundation! To level up, try the '2-minute rule' - make habits so easy they take less than " +
			"2 minutes to start. This reduces resistance and builds momentum. Also, track your 'why' - write down " +
			"the reason behind each habit."

	case models.RecommendationHabitSuggestion:
		return fmt.Sprintf("Based on your focus on %s, consider adding: 1) A reflection habit - spend 5 minutes "+
			"journaling about what's working. 2) A preparation habit - plan tomorrow's tasks each evening. "+
			"Small habits that support your existing routines compound results!", a.TopCategory())
	}

	return "Keep tracking your habits consistently. Small daily actions lead to remarkable long-term results!"
}

func humanizeType(t models.RecommendationType) string {
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
