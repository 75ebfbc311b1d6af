package assistant

import (
	"context"
	"time"

	"github.com/dori/projectflow/internal/latency"
	"github.com/dori/projectflow/internal/model"
)

// maxChatJitter is added on top of the base chat delay
const maxChatJitter = 2000

// Service runs the assistant helpers behind a simulated thinking delay
type Service struct {
	latency *latency.Simulator
	rnd     Rand
	now     func() time.Time
}

// NewService creates a Service. A nil simulator never sleeps.
func NewService(sim *latency.Simulator, rnd Rand, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{latency: sim, rnd: rnd, now: now}
}

// GenerateTask drafts a task from prompt
func (s *Service) GenerateTask(ctx context.Context, prompt string) (Generated, error) {
	if err := s.latency.Wait(ctx, latency.Think); err != nil {
		return Generated{}, err
	}
	return GenerateTask(prompt, s.now(), s.rnd), nil
}

// Summarize renders the progress report of p
func (s *Service) Summarize(ctx context.Context, p *model.Project) (string, error) {
	if err := s.latency.Wait(ctx, latency.Analyze); err != nil {
		return "", err
	}
	return SummarizeProject(p, s.now()), nil
}

// Suggest computes the urgent and priority lists and the advice for projects
func (s *Service) Suggest(ctx context.Context, projects []model.Project) (SmartSuggestions, error) {
	if err := s.latency.Wait(ctx, latency.Suggest); err != nil {
		return SmartSuggestions{}, err
	}
	return Smart(projects, s.now()), nil
}

// Insights analyses p
func (s *Service) Insights(ctx context.Context, p *model.Project) (Insights, error) {
	if err := s.latency.Wait(ctx, latency.Think); err != nil {
		return Insights{}, err
	}
	return ProjectInsights(p, s.now()), nil
}

// Chat answers message in the context of the selected project, if any
func (s *Service) Chat(ctx context.Context, message string, current *model.Project) (string, error) {
	jitter := time.Duration(s.rnd.IntN(maxChatJitter)) * time.Millisecond
	if err := s.latency.Wait(ctx, latency.Suggest+jitter); err != nil {
		return "", err
	}
	return ChatReply(message, current, s.rnd), nil
}
