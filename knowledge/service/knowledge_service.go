package service

import (
	"context"
	"strings"

	"support-bot-demo/backend/knowledge/models"
	"support-bot-demo/backend/knowledge/repository"
	"support-bot-demo/backend/pkg/cache"
	"support-bot-demo/backend/pkg/errors"
)

// Cache keys for the active pools
const (
	cacheKeyActiveIntents = "knowledge:intents:active"
	cacheKeyActiveFaqs    = "knowledge:faqs:active"
)

// KnowledgeService owns the intent/FAQ admin CRUD and serves the active
// pools to the turn engine. Active lists are cached in process with a short
// TTL; every write invalidates so the bot picks up edits on the next turn.
type KnowledgeService struct {
	intents repository.IntentRepository
	faqs    repository.FaqRepository
	cache   *cache.Cache
}

func NewKnowledgeService(intents repository.IntentRepository, faqs repository.FaqRepository, c *cache.Cache) *KnowledgeService {
	return &KnowledgeService{intents: intents, faqs: faqs, cache: c}
}

// ListActiveIntents returns the active intent pool, cached
func (s *KnowledgeService) ListActiveIntents(ctx context.Context) ([]models.Intent, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(cacheKeyActiveIntents); ok {
			return v.([]models.Intent), nil
		}
	}
	intents, err := s.intents.ListActive(ctx)
	if err != nil {
		return nil, errors.NewStoreError("list active intents", err)
	}
	if s.cache != nil {
		s.cache.Set(cacheKeyActiveIntents, intents)
	}
	return intents, nil
}

// ListActiveFaqs returns the active FAQ pool, cached
func (s *KnowledgeService) ListActiveFaqs(ctx context.Context) ([]models.Faq, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(cacheKeyActiveFaqs); ok {
			return v.([]models.Faq), nil
		}
	}
	faqs, err := s.faqs.ListActive(ctx)
	if err != nil {
		return nil, errors.NewStoreError("list active faqs", err)
	}
	if s.cache != nil {
		s.cache.Set(cacheKeyActiveFaqs, faqs)
	}
	return faqs, nil
}

func (s *KnowledgeService) CreateIntent(ctx context.Context, intent *models.Intent) error {
	if err := validateIntent(intent); err != nil {
		return err
	}
	if err := s.intents.Create(ctx, intent); err != nil {
		return errors.NewStoreError("create intent", err)
	}
	s.invalidateIntents()
	return nil
}

func (s *KnowledgeService) GetIntent(ctx context.Context, id uint) (*models.Intent, error) {
	intent, err := s.intents.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewNotFoundError(errors.CodeIntentNotFound, "Intent not found")
	}
	return intent, nil
}

func (s *KnowledgeService) ListIntents(ctx context.Context) ([]models.Intent, error) {
	intents, err := s.intents.GetAll(ctx)
	if err != nil {
		return nil, errors.NewStoreError("list intents", err)
	}
	return intents, nil
}

func (s *KnowledgeService) UpdateIntent(ctx context.Context, intent *models.Intent) error {
	if err := validateIntent(intent); err != nil {
		return err
	}
	if _, err := s.intents.GetByID(ctx, intent.ID); err != nil {
		return errors.NewNotFoundError(errors.CodeIntentNotFound, "Intent not found")
	}
	if err := s.intents.Update(ctx, intent); err != nil {
		return errors.NewStoreError("update intent", err)
	}
	s.invalidateIntents()
	return nil
}

func (s *KnowledgeService) DeleteIntent(ctx context.Context, id uint) error {
	if _, err := s.intents.GetByID(ctx, id); err != nil {
		return errors.NewNotFoundError(errors.CodeIntentNotFound, "Intent not found")
	}
	if err := s.intents.Delete(ctx, id); err != nil {
		return errors.NewStoreError("delete intent", err)
	}
	s.invalidateIntents()
	return nil
}

// SetIntentActive flips the active flag, the soft way the dashboard
// retires intents without losing them.
func (s *KnowledgeService) SetIntentActive(ctx context.Context, id uint, active bool) error {
	intent, err := s.intents.GetByID(ctx, id)
	if err != nil {
		return errors.NewNotFoundError(errors.CodeIntentNotFound, "Intent not found")
	}
	intent.Active = active
	if err := s.intents.Update(ctx, intent); err != nil {
		return errors.NewStoreError("update intent", err)
	}
	s.invalidateIntents()
	return nil
}

func (s *KnowledgeService) CreateFaq(ctx context.Context, faq *models.Faq) error {
	if err := validateFaq(faq); err != nil {
		return err
	}
	if err := s.faqs.Create(ctx, faq); err != nil {
		return errors.NewStoreError("create faq", err)
	}
	s.invalidateFaqs()
	return nil
}

func (s *KnowledgeService) GetFaq(ctx context.Context, id uint) (*models.Faq, error) {
	faq, err := s.faqs.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewNotFoundError(errors.CodeFaqNotFound, "FAQ not found")
	}
	return faq, nil
}

func (s *KnowledgeService) ListFaqs(ctx context.Context) ([]models.Faq, error) {
	faqs, err := s.faqs.GetAll(ctx)
	if err != nil {
		return nil, errors.NewStoreError("list faqs", err)
	}
	return faqs, nil
}

func (s *KnowledgeService) UpdateFaq(ctx context.Context, faq *models.Faq) error {
	if err := validateFaq(faq); err != nil {
		return err
	}
	if _, err := s.faqs.GetByID(ctx, faq.ID); err != nil {
		return errors.NewNotFoundError(errors.CodeFaqNotFound, "FAQ not found")
	}
	if err := s.faqs.Update(ctx, faq); err != nil {
		return errors.NewStoreError("update faq", err)
	}
	s.invalidateFaqs()
	return nil
}

func (s *KnowledgeService) DeleteFaq(ctx context.Context, id uint) error {
	if _, err := s.faqs.GetByID(ctx, id); err != nil {
		return errors.NewNotFoundError(errors.CodeFaqNotFound, "FAQ not found")
	}
	if err := s.faqs.Delete(ctx, id); err != nil {
		return errors.NewStoreError("delete faq", err)
	}
	s.invalidateFaqs()
	return nil
}

func (s *KnowledgeService) SetFaqActive(ctx context.Context, id uint, active bool) error {
	faq, err := s.faqs.GetByID(ctx, id)
	if err != nil {
		return errors.NewNotFoundError(errors.CodeFaqNotFound, "FAQ not found")
	}
	faq.Active = active
	if err := s.faqs.Update(ctx, faq); err != nil {
		return errors.NewStoreError("update faq", err)
	}
	s.invalidateFaqs()
	return nil
}

func (s *KnowledgeService) invalidateIntents() {
	if s.cache != nil {
		s.cache.Delete(cacheKeyActiveIntents)
	}
}

func (s *KnowledgeService) invalidateFaqs() {
	if s.cache != nil {
		s.cache.Delete(cacheKeyActiveFaqs)
	}
}

func validateIntent(intent *models.Intent) error {
	if strings.TrimSpace(intent.Name) == "" {
		return errors.NewBadRequestError(errors.CodeValidationError, "Intent name is required")
	}
	if len(intent.Phrases) == 0 {
		return errors.NewBadRequestError(errors.CodeValidationError, "Intent needs at least one trigger phrase")
	}
	for _, p := range intent.Phrases {
		if strings.TrimSpace(p) == "" {
			return errors.NewBadRequestError(errors.CodeValidationError, "Trigger phrases must be non-empty")
		}
	}
	if strings.TrimSpace(intent.Response) == "" {
		return errors.NewBadRequestError(errors.CodeValidationError, "Intent response is required")
	}
	return nil
}

func validateFaq(faq *models.Faq) error {
	if strings.TrimSpace(faq.Question) == "" {
		return errors.NewBadRequestError(errors.CodeValidationError, "FAQ question is required")
	}
	if strings.TrimSpace(faq.Answer) == "" {
		return errors.NewBadRequestError(errors.CodeValidationError, "FAQ answer is required")
	}
	return nil
}
