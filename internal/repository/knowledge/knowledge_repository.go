package knowledge

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/quetzal-chat/quetzal/internal/domain"
	"gorm.io/gorm"
)

type gormKnowledgeRepository struct {
	db *gorm.DB
}

func NewKnowledgeRepository(db *gorm.DB) KnowledgeRepository {
	return &gormKnowledgeRepository{db: db}
}

// FindMatching matches by substring containment: the lowered query must
// contain the stored keyword. Keywords are stored lowercased by
// CreateInBatch, so the comparison is case-insensitive.
func (r *gormKnowledgeRepository) FindMatching(ctx context.Context, query string) ([]domain.KnowledgeFact, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, errors.New("query is required")
	}

	var facts []domain.KnowledgeFact
	err := r.db.WithContext(ctx).
		Where("? LIKE '%' || keyword || '%'", query).
		Find(&facts).Error
	if err != nil {
		log.Printf("[KnowledgeRepository] Database error matching query: %v", err)
		return nil, errors.New("database error matching knowledge facts")
	}

	return facts, nil
}

func (r *gormKnowledgeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.KnowledgeFact{}).Count(&count).Error
	if err != nil {
		log.Printf("[KnowledgeRepository] Database error counting facts: %v", err)
		return 0, errors.New("database error counting knowledge facts")
	}
	return count, nil
}

func (r *gormKnowledgeRepository) CreateInBatch(ctx context.Context, facts []domain.KnowledgeFact) error {
	if len(facts) == 0 {
		return nil
	}

	for i := range facts {
		facts[i].Keyword = strings.ToLower(strings.TrimSpace(facts[i].Keyword))
		if facts[i].Keyword == "" || facts[i].Answer == "" {
			return errors.New("keyword and answer are required")
		}
		// Keywords become the LIKE pattern in FindMatching, where % and _
		// are wildcards; a keyword carrying them would match unrelated
		// questions.
		if strings.ContainsAny(facts[i].Keyword, "%_") {
			return errors.New("keyword cannot contain % or _")
		}
	}

	if err := r.db.WithContext(ctx).CreateInBatches(facts, 100).Error; err != nil {
		log.Printf("[KnowledgeRepository] Batch creation failed: %v", err)
		return errors.New("database error creating knowledge facts")
	}

	log.Printf("[KnowledgeRepository] Created %d knowledge facts", len(facts))
	return nil
}
