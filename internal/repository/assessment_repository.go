package repository

import (
	"context"
	"edu_assess_backend/internal/model"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// 评分只读取 Catalog，不修改；整图短 TTL 缓存
const catalogCacheTTL = 5 * time.Minute

type AssessmentRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewAssessmentRepository(db *gorm.DB, rdb *redis.Client) *AssessmentRepository {
	return &AssessmentRepository{DB: db, Redis: rdb}
}

// LoadAssessmentWithQuestionsAndOptions 加载评测及完整的 题目→选项 图。
// 未找到时返回 gorm.ErrRecordNotFound。
func (r *AssessmentRepository) LoadAssessmentWithQuestionsAndOptions(ctx context.Context, id string) (*model.Assessment, error) {
	cacheKey := "catalog:assessment:" + id

	if r.Redis != nil {
		if val, err := r.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var cached model.Assessment
			if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
				return &cached, nil
			}
		}
	}

	var a model.Assessment
	err := r.DB.WithContext(ctx).
		Preload("Questions.Options").
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	if r.Redis != nil {
		if data, jsonErr := json.Marshal(&a); jsonErr == nil {
			r.Redis.Set(ctx, cacheKey, data, catalogCacheTTL)
		}
	}

	return &a, nil
}

// FindAssessmentWithQuestions 只带题目，不带选项（用于只需要题目数的场景）
func (r *AssessmentRepository) FindAssessmentWithQuestions(ctx context.Context, id string) (*model.Assessment, error) {
	var a model.Assessment
	err := r.DB.WithContext(ctx).
		Preload("Questions").
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}
