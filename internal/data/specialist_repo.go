package data

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/biz"
	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/constants"
	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/data/model"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// specialistRepo is the specialist read model implementation with a
// cache-aside redis layer on the email lookup.
type specialistRepo struct {
	data *Data
	log  *log.Helper
}

// NewSpecialistRepo creates the specialist read model
func NewSpecialistRepo(data *Data, logger log.Logger) biz.SpecialistRepo {
	return &specialistRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func toBizSpecialist(m *model.Specialist) *biz.Specialist {
	return &biz.Specialist{
		ID:    m.ID,
		Name:  m.Name,
		Email: m.Email,
		Phone: m.Phone,
	}
}

// FindByEmail returns the specialist with the exact email, nil when absent.
// Misses are cached briefly (null caching) so a burst of reminder runs does
// not hammer the database for unknown addresses.
func (r *specialistRepo) FindByEmail(ctx context.Context, email string) (*biz.Specialist, error) {
	cacheKey := "specialist:email:" + email

	if cached, err := r.data.rdb.Get(ctx, cacheKey).Result(); err == nil {
		if cached == "" {
			return nil, nil
		}
		var sp biz.Specialist
		if err := json.Unmarshal([]byte(cached), &sp); err == nil {
			return &sp, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		r.log.Warnf("Specialist cache read failed for %s: %v", email, err)
	}

	var m model.Specialist
	if err := r.data.DB(ctx).First(&m, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.cacheSet(ctx, cacheKey, "", constants.NullCacheExpiration)
			return nil, nil
		}
		r.log.Errorf("Failed to find specialist by email %s: %v", email, err)
		return nil, err
	}

	sp := toBizSpecialist(&m)
	if b, err := json.Marshal(sp); err == nil {
		r.cacheSet(ctx, cacheKey, string(b), constants.DefaultCacheExpiration)
	}
	return sp, nil
}

// FindByName is the last-resort fuzzy lookup: substring match on the name,
// first hit wins. Callers log when they fall back to this path.
func (r *specialistRepo) FindByName(ctx context.Context, fullName string) (*biz.Specialist, error) {
	if fullName == "" {
		return nil, nil
	}
	var m model.Specialist
	if err := r.data.DB(ctx).
		Where("name LIKE ?", "%"+fullName+"%").
		Order("specialist_id ASC").
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Errorf("Failed to find specialist by name %q: %v", fullName, err)
		return nil, err
	}
	return toBizSpecialist(&m), nil
}

func (r *specialistRepo) cacheSet(ctx context.Context, key, value string, ttl time.Duration) {
	if err := r.data.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		r.log.Warnf("Specialist cache write failed for %s: %v", key, err)
	}
}
