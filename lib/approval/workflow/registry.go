package approvalworkflow

import (
	"sort"
	"time"

	"retail-ops-backend/models"
)

type AmountThreshold struct {
	Tier      models.ApprovalTier
	MinAmount float64
}

// Config - политика согласования для одного типа заявок
type Config struct {
	Type               models.ApprovalType
	Tiers              []models.ApprovalTier // участвующие уровни, в порядке единой иерархии
	AmountThresholds   []AmountThreshold
	DefaultExpiryHours int
	AutoExpire         bool
	NotifyChannels     []string
}

// Registry - неизменяемый набор политик согласования.
// Передается движку при создании, в тестах подменяется альтернативными политиками.
type Registry struct {
	configs map[models.ApprovalType]Config
}

func NewRegistry(configs ...Config) *Registry {
	r := &Registry{
		configs: make(map[models.ApprovalType]Config, len(configs)),
	}
	for _, cfg := range configs {
		r.configs[cfg.Type] = cfg
	}
	return r
}

func (r *Registry) Get(approvalType models.ApprovalType) (Config, bool) {
	cfg, ok := r.configs[approvalType]
	return cfg, ok
}

// RequiredTier - минимальный уровень, достаточный для решения по заявке.
// Чистая функция: одинаковые аргументы всегда дают одинаковый уровень.
func (r *Registry) RequiredTier(approvalType models.ApprovalType, amount *float64) models.ApprovalTier {
	cfg, ok := r.configs[approvalType]
	if !ok || len(cfg.Tiers) == 0 {
		return models.LowestTier()
	}
	if len(cfg.AmountThresholds) == 0 || amount == nil {
		return cfg.Tiers[0]
	}
	thresholds := make([]AmountThreshold, len(cfg.AmountThresholds))
	copy(thresholds, cfg.AmountThresholds)
	sort.SliceStable(thresholds, func(i, j int) bool {
		return thresholds[i].MinAmount > thresholds[j].MinAmount
	})
	for _, threshold := range thresholds {
		if threshold.MinAmount <= *amount {
			return threshold.Tier
		}
	}
	return cfg.Tiers[0]
}

// ExpiresAt - срок действия заявки, nil если автопросрочка для типа выключена
func (r *Registry) ExpiresAt(approvalType models.ApprovalType, now time.Time) *time.Time {
	cfg, ok := r.configs[approvalType]
	if !ok || !cfg.AutoExpire || cfg.DefaultExpiryHours <= 0 {
		return nil
	}
	expiresAt := now.Add(time.Duration(cfg.DefaultExpiryHours) * time.Hour)
	return &expiresAt
}

func (r *Registry) NotifyChannels(approvalType models.ApprovalType) []string {
	cfg, ok := r.configs[approvalType]
	if !ok {
		return nil
	}
	return cfg.NotifyChannels
}
