package approvalworkflow

import (
	"retail-ops-backend/models"
)

// Default - боевые политики согласования по всем типам операций
func Default() *Registry {
	return NewRegistry(
		Config{
			Type:  models.ApprovalTypeVoucher,
			Tiers: []models.ApprovalTier{models.TierGeneralManager, models.TierDirector},
			AmountThresholds: []AmountThreshold{
				{Tier: models.TierGeneralManager, MinAmount: 0},
				{Tier: models.TierDirector, MinAmount: 5000},
			},
			DefaultExpiryHours: 48,
			AutoExpire:         true,
			NotifyChannels:     []string{"email", "whatsapp"},
		},
		Config{
			Type:  models.ApprovalTypeCashOut,
			Tiers: []models.ApprovalTier{models.TierManager, models.TierGeneralManager},
			AmountThresholds: []AmountThreshold{
				{Tier: models.TierManager, MinAmount: 0},
				{Tier: models.TierGeneralManager, MinAmount: 2000},
			},
			DefaultExpiryHours: 24,
			AutoExpire:         true,
			NotifyChannels:     []string{"email"},
		},
		Config{
			Type:               models.ApprovalTypeDisposal,
			Tiers:              []models.ApprovalTier{models.TierGeneralManager, models.TierDirector},
			DefaultExpiryHours: 168,
			AutoExpire:         false,
			NotifyChannels:     []string{"email"},
		},
		Config{
			Type:  models.ApprovalTypeDiscount,
			Tiers: []models.ApprovalTier{models.TierManager, models.TierGeneralManager},
			AmountThresholds: []AmountThreshold{
				{Tier: models.TierManager, MinAmount: 0},
				{Tier: models.TierGeneralManager, MinAmount: 1000},
			},
			DefaultExpiryHours: 24,
			AutoExpire:         true,
			NotifyChannels:     []string{"whatsapp"},
		},
		Config{
			Type:  models.ApprovalTypeRefund,
			Tiers: []models.ApprovalTier{models.TierManager, models.TierGeneralManager, models.TierDirector},
			AmountThresholds: []AmountThreshold{
				{Tier: models.TierManager, MinAmount: 0},
				{Tier: models.TierGeneralManager, MinAmount: 3000},
				{Tier: models.TierDirector, MinAmount: 10000},
			},
			DefaultExpiryHours: 24,
			AutoExpire:         true,
			NotifyChannels:     []string{"email", "whatsapp"},
		},
		Config{
			Type:               models.ApprovalTypePriceOverride,
			Tiers:              []models.ApprovalTier{models.TierManager, models.TierGeneralManager},
			DefaultExpiryHours: 12,
			AutoExpire:         true,
			NotifyChannels:     []string{"email"},
		},
		Config{
			Type:  models.ApprovalTypeCreditExtension,
			Tiers: []models.ApprovalTier{models.TierGeneralManager, models.TierDirector},
			AmountThresholds: []AmountThreshold{
				{Tier: models.TierGeneralManager, MinAmount: 0},
				{Tier: models.TierDirector, MinAmount: 20000},
			},
			DefaultExpiryHours: 72,
			AutoExpire:         true,
			NotifyChannels:     []string{"email"},
		},
	)
}
