package approvalworkflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"retail-ops-backend/models"
)

func amount(v float64) *float64 {
	return &v
}

func TestRequiredTier(t *testing.T) {
	registry := Default()

	t.Run(`выбор уровня по сумме`, func(t *testing.T) {
		require.Equal(t, models.TierManager, registry.RequiredTier(models.ApprovalTypeCashOut, amount(500)))
		require.Equal(t, models.TierGeneralManager, registry.RequiredTier(models.ApprovalTypeCashOut, amount(2500)))
		// граница порога включительно
		require.Equal(t, models.TierGeneralManager, registry.RequiredTier(models.ApprovalTypeCashOut, amount(2000)))
		require.Equal(t, models.TierGeneralManager, registry.RequiredTier(models.ApprovalTypeVoucher, amount(4999)))
		require.Equal(t, models.TierDirector, registry.RequiredTier(models.ApprovalTypeVoucher, amount(5000)))
	})

	t.Run(`без суммы берется первый уровень политики`, func(t *testing.T) {
		require.Equal(t, models.TierManager, registry.RequiredTier(models.ApprovalTypeCashOut, nil))
		require.Equal(t, models.TierGeneralManager, registry.RequiredTier(models.ApprovalTypeVoucher, nil))
	})

	t.Run(`тип без порогов`, func(t *testing.T) {
		require.Equal(t, models.TierGeneralManager, registry.RequiredTier(models.ApprovalTypeDisposal, amount(99999)))
		require.Equal(t, models.TierManager, registry.RequiredTier(models.ApprovalTypePriceOverride, amount(100)))
	})

	t.Run(`неизвестный тип`, func(t *testing.T) {
		require.Equal(t, models.LowestTier(), registry.RequiredTier(models.ApprovalType("bonus"), amount(100)))
	})

	t.Run(`детерминированность`, func(t *testing.T) {
		for i := 0; i < 10; i++ {
			require.Equal(t, models.TierGeneralManager, registry.RequiredTier(models.ApprovalTypeRefund, amount(3000)))
		}
	})

	t.Run(`порядок порогов в политике не важен`, func(t *testing.T) {
		registry := NewRegistry(Config{
			Type:  models.ApprovalTypeRefund,
			Tiers: []models.ApprovalTier{models.TierManager, models.TierGeneralManager, models.TierDirector},
			AmountThresholds: []AmountThreshold{
				{Tier: models.TierDirector, MinAmount: 10000},
				{Tier: models.TierManager, MinAmount: 0},
				{Tier: models.TierGeneralManager, MinAmount: 3000},
			},
		})
		require.Equal(t, models.TierManager, registry.RequiredTier(models.ApprovalTypeRefund, amount(2999)))
		require.Equal(t, models.TierGeneralManager, registry.RequiredTier(models.ApprovalTypeRefund, amount(9999)))
		require.Equal(t, models.TierDirector, registry.RequiredTier(models.ApprovalTypeRefund, amount(10000)))
	})
}

func TestExpiresAt(t *testing.T) {
	registry := Default()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run(`срок действия по политике`, func(t *testing.T) {
		expiresAt := registry.ExpiresAt(models.ApprovalTypeCashOut, now)
		require.NotNil(t, expiresAt)
		require.Equal(t, now.Add(24*time.Hour), *expiresAt)
	})

	t.Run(`автопросрочка выключена`, func(t *testing.T) {
		require.Nil(t, registry.ExpiresAt(models.ApprovalTypeDisposal, now))
	})

	t.Run(`неизвестный тип`, func(t *testing.T) {
		require.Nil(t, registry.ExpiresAt(models.ApprovalType("bonus"), now))
	})
}

func TestNotifyChannels(t *testing.T) {
	registry := Default()
	require.Equal(t, []string{"email", "whatsapp"}, registry.NotifyChannels(models.ApprovalTypeVoucher))
	require.Nil(t, registry.NotifyChannels(models.ApprovalType("bonus")))
}
