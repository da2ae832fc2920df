package models

type ApprovalType string

const (
	ApprovalTypeVoucher         ApprovalType = "voucher"
	ApprovalTypeCashOut         ApprovalType = "cash_out"
	ApprovalTypeDisposal        ApprovalType = "disposal"
	ApprovalTypeDiscount        ApprovalType = "discount"
	ApprovalTypeRefund          ApprovalType = "refund"
	ApprovalTypePriceOverride   ApprovalType = "price_override"
	ApprovalTypeCreditExtension ApprovalType = "credit_extension"
)

// ApprovalTypes - закрытый перечень операций, требующих согласования
var ApprovalTypes = []ApprovalType{
	ApprovalTypeVoucher,
	ApprovalTypeCashOut,
	ApprovalTypeDisposal,
	ApprovalTypeDiscount,
	ApprovalTypeRefund,
	ApprovalTypePriceOverride,
	ApprovalTypeCreditExtension,
}

var approvalTypeHumanName = map[ApprovalType]string{
	ApprovalTypeVoucher:         "Выпуск ваучера",
	ApprovalTypeCashOut:         "Выплата за невостребованный заказ",
	ApprovalTypeDisposal:        "Утилизация",
	ApprovalTypeDiscount:        "Скидка",
	ApprovalTypeRefund:          "Возврат средств",
	ApprovalTypePriceOverride:   "Изменение цены",
	ApprovalTypeCreditExtension: "Продление кредита клиенту",
}

func (t ApprovalType) ToHuman() string {
	if human, exist := approvalTypeHumanName[t]; exist {
		return human
	}
	return string(t)
}

func (t ApprovalType) IsValid() bool {
	for _, known := range ApprovalTypes {
		if t == known {
			return true
		}
	}
	return false
}

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
	ApprovalStatusExpired  ApprovalStatus = "expired"
)

var approvalStatusHumanName = map[ApprovalStatus]string{
	ApprovalStatusPending:  "На согласовании",
	ApprovalStatusApproved: "Согласована",
	ApprovalStatusRejected: "Отклонена",
	ApprovalStatusExpired:  "Просрочена",
}

func (s ApprovalStatus) ToHuman() string {
	if human, exist := approvalStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// IsTerminal - заявка в конечном статусе, решение по ней больше не меняется
func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusRejected || s == ApprovalStatusExpired
}

type ApprovalAction string

const (
	ApprovalActionApprove  ApprovalAction = "approve"
	ApprovalActionReject   ApprovalAction = "reject"
	ApprovalActionEscalate ApprovalAction = "escalate"
	ApprovalActionComment  ApprovalAction = "comment"
)

var approvalActionHumanName = map[ApprovalAction]string{
	ApprovalActionApprove:  "Согласовано",
	ApprovalActionReject:   "Отклонено",
	ApprovalActionEscalate: "Эскалация",
	ApprovalActionComment:  "Комментарий",
}

func (a ApprovalAction) ToHuman() string {
	if human, exist := approvalActionHumanName[a]; exist {
		return human
	}
	return string(a)
}

type ApprovalPriority string

const (
	ApprovalPriorityLow    ApprovalPriority = "low"
	ApprovalPriorityNormal ApprovalPriority = "normal"
	ApprovalPriorityHigh   ApprovalPriority = "high"
	ApprovalPriorityUrgent ApprovalPriority = "urgent"
)

var approvalPriorityHumanName = map[ApprovalPriority]string{
	ApprovalPriorityLow:    "низкий",
	ApprovalPriorityNormal: "обычный",
	ApprovalPriorityHigh:   "высокий",
	ApprovalPriorityUrgent: "срочный",
}

func (p ApprovalPriority) ToHuman() string {
	if human, exist := approvalPriorityHumanName[p]; exist {
		return human
	}
	return string(p)
}
