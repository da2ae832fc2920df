package models

type ApprovalTier string

const (
	TierManager        ApprovalTier = "manager"
	TierGeneralManager ApprovalTier = "general_manager"
	TierDirector       ApprovalTier = "director"
	TierAdmin          ApprovalTier = "admin"
)

// TierHierarchy - единая иерархия уровней согласования (от младшего к старшему)
var TierHierarchy = []ApprovalTier{
	TierManager,
	TierGeneralManager,
	TierDirector,
	TierAdmin,
}

var tierHumanName = map[ApprovalTier]string{
	TierManager:        "Менеджер точки",
	TierGeneralManager: "Управляющий",
	TierDirector:       "Директор сети",
	TierAdmin:          "Администратор системы",
}

func (t ApprovalTier) ToHuman() string {
	if human, exist := tierHumanName[t]; exist {
		return human
	}
	return string(t)
}

// TierLevel возвращает позицию уровня в иерархии, -1 если уровень неизвестен
func TierLevel(tier ApprovalTier) int {
	for idx, t := range TierHierarchy {
		if t == tier {
			return idx
		}
	}
	return -1
}

// TierCovers - может ли actorTier принимать решения, требующие requiredTier
func TierCovers(actorTier, requiredTier ApprovalTier) bool {
	actorLevel := TierLevel(actorTier)
	requiredLevel := TierLevel(requiredTier)
	if actorLevel == -1 || requiredLevel == -1 {
		return false
	}
	return actorLevel >= requiredLevel
}

// NextTier - следующий уровень в единой иерархии, false если текущий уровень последний
func NextTier(tier ApprovalTier) (ApprovalTier, bool) {
	level := TierLevel(tier)
	if level == -1 || level == len(TierHierarchy)-1 {
		return "", false
	}
	return TierHierarchy[level+1], true
}

// LowestTier - первый уровень единой иерархии
func LowestTier() ApprovalTier {
	return TierHierarchy[0]
}

// IsBranchAgnostic - уровни, которым доступны заявки всех филиалов
func (t ApprovalTier) IsBranchAgnostic() bool {
	return t == TierDirector || t == TierAdmin
}
