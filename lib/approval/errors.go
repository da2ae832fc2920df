package approvalhandler

import (
	"github.com/pkg/errors"
)

// Ожидаемые исходы операций движка согласования.
// Контроллер сопоставляет их с HTTP статусами через errors.Is,
// ошибки хранилища оборачиваются отдельно и сюда не попадают.
var (
	ErrNotFound              = errors.New("заявка не найдена")
	ErrNotPending            = errors.New("решение по заявке уже принято")
	ErrNoTierAssigned        = errors.New("роль сотрудника не участвует в согласовании")
	ErrUnauthorized          = errors.New("уровень сотрудника недостаточен для решения по заявке")
	ErrCannotEscalateFurther = errors.New("заявка уже на высшем уровне согласования")
	ErrInvalidReason         = errors.New("не указана причина отклонения")
)
