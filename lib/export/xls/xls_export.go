package xlsexport

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"retail-ops-backend/models"
	approvalapimodels "retail-ops-backend/models/api/approval"
)

type Provider interface {
	ExportApprovalStats(stats approvalapimodels.ApprovalStatsView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var statsHeaders = []string{"Тип заявки", "На согласовании", "Согласовано", "Отклонено"}

func (i impl) ExportApprovalStats(stats approvalapimodels.ApprovalStatsView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, statsHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(stats.ByType) != 0 {
		row, err = writeStatsData(f, sheet, stats, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	row, err = writeSummary(f, sheet, stats, row)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования итогов в xlsx")
	}
	f.SetSheetName(sheet, "Согласования")
	return f.WriteToBuffer()
}

func writeStatsData(f *excelize.File, sheet string, stats approvalapimodels.ApprovalStatsView, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(statsHeaders), row+len(stats.ByType)+1); err != nil {
		return row, err
	}
	// фиксированный порядок строк по перечню типов
	for _, approvalType := range models.ApprovalTypes {
		typeStats, ok := stats.ByType[approvalType]
		if !ok {
			continue
		}
		row++
		// "Тип заявки"
		col := 1
		if err := writeColumn(f, sheet, col, row, approvalType.ToHuman()); err != nil {
			return row, err
		}

		// "На согласовании"
		col++
		if err := writeColumn(f, sheet, col, row, typeStats.Pending); err != nil {
			return row, err
		}

		// "Согласовано"
		col++
		if err := writeColumn(f, sheet, col, row, typeStats.Approved); err != nil {
			return row, err
		}

		// "Отклонено"
		col++
		if err := writeColumn(f, sheet, col, row, typeStats.Rejected); err != nil {
			return row, err
		}
	}
	return row, nil
}

func writeSummary(f *excelize.File, sheet string, stats approvalapimodels.ApprovalStatsView, row int) (int, error) {
	row += 2
	if err := writeColumn(f, sheet, 1, row, fmt.Sprintf("Всего заявок: %d", stats.Total)); err != nil {
		return row, err
	}
	row++
	if err := writeColumn(f, sheet, 1, row, fmt.Sprintf("Просрочено: %d", stats.Expired)); err != nil {
		return row, err
	}
	row++
	if err := writeColumn(f, sheet, 1, row, fmt.Sprintf("Среднее время согласования, ч: %.1f", stats.AvgApprovalHours)); err != nil {
		return row, err
	}
	return row, nil
}
