package service

import (
	"context"
	"fmt"
	"io"

	"garrison/internal/model"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Applications"

var exportColumns = []struct {
	title string
	value func(a *model.Application) any
}{
	{"ID", func(a *model.Application) any { return a.ID }},
	{"Фамилия", func(a *model.Application) any { return a.LastName }},
	{"Имя", func(a *model.Application) any { return a.FirstName }},
	{"Отчество", func(a *model.Application) any { return a.MiddleName }},
	{"Дата рождения", func(a *model.Application) any { return a.BirthDate }},
	{"Возраст", func(a *model.Application) any { return a.RAge }},
	{"Телефон", func(a *model.Application) any { return a.Phone }},
	{"Email", func(a *model.Application) any { return a.Email }},
	{"Ник", func(a *model.Application) any { return a.RobloxNick }},
	{"Отдел", func(a *model.Application) any { return a.DepartmentPreference }},
	{"Статус", func(a *model.Application) any { return a.Status }},
	{"Дата подачи", func(a *model.Application) any { return a.SubmissionDate.Format(model.DateTimeLayout) }},
	{"Логин", func(a *model.Application) any {
		if a.Account == nil {
			return ""
		}
		return a.Account.Username
	}},
}

// Export writes every application as an XLSX workbook, newest first.
func (s *ApplicationService) Export(ctx context.Context, w io.Writer) error {
	apps, err := s.List(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for col, c := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, c.title); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for row := range apps {
		for col, c := range exportColumns {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(exportSheet, cell, c.value(&apps[row])); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}
	return f.Write(w)
}
