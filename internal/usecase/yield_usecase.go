package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/repository"
	"farmily/pkg/errors"
)

type YieldUseCase struct {
	yieldRepo repository.YieldRepository
	now       func() time.Time
}

func NewYieldUseCase(yieldRepo repository.YieldRepository) *YieldUseCase {
	return &YieldUseCase{
		yieldRepo: yieldRepo,
		now:       time.Now,
	}
}

type YieldInput struct {
	FarmName        string
	Year            int
	CropType        string
	Acreage         float64
	TotalYield      float64
	Irrigation      string
	FertilizerUsed  string
	AdditionalNotes string
}

func (in YieldInput) apply(y *entity.FarmYield) error {
	if strings.TrimSpace(in.FarmName) == "" || strings.TrimSpace(in.CropType) == "" {
		return errors.BadRequest("farm_name and crop_type are required", nil)
	}
	if in.Year < 1900 || in.Year > 3000 {
		return errors.BadRequest("year is out of range", nil)
	}
	if in.Acreage < 0 || in.TotalYield < 0 {
		return errors.BadRequest("acreage and total_yield cannot be negative", nil)
	}
	irrigation := in.Irrigation
	if irrigation == "" {
		irrigation = "No"
	}
	if irrigation != "Yes" && irrigation != "No" {
		return errors.BadRequest("irrigation must be Yes or No", nil)
	}

	y.FarmName = strings.TrimSpace(in.FarmName)
	y.Year = in.Year
	y.CropType = strings.TrimSpace(in.CropType)
	y.Acreage = in.Acreage
	y.TotalYield = in.TotalYield
	y.Irrigation = irrigation
	y.FertilizerUsed = in.FertilizerUsed
	y.AdditionalNotes = in.AdditionalNotes
	y.Recompute()
	return nil
}

func (uc *YieldUseCase) Create(ctx context.Context, uid string, in YieldInput) (*entity.FarmYield, error) {
	now := uc.now()
	y := &entity.FarmYield{UserID: uid, CreatedAt: now, LastUpdated: now}
	if err := in.apply(y); err != nil {
		return nil, err
	}
	if err := uc.yieldRepo.Create(ctx, y); err != nil {
		return nil, err
	}
	return y, nil
}

func (uc *YieldUseCase) owned(ctx context.Context, uid, id string) (*entity.FarmYield, error) {
	y, err := uc.yieldRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if y.UserID != uid {
		return nil, errors.Forbidden("You can only change your own yield records", nil)
	}
	return y, nil
}

func (uc *YieldUseCase) Update(ctx context.Context, uid, id string, in YieldInput) (*entity.FarmYield, error) {
	y, err := uc.owned(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(y); err != nil {
		return nil, err
	}
	y.LastUpdated = uc.now()
	if err := uc.yieldRepo.Update(ctx, y); err != nil {
		return nil, err
	}
	return y, nil
}

func (uc *YieldUseCase) Delete(ctx context.Context, uid, id string) error {
	if _, err := uc.owned(ctx, uid, id); err != nil {
		return err
	}
	return uc.yieldRepo.Delete(ctx, id)
}

func (uc *YieldUseCase) List(ctx context.Context, uid string) ([]*entity.FarmYield, error) {
	return uc.yieldRepo.ListByUser(ctx, uid)
}

func (uc *YieldUseCase) Report(ctx context.Context, uid string) (*entity.YieldReport, error) {
	records, err := uc.yieldRepo.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	return entity.BuildYieldReport(records), nil
}

var yieldColumns = []string{
	"Farm", "Year", "Crop", "Acreage", "Total Yield", "Yield / Acre",
	"Irrigation", "Fertilizer", "Notes",
}

// Export writes the records and report summary as an XLSX workbook.
func (uc *YieldUseCase) Export(ctx context.Context, uid string) ([]byte, error) {
	records, err := uc.yieldRepo.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	report := entity.BuildYieldReport(records)

	f := excelize.NewFile()
	defer f.Close()

	const recordsSheet, summarySheet = "Records", "Summary"
	if err := f.SetSheetName("Sheet1", recordsSheet); err != nil {
		return nil, errors.Internal("Failed to build export", err)
	}

	header := make([]interface{}, len(yieldColumns))
	for i, c := range yieldColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(recordsSheet, "A1", &header); err != nil {
		return nil, errors.Internal("Failed to build export", err)
	}
	for i, y := range records {
		row := []interface{}{
			y.FarmName, y.Year, y.CropType, y.Acreage, y.TotalYield, y.YieldPerAcre,
			y.Irrigation, y.FertilizerUsed, y.AdditionalNotes,
		}
		if err := f.SetSheetRow(recordsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, errors.Internal("Failed to build export", err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, errors.Internal("Failed to build export", err)
	}
	rows := [][]interface{}{
		{"Total Acreage", report.TotalAcreage},
		{"Total Yield", report.TotalYield},
		{"Average Yield / Acre", report.AverageYieldPerAcre},
		{"Crop Types", len(report.CropTypes)},
		{"Years", len(report.Years)},
		{},
		{"Crop", "Records", "Average Yield / Acre"},
	}
	for _, c := range report.ByCrop {
		rows = append(rows, []interface{}{c.CropType, c.Records, c.AverageYieldPerAcre})
	}
	for i, row := range rows {
		row := row
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return nil, errors.Internal("Failed to build export", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errors.Internal("Failed to write export", err)
	}
	return buf.Bytes(), nil
}
