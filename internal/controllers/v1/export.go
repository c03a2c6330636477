package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/munisuite/backend/internal/httputil"
	"github.com/munisuite/backend/internal/models"
	"github.com/xuri/excelize/v2"
)

// RegisterExportRoutes registers the spreadsheet export routes with
// the RouterGroup that is passed.
func RegisterExportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/schedules.xlsx", OptionsExport)
	r.GET("/schedules.xlsx", ExportSchedules)
	r.OPTIONS("/plans.xlsx", OptionsExport)
	r.GET("/plans.xlsx", ExportPlans)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Export
// @Success		204
// @Router			/v1/export/schedules.xlsx [options]
func OptionsExport(c *gin.Context) {
	httputil.OptionsGet(c)
}

func writeWorkbook(c *gin.Context, name string, file *excelize.File) {
	buffer, err := file.WriteToBuffer()
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpError{Error: models.ErrGeneral.Error()})
		return
	}

	filename := fmt.Sprintf("%s_%s.xlsx", name, time.Now().In(time.UTC).Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, xlsxContentType, buffer.Bytes())
}

// @Summary		Export schedules
// @Description	Exports all active waste collection schedules as a spreadsheet
// @Tags			Export
// @Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success		200
// @Failure		500	{object}	httpError
// @Router			/v1/export/schedules.xlsx [get]
func ExportSchedules(c *gin.Context) {
	var schedules []models.WasteCollectionSchedule
	err := models.DB.
		Preload("Assignment").
		Preload("Assignment.Collectors").
		Where("waste_collection_schedules.archived = false").
		Order("waste_collection_schedules.date ASC").
		Find(&schedules).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	headers := []string{"Date", "Time", "Sitio", "Driver", "Truck", "Collectors"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = file.SetCellValue(sheet, cell, header)
	}

	for row, schedule := range schedules {
		values := []any{
			schedule.Date.Format("2006-01-02"),
			schedule.Time,
			schedule.Sitio,
			"", "", "",
		}

		if schedule.Assignment != nil {
			values[3] = schedule.Assignment.Driver
			values[4] = schedule.Assignment.TruckPlate

			collectors := ""
			for i, collector := range schedule.Assignment.Collectors {
				if i > 0 {
					collectors += ", "
				}
				collectors += collector.Name
			}
			values[5] = collectors
		}

		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = file.SetCellValue(sheet, cell, value)
		}
	}

	writeWorkbook(c, "waste-collection-schedules", file)
}

// @Summary		Export plans
// @Description	Exports all active annual dev plans with their budget totals as a spreadsheet
// @Tags			Export
// @Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success		200
// @Failure		500	{object}	httpError
// @Router			/v1/export/plans.xlsx [get]
func ExportPlans(c *gin.Context) {
	var plans []models.AnnualDevPlan
	err := models.DB.
		Preload("BudgetItems").
		Where("annual_dev_plans.archived = false").
		Order("annual_dev_plans.date ASC").
		Find(&plans).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	headers := []string{"Date", "Client", "Issue", "Responsible", "Mandated", "Budget"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = file.SetCellValue(sheet, cell, header)
	}

	for row, plan := range plans {
		total := planBudgetTotal(plan)

		values := []any{
			plan.Date.Format("2006-01-02"),
			plan.Client,
			plan.Issue,
			plan.Responsible,
			plan.Mandated,
			total.StringFixed(2),
		}

		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = file.SetCellValue(sheet, cell, value)
		}
	}

	writeWorkbook(c, "annual-dev-plans", file)
}
