package controllers

import (
	"fmt"
	"math"
	"time"

	"github.com/Aravind-508/SpiceRoute/config"
	"github.com/Aravind-508/SpiceRoute/models"
	"github.com/Aravind-508/SpiceRoute/utils"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

// AdminExportSalesReport writes an Excel sales report over a date range,
// with one row per order and a summary block
func AdminExportSalesReport(c *gin.Context) {
	utils.LogInfo("AdminExportSalesReport called")

	endDate := time.Now()
	startDate := endDate.AddDate(0, -1, 0)
	if s := c.Query("start"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			utils.BadRequest(c, "Invalid start date, expected YYYY-MM-DD", nil)
			return
		}
		startDate = parsed
	}
	if e := c.Query("end"); e != "" {
		parsed, err := time.Parse("2006-01-02", e)
		if err != nil {
			utils.BadRequest(c, "Invalid end date, expected YYYY-MM-DD", nil)
			return
		}
		endDate = parsed.AddDate(0, 0, 1) // include the whole end day
	}
	utils.LogDebug("Sales report range %s to %s", startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

	var orders []models.Order
	if err := config.DB.Preload("OrderItems").
		Where("created_at >= ? AND created_at < ?", startDate, endDate).
		Order("created_at").Find(&orders).Error; err != nil {
		utils.LogError("Failed to load orders for sales report: %v", err)
		utils.InternalServerError(c, "Failed to load orders", nil)
		return
	}
	utils.LogInfo("Loaded %d orders for sales report", len(orders))

	var totalRevenue, totalDiscounts float64
	var deliveredCount, cancelledCount, totalCoinsRedeemed int
	for _, order := range orders {
		switch order.Status {
		case models.OrderStatusDelivered:
			deliveredCount++
			totalRevenue += order.FinalTotal
			totalDiscounts += order.Discount
		case models.OrderStatusCancelled:
			cancelledCount++
		}
		totalCoinsRedeemed += order.RedeemedCoins
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Sales Report")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", nil)
		return
	}

	companyRow := sheet.AddRow()
	companyRow.AddCell().SetString("SPICEROUTE - Sales Report")
	companyRow = sheet.AddRow()
	companyRow.AddCell().SetString("42 Spice Street, Flavor Town")
	companyRow = sheet.AddRow()
	companyRow.AddCell().SetString("Period: " + startDate.Format("2006-01-02") + " to " + endDate.AddDate(0, 0, -1).Format("2006-01-02"))
	sheet.AddRow() // spacing

	headers := []string{"Order Number", "Date", "Items", "Subtotal", "Discount", "Final Total", "Coupon", "Coins Redeemed", "Status"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	for _, order := range orders {
		row := sheet.AddRow()
		row.AddCell().SetString(order.OrderNumber)
		row.AddCell().SetString(order.CreatedAt.Format("2006-01-02 15:04"))
		row.AddCell().SetInt(len(order.OrderItems))
		row.AddCell().SetFloat(order.Subtotal)
		row.AddCell().SetFloat(order.Discount)
		row.AddCell().SetFloat(order.FinalTotal)
		row.AddCell().SetString(order.CouponCode)
		row.AddCell().SetInt(order.RedeemedCoins)
		row.AddCell().SetString(order.Status)
	}

	sheet.AddRow() // spacing

	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Summary")
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	summaryRow.Cells[0].SetStyle(style)

	summaryData := [][]string{
		{"Total Orders", fmt.Sprintf("%d", len(orders))},
		{"Delivered", fmt.Sprintf("%d", deliveredCount)},
		{"Cancelled", fmt.Sprintf("%d", cancelledCount)},
		{"Delivered Revenue", fmt.Sprintf("%.2f", math.Round(totalRevenue*100)/100)},
		{"Delivered Discounts", fmt.Sprintf("%.2f", math.Round(totalDiscounts*100)/100)},
		{"Coins Redeemed", fmt.Sprintf("%d", totalCoinsRedeemed)},
	}
	for _, data := range summaryData {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=sales_report_%s.xlsx", time.Now().Format("2006-01-02")))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to write Excel file", nil)
		return
	}
	utils.LogInfo("Sales report exported with %d orders", len(orders))
}
