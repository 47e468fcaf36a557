package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Aravind-508/SpiceRoute/config"
	"github.com/Aravind-508/SpiceRoute/models"
	"github.com/Aravind-508/SpiceRoute/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// DownloadInvoice generates and returns a PDF invoice for the order
func DownloadInvoice(c *gin.Context) {
	utils.LogInfo("DownloadInvoice called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("Unauthorized invoice download attempt")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid order ID in invoice request: %v", err)
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}
	utils.LogInfo("Generating invoice for order ID: %d, user ID: %d", orderID, user.ID)

	var order models.Order
	if err := config.DB.Preload("OrderItems").
		Where("id = ? AND user_id = ?", orderID, user.ID).First(&order).Error; err != nil {
		utils.LogError("Order not found for invoice - Order ID: %d, User ID: %d", orderID, user.ID)
		utils.NotFound(c, "Order not found")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Store info
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "SpiceRoute")
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "42 Spice Street, Flavor Town")
	pdf.Ln(8)
	pdf.Cell(100, 8, "Email: support@spiceroute.com | Phone: +91-98765-43210")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "INVOICE")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(70, 8, "Order Number: "+order.OrderNumber)
	pdf.Cell(60, 8, "Order Date: "+order.CreatedAt.Format("2006-01-02 15:04:05"))
	pdf.Ln(8)
	pdf.Cell(70, 8, "Status: "+order.Status)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Billed To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, user.Name)
	pdf.Ln(6)
	pdf.Cell(100, 8, user.Email)
	pdf.Ln(10)

	// Items table
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(80, 8, "Item")
	pdf.Cell(30, 8, "Unit Price")
	pdf.Cell(25, 8, "Qty")
	pdf.Cell(30, 8, "Total")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	for _, item := range order.OrderItems {
		pdf.Cell(80, 8, item.Name)
		pdf.Cell(30, 8, fmt.Sprintf("%.2f", item.UnitPrice))
		pdf.Cell(25, 8, strconv.Itoa(item.Quantity))
		pdf.Cell(30, 8, fmt.Sprintf("%.2f", item.Total))
		pdf.Ln(7)
	}
	pdf.Ln(5)

	// Totals
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(135, 8, "Subtotal")
	pdf.Cell(30, 8, fmt.Sprintf("%.2f", order.Subtotal))
	pdf.Ln(7)
	if order.Discount > 0 {
		pdf.Cell(135, 8, "Discount ("+order.CouponCode+")")
		pdf.Cell(30, 8, fmt.Sprintf("-%.2f", order.Discount))
		pdf.Ln(7)
	}
	pdf.Cell(135, 8, "Final Total")
	pdf.Cell(30, 8, fmt.Sprintf("%.2f", order.FinalTotal))
	pdf.Ln(10)

	if order.RedeemedCoins > 0 {
		pdf.SetFont("Arial", "I", 11)
		pdf.Cell(165, 8, fmt.Sprintf("Paid partly with %d loyalty coins", order.RedeemedCoins))
		pdf.Ln(8)
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice_%s.pdf", order.OrderNumber))
	if err := pdf.Output(c.Writer); err != nil {
		utils.LogError("Failed to write invoice PDF for order %d: %v", orderID, err)
		c.Status(http.StatusInternalServerError)
		return
	}
	utils.LogInfo("Invoice generated for order %s", order.OrderNumber)
}
