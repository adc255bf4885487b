package handler

import (
	"log"
	"net/http"

	"dukadrop/internal/erpnext"
	"dukadrop/internal/models"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	erp *erpnext.Client
}

func NewOrderHandler(erp *erpnext.Client) *OrderHandler {
	return &OrderHandler{erp: erp}
}

// List returns open (undelivered) orders with their line items. A failed
// item fetch degrades to an empty item list rather than failing the view.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.erp.ListOpenOrders(c.Request.Context())
	if err != nil {
		log.Printf("[ORDERS] list: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load orders"})
		return
	}
	for i := range orders {
		detail, err := h.erp.GetSalesOrder(c.Request.Context(), orders[i].Name)
		if err != nil {
			log.Printf("[ORDERS] items for %s: %v", orders[i].Name, err)
			orders[i].Items = []models.OrderItem{}
			continue
		}
		orders[i].Items = detail.Items
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Get returns one order with customer and address attached. Customer and
// address lookups are best-effort: absent data is shown as absent.
func (h *OrderHandler) Get(c *gin.Context) {
	name := c.Param("id")
	order, err := h.erp.GetSalesOrder(c.Request.Context(), name)
	if err != nil {
		log.Printf("[ORDERS] get %s: %v", name, err)
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	var customer *models.Customer
	if cust, err := h.erp.GetCustomer(c.Request.Context(), order.Customer); err != nil {
		log.Printf("[ORDERS] customer %s: %v", order.Customer, err)
	} else {
		customer = cust
	}
	address, _ := h.erp.GetCustomerAddress(c.Request.Context(), order.Customer)
	c.JSON(http.StatusOK, gin.H{
		"order":    order,
		"customer": customer,
		"address":  address,
	})
}
