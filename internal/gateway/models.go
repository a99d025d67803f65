package gateway

import "time"

// Sale is the persisted sale header as the backend returns it.
type Sale struct {
	SaleID        string     `json:"saleId"`
	CustomerID    string     `json:"customerId"`
	Comment       string     `json:"comment"`
	Total         float64    `json:"total"`
	TotalPayments float64    `json:"totalPayments"`
	CreatedBy     string     `json:"createdBy,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
}

// SaleInput is the header payload of POST /sales.
type SaleInput struct {
	SaleID        string  `json:"saleId"`
	CustomerID    string  `json:"customerId"`
	Comment       string  `json:"comment"`
	Total         float64 `json:"total"`
	TotalPayments float64 `json:"totalPayments"`
	CreatedBy     string  `json:"createdBy,omitempty"`
}

// SaleDetail maps one sold line to exactly one of a product or a service.
type SaleDetail struct {
	SaleDetailID string  `json:"saleDetailId"`
	SaleID       string  `json:"saleId"`
	ProductID    *string `json:"productId"`
	ServiceID    *string `json:"serviceId"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
	Total        float64 `json:"total"`
}

type Payment struct {
	PaymentID string     `json:"paymentId"`
	SaleID    string     `json:"saleId"`
	MethodID  int        `json:"methodId"`
	Amount    float64    `json:"amount"`
	CreatedBy string     `json:"createdBy,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type Customer struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address,omitempty"`
}

type CustomerInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// Product and Service are the two kinds of catalog entries a line can sell.
type Product struct {
	ProductID  string  `json:"productId"`
	SKU        string  `json:"sku"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	PriceFixed bool    `json:"priceFixed"`
}

type Service struct {
	ServiceID  string  `json:"serviceId"`
	SKU        string  `json:"sku"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	PriceFixed bool    `json:"priceFixed"`
}

type Expense struct {
	ExpenseID   string     `json:"expenseId"`
	Description string     `json:"description"`
	MethodID    int        `json:"methodId"`
	Amount      float64    `json:"amount"`
	CreatedBy   string     `json:"createdBy,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

type ExpenseInput struct {
	Description string  `json:"description"`
	MethodID    int     `json:"methodId"`
	Amount      float64 `json:"amount"`
	CreatedBy   string  `json:"createdBy,omitempty"`
}

type saleEnvelope struct {
	Sale Sale `json:"sale"`
}

type saleDetailEnvelope struct {
	SaleDetail SaleDetail `json:"saleDetail"`
}

type paymentEnvelope struct {
	Payment Payment `json:"payment"`
}

type customerEnvelope struct {
	Customer Customer `json:"customer"`
}

type expenseEnvelope struct {
	Expense Expense `json:"expense"`
}

type sumEnvelope struct {
	Total float64 `json:"total"`
}
