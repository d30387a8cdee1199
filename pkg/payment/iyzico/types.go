package iyzico

// Payment status values returned by the gateway
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Fixed request attributes for storefront card payments
const (
	PaymentChannelWeb   = "WEB"
	PaymentGroupProduct = "PRODUCT"
	ItemTypePhysical    = "PHYSICAL"
)

// PaymentCard carries the card details entered at checkout.
// The card number is never persisted; it only passes through to the gateway.
type PaymentCard struct {
	CardHolderName string `json:"cardHolderName"`
	CardNumber     string `json:"cardNumber"`
	ExpireMonth    string `json:"expireMonth"`
	ExpireYear     string `json:"expireYear"`
	CVC            string `json:"cvc"`
	RegisterCard   int    `json:"registerCard"`
}

// Buyer identifies the paying customer
type Buyer struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Surname             string `json:"surname"`
	GsmNumber           string `json:"gsmNumber,omitempty"`
	Email               string `json:"email"`
	IdentityNumber      string `json:"identityNumber"`
	RegistrationAddress string `json:"registrationAddress"`
	IP                  string `json:"ip"`
	City                string `json:"city"`
	Country             string `json:"country"`
	ZipCode             string `json:"zipCode,omitempty"`
}

// Address is used for both shipping and billing
type Address struct {
	ContactName string `json:"contactName"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Description string `json:"address"`
	ZipCode     string `json:"zipCode,omitempty"`
}

// BasketItem is a single purchasable line in the payment request
type BasketItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category1 string `json:"category1"`
	ItemType  string `json:"itemType"`
	Price     string `json:"price"`
}

// PaymentRequest represents a card charge request.
// Price and PaidPrice are decimal strings with two fraction digits.
type PaymentRequest struct {
	Locale          string       `json:"locale"`
	ConversationID  string       `json:"conversationId"`
	Price           string       `json:"price"`
	PaidPrice       string       `json:"paidPrice"`
	Currency        string       `json:"currency"`
	Installment     int          `json:"installment"`
	BasketID        string       `json:"basketId"`
	PaymentChannel  string       `json:"paymentChannel"`
	PaymentGroup    string       `json:"paymentGroup"`
	PaymentCard     PaymentCard  `json:"paymentCard"`
	Buyer           Buyer        `json:"buyer"`
	ShippingAddress Address      `json:"shippingAddress"`
	BillingAddress  Address      `json:"billingAddress"`
	BasketItems     []BasketItem `json:"basketItems"`
}

// PaymentResult represents the gateway's answer to a charge request.
// Status is "success" or "failure"; a failure carries the gateway's
// error code and message but is not a transport error.
type PaymentResult struct {
	Status         string `json:"status"`
	PaymentID      string `json:"paymentId"`
	ConversationID string `json:"conversationId"`
	Price          string `json:"price,omitempty"`
	PaidPrice      string `json:"paidPrice,omitempty"`
	Currency       string `json:"currency,omitempty"`
	ErrorCode      string `json:"errorCode,omitempty"`
	ErrorMessage   string `json:"errorMessage,omitempty"`
}

// Succeeded reports whether the charge was accepted
func (r *PaymentResult) Succeeded() bool {
	return r.Status == StatusSuccess
}
