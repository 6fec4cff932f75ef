package services

import (
	"context"
	"fmt"
	"strings"

	"tripbazaar/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentData is the card detail set a booking request may carry. It is
// never persisted; only masked forms reach the logs.
type PaymentData struct {
	CardNumber     string `json:"cardNumber"`
	ExpiryMonth    string `json:"expiryMonth"`
	ExpiryYear     string `json:"expiryYear"`
	CVC            string `json:"cvc"`
	CardholderName string `json:"cardholderName"`
	Amount         int    `json:"amount"`
}

// PaymentService is a stand-in gateway: it validates card data the way a
// real processor would and fabricates transaction ids. Swapping in a real
// provider only touches this type.
type PaymentService struct {
	log *zap.Logger
}

func NewPaymentService(log *zap.Logger) *PaymentService {
	return &PaymentService{log: log}
}

// Validate returns the list of problems with the card data; empty means ok.
func (p *PaymentService) Validate(data PaymentData) []string {
	var errs []string

	if data.CardNumber == "" {
		errs = append(errs, "card number is required")
	} else if !luhnValid(data.CardNumber) {
		errs = append(errs, "invalid card number format")
	}

	if data.ExpiryMonth == "" || data.ExpiryYear == "" {
		errs = append(errs, "card expiration date is required")
	}

	if data.CVC == "" {
		errs = append(errs, "card CVC is required")
	} else if len(data.CVC) < 3 || len(data.CVC) > 4 || !allDigits(data.CVC) {
		errs = append(errs, "invalid CVC format")
	}

	if data.Amount <= 0 {
		errs = append(errs, "amount must be positive")
	}

	return errs
}

// Process validates and "captures" a payment, returning the transaction id.
func (p *PaymentService) Process(ctx context.Context, data PaymentData, userID string) (string, error) {
	p.log.Info("payment processing initiated",
		zap.String("user_id", userID),
		zap.String("card", MaskCard(data.CardNumber)),
		zap.Int("amount", data.Amount))

	if errs := p.Validate(data); len(errs) > 0 {
		metrics.PaymentsFailed.Inc()
		return "", fmt.Errorf("invalid payment data: %s", strings.Join(errs, ", "))
	}

	txnID := "txn_" + uuid.New().String()
	p.log.Info("payment processed",
		zap.String("user_id", userID),
		zap.String("transaction_id", txnID),
		zap.Int("amount", data.Amount))
	metrics.PaymentsProcessed.Inc()
	return txnID, nil
}

// Refund reverses a transaction and returns the refund id.
func (p *PaymentService) Refund(ctx context.Context, transactionID, userID string) (string, error) {
	refundID := "ref_" + uuid.New().String()
	p.log.Info("payment refunded",
		zap.String("user_id", userID),
		zap.String("transaction_id", transactionID),
		zap.String("refund_id", refundID))
	return refundID, nil
}

// MaskCard keeps only the last four digits.
func MaskCard(cardNumber string) string {
	cleaned := cleanCardNumber(cardNumber)
	if len(cleaned) < 4 {
		return "****"
	}
	return "****-****-****-" + cleaned[len(cleaned)-4:]
}

func cleanCardNumber(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, s)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// luhnValid runs the standard Luhn checksum over the card number.
func luhnValid(cardNumber string) bool {
	cleaned := cleanCardNumber(cardNumber)
	if !allDigits(cleaned) || len(cleaned) < 13 || len(cleaned) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(cleaned) - 1; i >= 0; i-- {
		digit := int(cleaned[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}
