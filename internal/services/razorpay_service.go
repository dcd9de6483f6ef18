package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math"

	"agrobook-backend/internal/ledger"
	"agrobook-backend/internal/models"
	"agrobook-backend/internal/repositories"

	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
)

var ErrSignatureMismatch = errors.New("razorpay signature verification failed")

// RazorpayService lets a person settle an entry's balance online. A verified
// checkout feeds the amount back through the payment service, so an online
// payment moves balances exactly like a cash one.
type RazorpayService struct {
	Client         *razorpay.Client
	KeyID          string
	keySecret      string
	webhookSecret  string
	FeePercent     float64
	OnlineTxRepo   *repositories.OnlineTransactionRepository
	EntryRepo      *repositories.EntryRepository
	PaymentService *PaymentService
}

func NewRazorpayService(
	keyID, keySecret, webhookSecret string,
	feePercent float64,
	onlineTxRepo *repositories.OnlineTransactionRepository,
	entryRepo *repositories.EntryRepository,
	paymentService *PaymentService,
) *RazorpayService {
	return &RazorpayService{
		Client:         razorpay.NewClient(keyID, keySecret),
		KeyID:          keyID,
		keySecret:      keySecret,
		webhookSecret:  webhookSecret,
		FeePercent:     feePercent,
		OnlineTxRepo:   onlineTxRepo,
		EntryRepo:      entryRepo,
		PaymentService: paymentService,
	}
}

func (s *RazorpayService) Enabled() bool {
	return s.KeyID != "" && s.keySecret != ""
}

// CreateOrder validates the amount against the entry's remaining balance,
// creates a Razorpay order for amount plus convenience fee and records the
// pending transaction.
func (s *RazorpayService) CreateOrder(ctx context.Context, userID int, req *models.CreateOnlinePaymentRequest) (*models.CreateOrderResponse, error) {
	entry, err := s.EntryRepo.Get(ctx, req.EntryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, &ledger.ValidationError{Field: "entry_id", Reason: "does not exist"}
	}
	if req.Amount <= 0 {
		return nil, &ledger.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if req.Amount > entry.RemainingAmount {
		return nil, &ledger.InsufficientRemainingError{Requested: req.Amount, Remaining: entry.RemainingAmount}
	}

	feeAmount := int64(math.Round(float64(req.Amount) * s.FeePercent / 100))
	totalAmount := req.Amount + feeAmount

	// Razorpay deals in paise
	orderData := map[string]interface{}{
		"amount":   totalAmount * 100,
		"currency": "INR",
		"receipt":  fmt.Sprintf("entry-%d", entry.ID),
		"notes": map[string]interface{}{
			"entry_id":  entry.ID,
			"person_id": entry.PersonID,
		},
	}
	order, err := s.Client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}
	orderID, ok := order["id"].(string)
	if !ok {
		return nil, errors.New("razorpay order response missing id")
	}

	onlineTx := &models.OnlineTransaction{
		RazorpayOrderID: orderID,
		EntryID:         entry.ID,
		PersonID:        entry.PersonID,
		Amount:          req.Amount,
		FeeAmount:       feeAmount,
		TotalAmount:     totalAmount,
	}
	if err := s.OnlineTxRepo.Create(ctx, onlineTx); err != nil {
		return nil, err
	}

	log.Printf("[Razorpay] Created order %s for entry %d (amount %d + fee %d)",
		orderID, entry.ID, req.Amount, feeAmount)

	return &models.CreateOrderResponse{
		OrderID:     orderID,
		Amount:      req.Amount * 100,
		FeeAmount:   feeAmount * 100,
		TotalAmount: totalAmount * 100,
		Currency:    "INR",
		KeyID:       s.KeyID,
	}, nil
}

// VerifyPayment checks the checkout callback signature and, when valid,
// applies the order amount to the entry as a regular payment. Replays of an
// already-settled order return the recorded transaction without applying
// the amount again.
func (s *RazorpayService) VerifyPayment(ctx context.Context, userID int, req *models.VerifyPaymentRequest) (*models.OnlineTransaction, error) {
	onlineTx, err := s.OnlineTxRepo.GetByOrderID(ctx, req.RazorpayOrderID)
	if err != nil {
		return nil, err
	}
	if onlineTx.Status == models.OnlineTxStatusSuccess {
		return onlineTx, nil
	}

	if !s.verifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		if err := s.OnlineTxRepo.MarkFailed(ctx, req.RazorpayOrderID, "signature mismatch"); err != nil {
			log.Printf("[Razorpay] Failed to mark order %s failed: %v", req.RazorpayOrderID, err)
		}
		return nil, ErrSignatureMismatch
	}

	paymentReq := &models.CreatePaymentRequest{
		EntryID: onlineTx.EntryID,
		Amount:  onlineTx.Amount,
		Notes:   fmt.Sprintf("Online payment via Razorpay (order %s)", onlineTx.RazorpayOrderID),
	}
	if _, err := s.PaymentService.Create(ctx, userID, paymentReq, orderIdempotencyKey(onlineTx.RazorpayOrderID)); err != nil {
		if markErr := s.OnlineTxRepo.MarkFailed(ctx, req.RazorpayOrderID, err.Error()); markErr != nil {
			log.Printf("[Razorpay] Failed to mark order %s failed: %v", req.RazorpayOrderID, markErr)
		}
		return nil, err
	}

	if err := s.OnlineTxRepo.MarkSuccess(ctx, req.RazorpayOrderID, req.RazorpayPaymentID); err != nil {
		return nil, err
	}
	log.Printf("[Razorpay] Verified order %s, applied %d to entry %d",
		onlineTx.RazorpayOrderID, onlineTx.Amount, onlineTx.EntryID)

	return s.OnlineTxRepo.GetByOrderID(ctx, req.RazorpayOrderID)
}

// orderIdempotencyKey derives a stable UUID from the order ID, so the
// checkout callback and the webhook cannot both apply the same order.
func orderIdempotencyKey(orderID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("razorpay:"+orderID)).String()
}

// verifySignature checks the HMAC-SHA256 of "orderID|paymentID" keyed with
// the API secret, per Razorpay's checkout verification scheme.
func (s *RazorpayService) verifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks the HMAC-SHA256 of the raw webhook body
// against the X-Razorpay-Signature header.
func (s *RazorpayService) VerifyWebhookSignature(body []byte, signature string) bool {
	if s.webhookSecret == "" {
		// Webhooks not configured; the checkout callback path still verifies.
		return true
	}
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ProcessWebhook settles orders server-to-server, covering clients that die
// before delivering the checkout callback. Success events apply the amount
// through the regular payment path; replays are no-ops.
func (s *RazorpayService) ProcessWebhook(ctx context.Context, event string, payload map[string]interface{}) error {
	entity, _ := payload["payment"].(map[string]interface{})
	inner, _ := entity["entity"].(map[string]interface{})
	orderID, _ := inner["order_id"].(string)
	paymentID, _ := inner["id"].(string)
	if orderID == "" {
		return errors.New("webhook payload missing order_id")
	}

	onlineTx, err := s.OnlineTxRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}

	switch event {
	case "payment.captured":
		if onlineTx.Status == models.OnlineTxStatusSuccess {
			return nil
		}
		entry, err := s.EntryRepo.Get(ctx, onlineTx.EntryID)
		if err != nil {
			return err
		}
		paymentReq := &models.CreatePaymentRequest{
			EntryID: onlineTx.EntryID,
			Amount:  onlineTx.Amount,
			Notes:   fmt.Sprintf("Online payment via Razorpay (order %s)", orderID),
		}
		if _, err := s.PaymentService.Create(ctx, entry.UserID, paymentReq, orderIdempotencyKey(orderID)); err != nil {
			return err
		}
		return s.OnlineTxRepo.MarkSuccess(ctx, orderID, paymentID)
	case "payment.failed":
		reason, _ := inner["error_description"].(string)
		if reason == "" {
			reason = "payment failed"
		}
		return s.OnlineTxRepo.MarkFailed(ctx, orderID, reason)
	default:
		log.Printf("[Razorpay] Unhandled webhook event: %s", event)
		return nil
	}
}

func (s *RazorpayService) ListByEntry(ctx context.Context, userID, entryID int) ([]*models.OnlineTransaction, error) {
	entry, err := s.EntryRepo.Get(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, &ledger.ValidationError{Field: "entry_id", Reason: "does not exist"}
	}
	return s.OnlineTxRepo.ListByEntry(ctx, entryID)
}
