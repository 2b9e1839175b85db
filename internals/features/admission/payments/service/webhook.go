// HandlePaymentNotification dipanggil saat menerima notifikasi dari Midtrans
package service

import (
	"context"
	"fmt"
	"log"

	"admisi_backend/internals/features/admission/progress/model"
	"admisi_backend/internals/salesforce"
)

type PaymentService struct {
	Store salesforce.Store
}

func NewPaymentService(store salesforce.Store) *PaymentService {
	return &PaymentService{Store: store}
}

// HandlePaymentNotification memproses notifikasi status transaksi. Status
// tidak diambil dari payload webhook: dicek ulang ke Midtrans (payload bisa
// dipalsukan), baru status Payment__c di CRM di-update.
func (s *PaymentService) HandlePaymentNotification(ctx context.Context, orderID string) error {
	res, midErr := CoreClient.CheckTransaction(orderID)
	if midErr != nil {
		log.Println("[ERROR] CheckTransaction gagal:", midErr)
		return midErr
	}

	log.Println("📄 Order ID:", orderID)
	log.Println("📌 Transaction Status:", res.TransactionStatus)

	var newStatus string
	switch res.TransactionStatus {
	case "capture", "settlement":
		newStatus = "Paid"
	case "expire":
		newStatus = "Expired"
	case "cancel", "deny":
		newStatus = "Canceled"
	default:
		log.Println("[INFO] Status tidak diproses:", res.TransactionStatus)
		return nil
	}

	// Cari Payment__c berdasarkan order id
	var rows []model.PaymentRow
	q := fmt.Sprintf(`SELECT Id, Name, Status__c, Order_ID__c FROM Payment__c
WHERE Order_ID__c=%s LIMIT 1`, salesforce.QuoteString(orderID))
	if err := s.Store.Query(ctx, q, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		// Ack saja: Midtrans retry notifikasi yang dianggap gagal
		log.Println("[WARNING] Payment__c tidak ditemukan untuk order:", orderID)
		return nil
	}

	return s.Store.Update(ctx, "Payment__c", rows[0].ID, map[string]any{"Status__c": newStatus})
}
