package service

import (
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
)

var CoreClient coreapi.Client

// Panggil saat bootstrap app (sandbox)
func InitMidtrans(serverKey string) {
	CoreClient.New(serverKey, midtrans.Sandbox)
}
