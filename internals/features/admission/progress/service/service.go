package service

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"admisi_backend/internals/salesforce"
)

/* ===================== Error taxonomy ===================== */

var (
	// ErrNotFound: progress id tidak ada di CRM.
	ErrNotFound = errors.New("not_found")
	// ErrForbidden: ketiga strategi cek akses gagal.
	ErrForbidden = errors.New("forbidden")
	// ErrNoAccount: opportunity tanpa AccountId, segmen student/parents tak
	// bisa diproses.
	ErrNoAccount = errors.New("no_account_on_opportunity")
	// ErrInvalidPayload: bentuk payload segmen tidak sesuai.
	ErrInvalidPayload = errors.New("invalid_payload")
)

/* ===================== Service ===================== */

// Batas file-link yang discan per request (bound biaya query).
const fileLinkPageSize = 50

type ProgressService struct {
	Store    salesforce.Store
	Validate *validator.Validate
}

func NewProgressService(store salesforce.Store) *ProgressService {
	return &ProgressService{
		Store:    store,
		Validate: validator.New(),
	}
}
