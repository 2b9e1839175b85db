package dto

import (
	"admisi_backend/internals/features/admission/progress/model"
)

/* ===================== Response: GET detail ===================== */

type DocumentOut struct {
	ID       string  `json:"Id"`
	Name     string  `json:"Name"`
	Type     *string `json:"Type__c"`
	URL      *string `json:"Url__c"`
	Verified bool    `json:"Verified"`
	// VersionID hasil resolusi; nil berarti "belum diunggah" walau row ada.
	VersionID *string `json:"versionId"`
}

type ParentOut struct {
	RelationshipID string `json:"relationshipId,omitempty"`
	Type           string `json:"type"`
	ContactID      string `json:"contactId,omitempty"`
	Name           string `json:"name"`
	Job            string `json:"job"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Address        string `json:"address"`
}

type PaymentOut struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Amount               *float64 `json:"amount"`
	Status               string   `json:"status"`
	VirtualAccountNumber string   `json:"virtualAccountNumber"`
	ChannelBankName      string   `json:"channelBankName"`
	PaymentFor           string   `json:"paymentFor"`
}

type ProgressDetail struct {
	Progress       model.Progress     `json:"progress"`
	Student        *model.AccountInfo `json:"student"`
	Parents        []ParentOut        `json:"parents"`
	Documents      []DocumentOut      `json:"documents"`
	PhotoVersionID *string            `json:"photoVersionId"`
	Payments       []PaymentOut       `json:"payments"`
}

/* ===================== Response: GET list ===================== */

type ProgressList struct {
	ApplicantName string                  `json:"applicantName"`
	Items         []model.OpportunityItem `json:"items"`
}

/* ===================== PATCH segments ===================== */

const (
	SegmentStudent   = "student"
	SegmentParents   = "parents"
	SegmentDocuments = "documents"
	SegmentActivate  = "activate"
)

type PatchRequest struct {
	Segment   string          `json:"segment" validate:"required,oneof=student parents documents activate"`
	Student   *StudentPatch   `json:"student"`
	Parents   []ParentInput   `json:"parents" validate:"omitempty,dive"`
	Documents []DocumentInput `json:"documents" validate:"omitempty,dive"`
}

type StudentPatch struct {
	PersonBirthdate *string `json:"PersonBirthdate"`
	Phone           *string `json:"Phone"`
}

// Baris dengan type/name kosong adalah baris form kosong: dilewati service,
// bukan ditolak validasi.
type ParentInput struct {
	RelationshipID string `json:"relationshipId"`
	Type           string `json:"type"`
	ContactID      string `json:"contactId"`
	Name           string `json:"name"`
	Job            string `json:"job"`
	Phone          string `json:"phone"`
	Email          string `json:"email" validate:"omitempty,email"`
	Address        string `json:"address"`
}

type DocumentInput struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
	Type string `json:"Type__c"`
	URL  string `json:"Url__c"`
}

/* ===================== Activate result ===================== */

type ActivatedProgress struct {
	ID       string  `json:"Id"`
	Stage    *string `json:"StageName"`
	WebStage *string `json:"Web_Stage__c"`
	IsActive bool    `json:"Is_Active__c"`
}
