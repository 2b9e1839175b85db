package model

/* ===================== Opportunity / Progress ===================== */

type Progress struct {
	ID        string  `json:"Id"`
	Name      string  `json:"Name"`
	StageName string  `json:"StageName"`
	AccountID *string `json:"AccountId"`
}

// Opportunity untuk segmen activate (retrieve penuh).
type Opportunity struct {
	ID        string  `json:"Id"`
	StageName *string `json:"StageName"`
	WebStage  *string `json:"Web_Stage__c"`
	IsActive  bool    `json:"Is_Active__c"`
	AccountID *string `json:"AccountId"`
}

// OpportunityItem untuk list dashboard (plus lookup campus & prodi).
type OpportunityItem struct {
	ID            string      `json:"Id"`
	Name          string      `json:"Name"`
	StageName     string      `json:"StageName"`
	CreatedDate   string      `json:"CreatedDate"`
	AccountID     *string     `json:"AccountId"`
	CloseDate     *string     `json:"CloseDate"`
	Amount        *float64    `json:"Amount"`
	CampusID      *string     `json:"Campus__c"`
	Campus        *LookupName `json:"Campus__r"`
	StudyProgram  *string     `json:"Study_Program__c"`
	StudyProgramR *LookupName `json:"Study_Program__r"`
	TestSchedule  *string     `json:"Test_Schedule__c"`
}

type LookupName struct {
	Name *string `json:"Name"`
}

/* ===================== Account (siswa) ===================== */

type AccountInfo struct {
	ID              string      `json:"Id"`
	Name            string      `json:"Name"`
	PersonEmail     *string     `json:"PersonEmail"`
	PersonBirthdate *string     `json:"PersonBirthdate"`
	IsPersonAccount bool        `json:"IsPersonAccount"`
	PersonContactID *string     `json:"PersonContactId"`
	Phone           *string     `json:"Phone"`
	SchoolID        *string     `json:"Master_School__c"`
	School          *LookupName `json:"Master_School__r"`
}

type ContactRow struct {
	ID    string  `json:"Id"`
	Email *string `json:"Email"`
}

// OpportunityContactRole join row (fallback akses).
type RoleRow struct {
	ID        string `json:"Id"`
	IsPrimary bool   `json:"IsPrimary"`
	ContactID string `json:"ContactId"`
}

/* ===================== Dokumen & files ===================== */

// DocumentRow adalah slot dokumen logis (Account_Document__c): satu row per
// (progress, tipe dokumen), dibuat lazy saat upload pertama.
type DocumentRow struct {
	ID       string  `json:"Id"`
	Name     string  `json:"Name"`
	Type     *string `json:"Document_Type__c"`
	Link     *string `json:"Document_Link__c"`
	Verified bool    `json:"Is_Verified__c"`
}

// FileLinkRow adalah join ContentDocumentLink + judul & versi terakhir
// content document-nya.
type FileLinkRow struct {
	ContentDocumentID string          `json:"ContentDocumentId"`
	LinkedEntityID    string          `json:"LinkedEntityId"`
	ContentDocument   ContentDocument `json:"ContentDocument"`
}

type ContentDocument struct {
	Title                    string `json:"Title"`
	LatestPublishedVersionID string `json:"LatestPublishedVersionId"`
}

type VersionRow struct {
	ID                string `json:"Id"`
	ContentDocumentID string `json:"ContentDocumentId"`
	IsLatest          bool   `json:"IsLatest"`
}

/* ===================== Orang tua / wali ===================== */

type ParentRelRow struct {
	ID        string         `json:"Id"`
	Type      *string        `json:"Type__c"`
	ContactID *string        `json:"Contact__c"`
	Contact   *ParentContact `json:"Contact__r"`
}

type ParentContact struct {
	Name    *string `json:"Name"`
	Job     *string `json:"Job__c"`
	Phone   *string `json:"Phone"`
	Email   *string `json:"Email"`
	Address *string `json:"Address__c"`
}

/* ===================== Pembayaran ===================== */

type PaymentRow struct {
	ID                   string   `json:"Id"`
	Name                 string   `json:"Name"`
	Amount               *float64 `json:"Amount__c"`
	Status               *string  `json:"Status__c"`
	VirtualAccountNumber *string  `json:"Virtual_Account_Number__c"`
	ChannelBankName      *string  `json:"Channel_Bank_Name__c"`
	PaymentFor           *string  `json:"Payment_For__c"`
	OrderID              *string  `json:"Order_ID__c"`
}
