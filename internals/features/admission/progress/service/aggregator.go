package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"admisi_backend/internals/features/admission/progress/dto"
	"admisi_backend/internals/features/admission/progress/model"
	"admisi_backend/internals/salesforce"
)

// Detail menyusun payload lengkap satu progress: cek akses dulu, lalu fetch
// dokumen, file link, orang tua, dan pembayaran secara paralel, resolve versi
// dokumen, dan gabungkan.
func (s *ProgressService) Detail(ctx context.Context, callerEmail, progressID string) (*dto.ProgressDetail, error) {
	access, err := s.Authorize(ctx, callerEmail, progressID)
	if err != nil {
		return nil, err
	}
	progress := access.Progress

	// Scope "linked entity" untuk pencarian file: progress + account + seluruh
	// contact role yang sempat ditelusuri cek akses.
	scope := []string{progress.ID}
	if progress.AccountID != nil && *progress.AccountID != "" {
		scope = append(scope, *progress.AccountID)
	}
	seen := map[string]bool{progress.ID: true}
	if len(scope) > 1 {
		seen[scope[1]] = true
	}
	for _, cid := range access.RoleContactIDs {
		if cid != "" && !seen[cid] {
			seen[cid] = true
			scope = append(scope, cid)
		}
	}

	var (
		docs     []model.DocumentRow
		links    []model.FileLinkRow
		parents  []model.ParentRelRow
		payments []model.PaymentRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q := fmt.Sprintf(`SELECT Id, Name, Document_Type__c, Document_Link__c, Is_Verified__c
FROM Account_Document__c WHERE Application_Progress__c=%s ORDER BY CreatedDate DESC`,
			salesforce.QuoteString(progress.ID))
		return s.Store.Query(gctx, q, &docs)
	})
	g.Go(func() error {
		q := fmt.Sprintf(`SELECT ContentDocumentId, LinkedEntityId,
       ContentDocument.Title, ContentDocument.LatestPublishedVersionId
FROM ContentDocumentLink WHERE LinkedEntityId IN (%s)
ORDER BY SystemModstamp DESC LIMIT %d`, salesforce.InClause(scope), fileLinkPageSize)
		return s.Store.Query(gctx, q, &links)
	})
	if progress.AccountID != nil && *progress.AccountID != "" {
		accountID := *progress.AccountID
		g.Go(func() error {
			q := fmt.Sprintf(`SELECT Id, Type__c, Contact__c,
       Contact__r.Name, Contact__r.Job__c, Contact__r.Phone,
       Contact__r.Email, Contact__r.Address__c
FROM Relationship__c WHERE Related_Contact__r.AccountId = %s
ORDER BY CreatedDate ASC`, salesforce.QuoteString(accountID))
			return s.Store.Query(gctx, q, &parents)
		})
	}
	g.Go(func() error {
		q := fmt.Sprintf(`SELECT Id, Name, Amount__c, Status__c, Virtual_Account_Number__c,
       Channel_Bank_Name__c, Payment_For__c, Order_ID__c
FROM Payment__c WHERE Application_Progress__c=%s ORDER BY CreatedDate DESC`,
			salesforce.QuoteString(progress.ID))
		return s.Store.Query(gctx, q, &payments)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resolved, err := s.ResolveDocumentVersions(ctx, docs, links)
	if err != nil {
		return nil, err
	}
	photoVersionID, err := s.SelectPhotoVersion(ctx, links)
	if err != nil {
		return nil, err
	}

	out := &dto.ProgressDetail{
		Progress:       progress,
		Student:        access.Account,
		Parents:        make([]dto.ParentOut, 0, len(parents)),
		Documents:      make([]dto.DocumentOut, 0, len(docs)),
		PhotoVersionID: photoVersionID,
		Payments:       make([]dto.PaymentOut, 0, len(payments)),
	}
	for _, d := range docs {
		doc := dto.DocumentOut{
			ID:       d.ID,
			Name:     d.Name,
			Type:     d.Type,
			URL:      d.Link,
			Verified: d.Verified,
		}
		if v, ok := resolved[d.ID]; ok {
			version := v
			doc.VersionID = &version
		}
		out.Documents = append(out.Documents, doc)
	}
	for _, p := range parents {
		parent := dto.ParentOut{
			RelationshipID: p.ID,
			Type:           deref(p.Type),
			ContactID:      deref(p.ContactID),
		}
		if c := p.Contact; c != nil {
			parent.Name = deref(c.Name)
			parent.Job = deref(c.Job)
			parent.Phone = deref(c.Phone)
			parent.Email = deref(c.Email)
			parent.Address = deref(c.Address)
		}
		out.Parents = append(out.Parents, parent)
	}
	for _, p := range payments {
		out.Payments = append(out.Payments, dto.PaymentOut{
			ID:                   p.ID,
			Name:                 p.Name,
			Amount:               p.Amount,
			Status:               deref(p.Status),
			VirtualAccountNumber: deref(p.VirtualAccountNumber),
			ChannelBankName:      deref(p.ChannelBankName),
			PaymentFor:           deref(p.PaymentFor),
		})
	}
	return out, nil
}

// List mengembalikan seluruh opportunity milik pemanggil untuk dashboard.
// Person account dicari by PersonEmail dulu, fallback lewat subquery
// Contact.Email. Tidak ketemu bukan error: daftar kosong.
func (s *ProgressService) List(ctx context.Context, callerEmail string) (*dto.ProgressList, error) {
	emailQ := salesforce.QuoteString(callerEmail)

	var accs []model.AccountInfo
	q := fmt.Sprintf(`SELECT Id, Name, IsPersonAccount, PersonEmail FROM Account
WHERE IsPersonAccount = true AND PersonEmail = %s LIMIT 1`, emailQ)
	if err := s.Store.Query(ctx, q, &accs); err != nil {
		return nil, err
	}
	if len(accs) == 0 {
		q := fmt.Sprintf(`SELECT Id, Name, IsPersonAccount, PersonEmail FROM Account
WHERE IsPersonAccount = true AND Id IN (
  SELECT AccountId FROM Contact WHERE Email = %s
) LIMIT 1`, emailQ)
		if err := s.Store.Query(ctx, q, &accs); err != nil {
			return nil, err
		}
	}
	if len(accs) == 0 {
		return &dto.ProgressList{Items: []model.OpportunityItem{}}, nil
	}

	var items []model.OpportunityItem
	q = fmt.Sprintf(`SELECT Id, Name, StageName, CreatedDate, AccountId, CloseDate, Amount,
       Campus__c, Campus__r.Name,
       Study_Program__c, Study_Program__r.Name,
       Test_Schedule__c
FROM Opportunity WHERE AccountId = %s ORDER BY CreatedDate DESC`,
		salesforce.QuoteString(accs[0].ID))
	if err := s.Store.Query(ctx, q, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.OpportunityItem{}
	}
	return &dto.ProgressList{ApplicantName: accs[0].Name, Items: items}, nil
}
