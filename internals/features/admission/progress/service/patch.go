package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"admisi_backend/internals/features/admission/progress/dto"
	"admisi_backend/internals/features/admission/progress/model"
	"admisi_backend/internals/salesforce"
)

// Tahap pipeline yang sudah mati: activate tidak boleh menghidupkan lagi.
var terminalStages = map[string]bool{
	"Closed Lost": true,
	"Rejected":    true,
}

// Tipe relasi yang maksimal satu per progress.
var singletonParentTypes = map[string]bool{
	"Father": true,
	"Mother": true,
}

// Patch menulis tepat satu slice dari progress; slice lain tidak disentuh.
// Hanya segmen activate yang mengembalikan record.
func (s *ProgressService) Patch(ctx context.Context, progressID string, req *dto.PatchRequest) (*dto.ActivatedProgress, error) {
	switch req.Segment {
	case dto.SegmentStudent:
		if req.Student == nil {
			return nil, fmt.Errorf("%w: student", ErrInvalidPayload)
		}
		return nil, s.patchStudent(ctx, progressID, req.Student)
	case dto.SegmentParents:
		if req.Parents == nil {
			return nil, fmt.Errorf("%w: parents", ErrInvalidPayload)
		}
		return nil, s.patchParents(ctx, progressID, req.Parents)
	case dto.SegmentDocuments:
		if req.Documents == nil {
			return nil, fmt.Errorf("%w: documents", ErrInvalidPayload)
		}
		return nil, s.patchDocuments(ctx, progressID, req.Documents)
	case dto.SegmentActivate:
		return s.activate(ctx, progressID)
	default:
		return nil, fmt.Errorf("%w: unsupported segment", ErrInvalidPayload)
	}
}

/* ===================== activate ===================== */

func (s *ProgressService) activate(ctx context.Context, progressID string) (*dto.ActivatedProgress, error) {
	var opp model.Opportunity
	if err := s.Store.Retrieve(ctx, "Opportunity", progressID, &opp); err != nil {
		if errors.Is(err, salesforce.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Guard business rule: pipeline yang sudah closed/rejected tidak
	// dihidupkan lagi, kembalikan apa adanya.
	terminal := terminalStages[deref(opp.StageName)] || terminalStages[deref(opp.WebStage)]
	if !terminal && !opp.IsActive {
		if err := s.Store.Update(ctx, "Opportunity", progressID, map[string]any{"Is_Active__c": true}); err != nil {
			return nil, err
		}
	}

	var fresh model.Opportunity
	if err := s.Store.Retrieve(ctx, "Opportunity", progressID, &fresh); err != nil {
		return nil, err
	}
	return &dto.ActivatedProgress{
		ID:       fresh.ID,
		Stage:    fresh.StageName,
		WebStage: fresh.WebStage,
		IsActive: fresh.IsActive,
	}, nil
}

/* ===================== student ===================== */

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dmyDatePattern = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
)

// normalizeBirthdate menerima yyyy-mm-dd apa adanya dan mengubah dd/mm/yyyy
// menjadi yyyy-mm-dd; bentuk lain diteruskan apa adanya (CRM yang memvalidasi).
func normalizeBirthdate(input string) string {
	s := strings.TrimSpace(input)
	if s == "" || isoDatePattern.MatchString(s) {
		return s
	}
	if m := dmyDatePattern.FindStringSubmatch(s); m != nil {
		return m[3] + "-" + pad2(m[2]) + "-" + pad2(m[1])
	}
	return s
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func (s *ProgressService) patchStudent(ctx context.Context, progressID string, patch *dto.StudentPatch) error {
	accountID, err := s.opportunityAccountID(ctx, progressID)
	if err != nil {
		return err
	}

	fields := map[string]any{}
	if patch.PersonBirthdate != nil {
		if birth := normalizeBirthdate(*patch.PersonBirthdate); birth != "" {
			fields["PersonBirthdate"] = birth
		}
	}
	if patch.Phone != nil {
		fields["Phone"] = strings.TrimSpace(*patch.Phone)
	}
	if len(fields) == 0 {
		return nil
	}
	return s.Store.Update(ctx, "Account", accountID, fields)
}

/* ===================== parents ===================== */

func (s *ProgressService) patchParents(ctx context.Context, progressID string, parents []dto.ParentInput) error {
	// Tolak tipe singleton ganda sebelum ada tulisan apapun.
	typeCount := map[string]int{}
	for _, p := range parents {
		t := strings.TrimSpace(p.Type)
		if singletonParentTypes[t] {
			typeCount[t]++
			if typeCount[t] > 1 {
				return fmt.Errorf("%w: tipe %s ganda", ErrInvalidPayload, t)
			}
		}
	}

	accountID, err := s.opportunityAccountID(ctx, progressID)
	if err != nil {
		return err
	}

	var acc model.AccountInfo
	if err := s.Store.Retrieve(ctx, "Account", accountID, &acc); err != nil {
		return err
	}
	studentContactID := deref(acc.PersonContactID)

	for _, p := range parents {
		ptype := strings.TrimSpace(p.Type)
		name := strings.TrimSpace(p.Name)
		if ptype == "" || name == "" {
			continue // baris kosong dari form
		}

		contactID, err := s.upsertParentContact(ctx, p, name)
		if err != nil {
			return err
		}

		relFields := map[string]any{
			"Type__c":    ptype,
			"Contact__c": contactID,
		}
		if studentContactID != "" {
			relFields["Related_Contact__c"] = studentContactID
		}

		if p.RelationshipID != "" {
			if err := s.Store.Update(ctx, "Relationship__c", p.RelationshipID, relFields); err != nil {
				return err
			}
		} else {
			res, err := s.Store.Insert(ctx, "Relationship__c", relFields)
			if err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("relationship insert gagal: %s", firstSaveError(res))
			}
		}
	}
	return nil
}

// upsertParentContact: contactId eksplisit → update; tanpa itu coba cari by
// email/phone; terakhir insert baru.
func (s *ProgressService) upsertParentContact(ctx context.Context, p dto.ParentInput, name string) (string, error) {
	fields := map[string]any{
		"LastName":   name,
		"Job__c":     nullableString(p.Job),
		"Phone":      nullableString(p.Phone),
		"Email":      nullableString(p.Email),
		"Address__c": nullableString(p.Address),
	}

	contactID := strings.TrimSpace(p.ContactID)
	if contactID == "" {
		contactID = s.lookupContactID(ctx, strings.TrimSpace(p.Email), strings.TrimSpace(p.Phone))
	}

	if contactID != "" {
		if err := s.Store.Update(ctx, "Contact", contactID, fields); err != nil {
			return "", err
		}
		return contactID, nil
	}

	res, err := s.Store.Insert(ctx, "Contact", fields)
	if err != nil {
		return "", err
	}
	if !res.Success {
		return "", fmt.Errorf("contact insert gagal: %s", firstSaveError(res))
	}
	return res.ID, nil
}

// lookupContactID mencari contact existing by email/phone. Gagal query tidak
// fatal: fallback-nya insert contact baru.
func (s *ProgressService) lookupContactID(ctx context.Context, email, phone string) string {
	var conds []string
	if email != "" {
		conds = append(conds, "Email = "+salesforce.QuoteString(email))
	}
	if phone != "" {
		conds = append(conds, "Phone = "+salesforce.QuoteString(phone))
	}
	if len(conds) == 0 {
		return ""
	}
	var rows []model.ContactRow
	q := fmt.Sprintf(`SELECT Id, Email FROM Contact WHERE %s LIMIT 1`, strings.Join(conds, " OR "))
	if err := s.Store.Query(ctx, q, &rows); err != nil || len(rows) == 0 {
		return ""
	}
	return rows[0].ID
}

/* ===================== documents ===================== */

// patchDocuments: row existing dicocokkan by Id eksplisit, kalau tidak ada by
// (progress, tipe). Semua update digabung satu call, semua insert satu call —
// dua round trip total, bukan N.
func (s *ProgressService) patchDocuments(ctx context.Context, progressID string, docs []dto.DocumentInput) error {
	var types []string
	seenType := map[string]bool{}
	for _, d := range docs {
		t := strings.TrimSpace(d.Type)
		if t != "" && !seenType[t] {
			seenType[t] = true
			types = append(types, t)
		}
	}

	existingByType := map[string]string{}
	if len(types) > 0 {
		var rows []model.DocumentRow
		q := fmt.Sprintf(`SELECT Id, Document_Type__c FROM Account_Document__c
WHERE Application_Progress__c=%s AND Document_Type__c IN (%s)`,
			salesforce.QuoteString(progressID), salesforce.InClause(types))
		if err := s.Store.Query(ctx, q, &rows); err != nil {
			return err
		}
		for _, r := range rows {
			if t := deref(r.Type); t != "" {
				existingByType[t] = r.ID
			}
		}
	}

	var toInsert, toUpdate []map[string]any
	for _, d := range docs {
		dtype := strings.TrimSpace(d.Type)
		if dtype == "" {
			continue
		}
		name := strings.TrimSpace(d.Name)
		if name == "" {
			name = dtype
		}
		base := map[string]any{
			"Name":                    name,
			"Application_Progress__c": progressID,
			"Document_Type__c":        dtype,
			"Document_Link__c":        strings.TrimSpace(d.URL),
		}

		existingID := strings.TrimSpace(d.ID)
		if existingID == "" {
			existingID = existingByType[dtype]
		}
		if existingID != "" {
			base["Id"] = existingID
			toUpdate = append(toUpdate, base)
		} else {
			toInsert = append(toInsert, base)
		}
	}

	if len(toUpdate) > 0 {
		results, err := s.Store.UpdateCollection(ctx, "Account_Document__c", toUpdate)
		if err != nil {
			return err
		}
		if err := collectionErrors(results); err != nil {
			return err
		}
	}
	if len(toInsert) > 0 {
		results, err := s.Store.InsertCollection(ctx, "Account_Document__c", toInsert)
		if err != nil {
			return err
		}
		if err := collectionErrors(results); err != nil {
			return err
		}
	}
	return nil
}

/* ===================== helpers ===================== */

func (s *ProgressService) opportunityAccountID(ctx context.Context, progressID string) (string, error) {
	var opp model.Opportunity
	if err := s.Store.Retrieve(ctx, "Opportunity", progressID, &opp); err != nil {
		if errors.Is(err, salesforce.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if opp.AccountID == nil || *opp.AccountID == "" {
		return "", ErrNoAccount
	}
	return *opp.AccountID, nil
}

func nullableString(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

func firstSaveError(res salesforce.SaveResult) string {
	if len(res.Errors) > 0 {
		return res.Errors[0].Message
	}
	return "unknown"
}

func collectionErrors(results []salesforce.SaveResult) error {
	for _, r := range results {
		if !r.Success {
			return fmt.Errorf("salesforce save gagal: %s", firstSaveError(r))
		}
	}
	return nil
}
