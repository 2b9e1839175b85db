package service

import (
	"context"
	"fmt"
	"strings"

	"admisi_backend/internals/features/admission/progress/model"
	"admisi_backend/internals/salesforce"
)

// AccessResult adalah hasil cek akses: progress + account (bila ada) dan
// seluruh contact id dari traversal OpportunityContactRole (dipakai untuk
// memperluas scope pencarian file, terlepas dari strategi mana yang lolos).
type AccessResult struct {
	Progress       model.Progress
	Account        *model.AccountInfo
	RoleContactIDs []string
}

// Authorize menentukan apakah callerEmail boleh membaca/menulis progress ini.
// CRM memodelkan "kepemilikan" di tiga tempat berbeda, jadi dicek berurutan
// dan berhenti di strategi pertama yang lolos:
//  1. PersonEmail pada person account
//  2. Email contact dari PersonContactId
//  3. Email contact role primary-atau-pertama pada opportunity
func (s *ProgressService) Authorize(ctx context.Context, callerEmail, progressID string) (*AccessResult, error) {
	callerEmail = strings.ToLower(strings.TrimSpace(callerEmail))

	// 1) Opportunity
	var opps []model.Progress
	q := fmt.Sprintf(`SELECT Id, Name, StageName, AccountId FROM Opportunity WHERE Id=%s LIMIT 1`,
		salesforce.QuoteString(progressID))
	if err := s.Store.Query(ctx, q, &opps); err != nil {
		return nil, err
	}
	if len(opps) == 0 {
		return nil, ErrNotFound
	}
	res := &AccessResult{Progress: opps[0]}

	// 2) Validasi akses via Account
	allowed := false
	if res.Progress.AccountID != nil && *res.Progress.AccountID != "" {
		var accs []model.AccountInfo
		q := fmt.Sprintf(`SELECT Id, Name, PersonEmail, PersonBirthdate, IsPersonAccount, PersonContactId,
       Phone, Master_School__c, Master_School__r.Name
FROM Account WHERE Id=%s LIMIT 1`, salesforce.QuoteString(*res.Progress.AccountID))
		if err := s.Store.Query(ctx, q, &accs); err != nil {
			return nil, err
		}
		if len(accs) > 0 {
			acc := accs[0]
			res.Account = &acc

			if acc.IsPersonAccount {
				personEmail := strings.ToLower(deref(acc.PersonEmail))
				if personEmail != "" && personEmail == callerEmail {
					allowed = true
				} else if acc.PersonContactID != nil && *acc.PersonContactID != "" {
					email, err := s.contactEmail(ctx, *acc.PersonContactID)
					if err != nil {
						return nil, err
					}
					if email != "" && email == callerEmail {
						allowed = true
					}
				}
			}
		}
	}

	// 3) Fallback: OpportunityContactRole, primary dulu lalu yang paling awal.
	// Hanya contact primary-atau-pertama yang dicek emailnya; contact role
	// lain ikut terkumpul untuk scope pencarian file.
	if !allowed {
		var roles []model.RoleRow
		q := fmt.Sprintf(`SELECT Id, IsPrimary, ContactId FROM OpportunityContactRole
WHERE OpportunityId=%s ORDER BY IsPrimary DESC, CreatedDate ASC`,
			salesforce.QuoteString(res.Progress.ID))
		if err := s.Store.Query(ctx, q, &roles); err != nil {
			return nil, err
		}
		for _, r := range roles {
			if r.ContactID != "" {
				res.RoleContactIDs = append(res.RoleContactIDs, r.ContactID)
			}
		}

		var primaryOrFirst *model.RoleRow
		for i := range roles {
			if roles[i].IsPrimary {
				primaryOrFirst = &roles[i]
				break
			}
		}
		if primaryOrFirst == nil && len(roles) > 0 {
			primaryOrFirst = &roles[0]
		}
		if primaryOrFirst != nil && primaryOrFirst.ContactID != "" {
			email, err := s.contactEmail(ctx, primaryOrFirst.ContactID)
			if err != nil {
				return nil, err
			}
			if email != "" && email == callerEmail {
				allowed = true
			}
		}
	}

	if !allowed {
		return nil, ErrForbidden
	}
	return res, nil
}

func (s *ProgressService) contactEmail(ctx context.Context, contactID string) (string, error) {
	var contacts []model.ContactRow
	q := fmt.Sprintf(`SELECT Id, Email FROM Contact WHERE Id=%s LIMIT 1`,
		salesforce.QuoteString(contactID))
	if err := s.Store.Query(ctx, q, &contacts); err != nil {
		return "", err
	}
	if len(contacts) == 0 {
		return "", nil
	}
	return strings.ToLower(deref(contacts[0].Email)), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
