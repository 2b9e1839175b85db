package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"admisi_backend/internals/features/admission/progress/model"
)

func TestAuthorizeNotFound(t *testing.T) {
	fake := &fakeStore{}
	svc := NewProgressService(fake)

	_, err := svc.Authorize(context.Background(), "a@x.com", "006Missing000001")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAuthorizePersonEmailCaseInsensitive(t *testing.T) {
	fake := &fakeStore{}
	fake.queryFn = func(soql string, dest any) error {
		switch {
		case strings.Contains(soql, "FROM Opportunity"):
			acc := "001AAAA000000001"
			*(dest.(*[]model.Progress)) = []model.Progress{
				{ID: "006AAAA000000001", Name: "PMB-0001", StageName: "Registration", AccountID: &acc},
			}
		case strings.Contains(soql, "FROM Account"):
			*(dest.(*[]model.AccountInfo)) = []model.AccountInfo{
				{ID: "001AAAA000000001", Name: "Budi", IsPersonAccount: true, PersonEmail: strptr("a@x.com")},
			}
		default:
			t.Fatalf("unexpected query: %s", soql)
		}
		return nil
	}
	svc := NewProgressService(fake)

	res, err := svc.Authorize(context.Background(), "A@X.COM", "006AAAA000000001")
	if err != nil {
		t.Fatalf("expected access, got %v", err)
	}
	if res.Account == nil || res.Account.Name != "Budi" {
		t.Fatalf("account missing from result")
	}
}

func TestAuthorizePersonContactFallback(t *testing.T) {
	fake := &fakeStore{}
	fake.queryFn = func(soql string, dest any) error {
		switch {
		case strings.Contains(soql, "FROM Opportunity"):
			acc := "001AAAA000000001"
			*(dest.(*[]model.Progress)) = []model.Progress{{ID: "006AAAA000000001", AccountID: &acc}}
		case strings.Contains(soql, "FROM Account"):
			*(dest.(*[]model.AccountInfo)) = []model.AccountInfo{{
				ID:              "001AAAA000000001",
				IsPersonAccount: true,
				PersonEmail:     strptr("lain@x.com"),
				PersonContactID: strptr("003AAAA000000001"),
			}}
		case strings.Contains(soql, "FROM Contact"):
			*(dest.(*[]model.ContactRow)) = []model.ContactRow{{ID: "003AAAA000000001", Email: strptr("a@x.com")}}
		default:
			t.Fatalf("unexpected query: %s", soql)
		}
		return nil
	}
	svc := NewProgressService(fake)

	if _, err := svc.Authorize(context.Background(), "a@x.com", "006AAAA000000001"); err != nil {
		t.Fatalf("expected access via person contact, got %v", err)
	}
}

func TestAuthorizeRoleFallbackForbidden(t *testing.T) {
	// Bukan person account, email contact role tidak cocok → forbidden, dan
	// contact id role tetap terkumpul untuk scope file.
	fake := &fakeStore{}
	fake.queryFn = func(soql string, dest any) error {
		switch {
		case strings.Contains(soql, "FROM OpportunityContactRole"):
			*(dest.(*[]model.RoleRow)) = []model.RoleRow{
				{ID: "00KAAA0000000001", IsPrimary: false, ContactID: "003AAAA000000001"},
				{ID: "00KAAA0000000002", IsPrimary: true, ContactID: "003AAAA000000002"},
			}
		case strings.Contains(soql, "FROM Opportunity"):
			acc := "001AAAA000000001"
			*(dest.(*[]model.Progress)) = []model.Progress{{ID: "006AAAA000000001", AccountID: &acc}}
		case strings.Contains(soql, "FROM Account"):
			*(dest.(*[]model.AccountInfo)) = []model.AccountInfo{{ID: "001AAAA000000001", IsPersonAccount: false}}
		case strings.Contains(soql, "FROM Contact"):
			// hanya primary yang dicek
			if !strings.Contains(soql, "003AAAA000000002") {
				t.Fatalf("expected primary contact lookup, got: %s", soql)
			}
			*(dest.(*[]model.ContactRow)) = []model.ContactRow{{ID: "003AAAA000000002", Email: strptr("bukan@x.com")}}
		default:
			t.Fatalf("unexpected query: %s", soql)
		}
		return nil
	}
	svc := NewProgressService(fake)

	_, err := svc.Authorize(context.Background(), "a@x.com", "006AAAA000000001")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAuthorizeRoleFallbackPrimaryMatch(t *testing.T) {
	fake := &fakeStore{}
	fake.queryFn = func(soql string, dest any) error {
		switch {
		case strings.Contains(soql, "FROM OpportunityContactRole"):
			*(dest.(*[]model.RoleRow)) = []model.RoleRow{
				{ID: "00KAAA0000000001", IsPrimary: true, ContactID: "003AAAA000000001"},
				{ID: "00KAAA0000000002", IsPrimary: false, ContactID: "003AAAA000000002"},
			}
		case strings.Contains(soql, "FROM Opportunity"):
			*(dest.(*[]model.Progress)) = []model.Progress{{ID: "006AAAA000000001"}}
		case strings.Contains(soql, "FROM Contact"):
			*(dest.(*[]model.ContactRow)) = []model.ContactRow{{ID: "003AAAA000000001", Email: strptr("wali@x.com")}}
		default:
			t.Fatalf("unexpected query: %s", soql)
		}
		return nil
	}
	svc := NewProgressService(fake)

	res, err := svc.Authorize(context.Background(), "WALI@x.com", "006AAAA000000001")
	if err != nil {
		t.Fatalf("expected access via role contact, got %v", err)
	}
	if len(res.RoleContactIDs) != 2 {
		t.Fatalf("expected both role contacts collected, got %v", res.RoleContactIDs)
	}
}
