package service

import (
	"context"
	"strings"
	"testing"

	"admisi_backend/internals/features/admission/progress/model"
)

func strptr(s string) *string { return &s }

func linkRow(docID, title, latestVersion string) model.FileLinkRow {
	return model.FileLinkRow{
		ContentDocumentID: docID,
		LinkedEntityID:    "006AAAA000000001",
		ContentDocument: model.ContentDocument{
			Title:                    title,
			LatestPublishedVersionID: latestVersion,
		},
	}
}

func TestNormalizeTitle(t *testing.T) {
	cases := map[string]string{
		"Scan KTP":   "scanktp",
		"scan-ktp!!": "scanktp",
		"Pas Foto":   "pasfoto",
		"  Rapor 1 ": "rapor1",
		"___":        "",
	}
	for input, expect := range cases {
		if got := normalizeTitle(input); got != expect {
			t.Fatalf("normalizeTitle(%q) = %q, want %q", input, got, expect)
		}
	}
}

func TestResolveDirectVersionID(t *testing.T) {
	// Link dengan id 068 dipakai verbatim walau tidak ada di index sama sekali.
	fake := &fakeStore{}
	svc := NewProgressService(fake)

	docs := []model.DocumentRow{
		{ID: "d1", Name: "Scan KTP", Link: strptr("https://files.example/version/download/068AAAABBBBCCCC")},
	}
	resolved, err := svc.ResolveDocumentVersions(context.Background(), docs, nil)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if resolved["d1"] != "068AAAABBBBCCCC" {
		t.Fatalf("expected direct version id, got %q", resolved["d1"])
	}
	if len(fake.queries) != 0 {
		t.Fatalf("expected no queries, got %d", len(fake.queries))
	}
}

func TestResolveContentDocumentIDFromIndex(t *testing.T) {
	fake := &fakeStore{}
	svc := NewProgressService(fake)

	links := []model.FileLinkRow{
		linkRow("069XXXXYYYYZZZZ", "Scan KK", "068Latest0000001"),
	}
	docs := []model.DocumentRow{
		{ID: "d1", Name: "Scan KK", Link: strptr("https://files.example/sfc/#/069XXXXYYYYZZZZ")},
	}
	resolved, err := svc.ResolveDocumentVersions(context.Background(), docs, links)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if resolved["d1"] != "068Latest0000001" {
		t.Fatalf("expected indexed latest version, got %q", resolved["d1"])
	}
	if len(fake.queries) != 0 {
		t.Fatalf("index hit must not query, got %d queries", len(fake.queries))
	}
}

func TestResolveBatchLookupSingleQuery(t *testing.T) {
	// Dua dokumen dengan id 069 di luar index → tepat satu query batch.
	fake := &fakeStore{}
	fake.queryFn = func(soql string, dest any) error {
		if !strings.Contains(soql, "FROM ContentVersion") {
			t.Fatalf("unexpected query: %s", soql)
		}
		*(dest.(*[]model.VersionRow)) = []model.VersionRow{
			{ID: "068Missing00001", ContentDocumentID: "069Missing00001", IsLatest: true},
			{ID: "068Missing00002", ContentDocumentID: "069Missing00002", IsLatest: true},
		}
		return nil
	}
	svc := NewProgressService(fake)

	docs := []model.DocumentRow{
		{ID: "d1", Name: "Rapor 1", Link: strptr("https://files.example/069Missing00001")},
		{ID: "d2", Name: "Rapor 2", Link: strptr("https://files.example/069Missing00002")},
	}
	resolved, err := svc.ResolveDocumentVersions(context.Background(), docs, nil)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if len(fake.queries) != 1 {
		t.Fatalf("expected exactly 1 batch query, got %d", len(fake.queries))
	}
	if resolved["d1"] != "068Missing00001" || resolved["d2"] != "068Missing00002" {
		t.Fatalf("batch results not merged: %v", resolved)
	}
}

func TestResolveTitleFallback(t *testing.T) {
	fake := &fakeStore{}
	svc := NewProgressService(fake)

	links := []model.FileLinkRow{
		linkRow("069AAAA000000001", "scan-ktp!!", "068Title00000001"),
	}
	docs := []model.DocumentRow{
		{ID: "d1", Name: "Scan KTP", Link: strptr("https://drive.example/folder/abc")},
	}
	resolved, err := svc.ResolveDocumentVersions(context.Background(), docs, links)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if resolved["d1"] != "068Title00000001" {
		t.Fatalf("expected title-matched version, got %q", resolved["d1"])
	}
}

func TestResolveMissIsNotError(t *testing.T) {
	fake := &fakeStore{}
	svc := NewProgressService(fake)

	links := []model.FileLinkRow{
		linkRow("069AAAA000000001", "Rapor 1", "068Rapor00000001"),
	}
	docs := []model.DocumentRow{
		{ID: "d1", Name: "Surat Kesehatan", Link: strptr("catatan bebas tanpa id")},
		{ID: "d2", Name: "Akta Kelahiran", Link: nil},
	}
	resolved, err := svc.ResolveDocumentVersions(context.Background(), docs, links)
	if err != nil {
		t.Fatalf("unresolved documents must not error: %v", err)
	}
	if _, ok := resolved["d1"]; ok {
		t.Fatalf("d1 should stay unresolved")
	}
	if _, ok := resolved["d2"]; ok {
		t.Fatalf("d2 should stay unresolved")
	}
}

func TestResolveFirstSeenWins(t *testing.T) {
	// Links terurut paling baru dulu; entry pertama yang menang.
	fake := &fakeStore{}
	svc := NewProgressService(fake)

	links := []model.FileLinkRow{
		linkRow("069DupTitle00001", "Scan KTP", "068Newest0000001"),
		linkRow("069DupTitle00002", "Scan KTP", "068Older00000001"),
	}
	docs := []model.DocumentRow{
		{ID: "d1", Name: "Scan KTP", Link: nil},
	}
	resolved, err := svc.ResolveDocumentVersions(context.Background(), docs, links)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if resolved["d1"] != "068Newest0000001" {
		t.Fatalf("first-seen should win, got %q", resolved["d1"])
	}
}

func TestSelectPhotoVersionByTitle(t *testing.T) {
	fake := &fakeStore{}
	svc := NewProgressService(fake)

	links := []model.FileLinkRow{
		linkRow("069Rapor00000001", "Rapor 1", "068Rapor00000001"),
		linkRow("069Foto000000001", "Pas Foto Siswa", "068Foto000000001"),
	}
	got, err := svc.SelectPhotoVersion(context.Background(), links)
	if err != nil {
		t.Fatalf("photo error: %v", err)
	}
	if got == nil || *got != "068Foto000000001" {
		t.Fatalf("expected pas foto match, got %v", got)
	}
}

func TestSelectPhotoVersionFallbackFirst(t *testing.T) {
	fake := &fakeStore{}
	svc := NewProgressService(fake)

	links := []model.FileLinkRow{
		linkRow("069Rapor00000001", "Rapor 1", "068Rapor00000001"),
		linkRow("069Rapor00000002", "Rapor 2", "068Rapor00000002"),
	}
	got, err := svc.SelectPhotoVersion(context.Background(), links)
	if err != nil {
		t.Fatalf("photo error: %v", err)
	}
	if got == nil || *got != "068Rapor00000001" {
		t.Fatalf("expected first entry fallback, got %v", got)
	}
}

func TestSelectPhotoVersionQueriesWhenMissing(t *testing.T) {
	fake := &fakeStore{}
	fake.queryFn = func(soql string, dest any) error {
		if !strings.Contains(soql, "IsLatest = true") {
			t.Fatalf("unexpected query: %s", soql)
		}
		*(dest.(*[]model.VersionRow)) = []model.VersionRow{
			{ID: "068FromQuery0001", ContentDocumentID: "069NoVersion0001", IsLatest: true},
		}
		return nil
	}
	svc := NewProgressService(fake)

	links := []model.FileLinkRow{
		linkRow("069NoVersion0001", "Pas Foto Siswa", ""),
	}
	got, err := svc.SelectPhotoVersion(context.Background(), links)
	if err != nil {
		t.Fatalf("photo error: %v", err)
	}
	if got == nil || *got != "068FromQuery0001" {
		t.Fatalf("expected version from fallback query, got %v", got)
	}
	if len(fake.queries) != 1 {
		t.Fatalf("expected 1 fallback query, got %d", len(fake.queries))
	}
}

func TestSelectPhotoVersionEmpty(t *testing.T) {
	svc := NewProgressService(&fakeStore{})
	got, err := svc.SelectPhotoVersion(context.Background(), nil)
	if err != nil {
		t.Fatalf("photo error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for empty links, got %v", got)
	}
}
