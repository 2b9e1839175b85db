package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"admisi_backend/internals/features/admission/progress/model"
	"admisi_backend/internals/salesforce"
)

/*
	========================================================
	  Document identity resolver

	Link dokumen berisi teks bebas: bisa URL yang menanam id ContentVersion
	(068...), id ContentDocument (069...), atau tidak keduanya. Binary yang
	otoritatif hidup di subsistem file berversi dan hanya boleh diambil lewat
	join row milik entitas yang boleh dilihat pemanggil. Urutan resolusi, dari
	sinyal paling pasti:
	  a. link menanam id versi langsung
	  b. link menanam id content document → versi terakhirnya
	  c. nama dokumen cocok dengan judul file (dinormalisasi)
	  d. tidak ketemu → nil (bukan error)

========================================================
*/

// Id Salesforce 15/18 karakter; prefix 068 = ContentVersion,
// 069 = ContentDocument.
var (
	versionIDPattern  = regexp.MustCompile(`\b068[0-9A-Za-z]{12}(?:[0-9A-Za-z]{3})?\b`)
	documentIDPattern = regexp.MustCompile(`\b069[0-9A-Za-z]{12}(?:[0-9A-Za-z]{3})?\b`)
)

// normalizeTitle: lowercase + buang non-alfanumerik, biar "Scan KTP" ==
// "scan-ktp!!".
func normalizeTitle(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

type fileIndex struct {
	latestByDocID  map[string]string // ContentDocumentId → latest version id
	versionByTitle map[string]string // judul ternormalisasi → latest version id
}

// buildFileIndex: first-seen wins — links sudah terurut paling baru dulu.
func buildFileIndex(links []model.FileLinkRow) *fileIndex {
	idx := &fileIndex{
		latestByDocID:  make(map[string]string, len(links)),
		versionByTitle: make(map[string]string, len(links)),
	}
	for _, l := range links {
		if l.ContentDocument.LatestPublishedVersionID == "" {
			continue
		}
		if _, ok := idx.latestByDocID[l.ContentDocumentID]; !ok {
			idx.latestByDocID[l.ContentDocumentID] = l.ContentDocument.LatestPublishedVersionID
		}
		if key := normalizeTitle(l.ContentDocument.Title); key != "" {
			if _, ok := idx.versionByTitle[key]; !ok {
				idx.versionByTitle[key] = l.ContentDocument.LatestPublishedVersionID
			}
		}
	}
	return idx
}

type linkHint struct {
	versionID  string // id 068 yang tertanam di link
	documentID string // id 069 yang tertanam di link
}

func extractLinkHint(link string) linkHint {
	return linkHint{
		versionID:  versionIDPattern.FindString(link),
		documentID: documentIDPattern.FindString(link),
	}
}

// ResolveDocumentVersions memetakan setiap row dokumen ke version id terbaik
// yang diketahui. Key hasil = Id row dokumen; row tanpa resolusi tidak masuk
// map (artinya "belum diunggah", bukan error). Lookup jaringan ekstra dibatasi
// satu query batch untuk semua id 069 yang belum ada di index, berapapun
// jumlah dokumennya.
func (s *ProgressService) ResolveDocumentVersions(ctx context.Context, docs []model.DocumentRow, links []model.FileLinkRow) (map[string]string, error) {
	idx := buildFileIndex(links)

	// 1) Ekstrak hint dari link tanpa network call
	hints := make(map[string]linkHint, len(docs))
	var missingDocIDs []string
	seen := map[string]bool{}
	for _, d := range docs {
		h := extractLinkHint(deref(d.Link))
		hints[d.ID] = h
		if h.versionID == "" && h.documentID != "" {
			if _, ok := idx.latestByDocID[h.documentID]; !ok && !seen[h.documentID] {
				seen[h.documentID] = true
				missingDocIDs = append(missingDocIDs, h.documentID)
			}
		}
	}

	// 2) Batch-resolve id 069 yang belum terindeks (satu query)
	if len(missingDocIDs) > 0 {
		var versions []model.VersionRow
		q := fmt.Sprintf(`SELECT Id, ContentDocumentId, IsLatest FROM ContentVersion
WHERE IsLatest = true AND ContentDocumentId IN (%s)`, salesforce.InClause(missingDocIDs))
		if err := s.Store.Query(ctx, q, &versions); err != nil {
			return nil, err
		}
		for _, v := range versions {
			if _, ok := idx.latestByDocID[v.ContentDocumentID]; !ok {
				idx.latestByDocID[v.ContentDocumentID] = v.ID
			}
		}
	}

	// 3) Prioritas per dokumen, first match wins
	resolved := make(map[string]string, len(docs))
	for _, d := range docs {
		h := hints[d.ID]
		switch {
		case h.versionID != "":
			resolved[d.ID] = h.versionID
		case h.documentID != "":
			if v, ok := idx.latestByDocID[h.documentID]; ok {
				resolved[d.ID] = v
			} else {
				// Link membawa id 069 tapi subsistem file tidak mengenalnya;
				// jatuh ke pencocokan judul.
				log.Printf("[WARNING] dokumen %s: link membawa %s tanpa versi dikenal", d.ID, h.documentID)
				if v, ok := idx.versionByTitle[normalizeTitle(d.Name)]; ok {
					resolved[d.ID] = v
				}
			}
		default:
			if v, ok := idx.versionByTitle[normalizeTitle(d.Name)]; ok {
				resolved[d.ID] = v
			}
		}
	}
	return resolved, nil
}

// SelectPhotoVersion memilih pas foto: link pertama yang judulnya memuat
// "pas foto" (case-insensitive), kalau tidak ada pakai entry pertama. Bila
// entry terpilih tidak membawa version id, satu query ekstra ke ContentVersion
// (IsLatest, urut Id desc) jadi penentu.
func (s *ProgressService) SelectPhotoVersion(ctx context.Context, links []model.FileLinkRow) (*string, error) {
	if len(links) == 0 {
		return nil, nil
	}

	photo := links[0]
	for _, l := range links {
		if strings.Contains(strings.ToLower(l.ContentDocument.Title), "pas foto") {
			photo = l
			break
		}
	}

	if v := photo.ContentDocument.LatestPublishedVersionID; v != "" {
		return &v, nil
	}

	docIDs := make([]string, 0, len(links))
	for _, l := range links {
		docIDs = append(docIDs, l.ContentDocumentID)
	}
	var versions []model.VersionRow
	q := fmt.Sprintf(`SELECT Id, ContentDocumentId, IsLatest FROM ContentVersion
WHERE ContentDocumentId IN (%s) AND IsLatest = true ORDER BY Id DESC LIMIT 1`,
		salesforce.InClause(docIDs))
	if err := s.Store.Query(ctx, q, &versions); err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, nil
	}
	return &versions[0].ID, nil
}
