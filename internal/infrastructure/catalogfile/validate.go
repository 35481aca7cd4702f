package catalogfile

import (
	"fmt"
	"strings"

	"github.com/paintassist/backend/internal/domain"
)

// DefectKind names a class of data problem in the catalog documents
type DefectKind string

const (
	DefectDuplicateCode DefectKind = "duplicate_code"
	DefectMissingCode   DefectKind = "missing_code"
	DefectMissingSize   DefectKind = "missing_size"
	DefectBadPrice      DefectKind = "bad_price"
)

// Defect is one problem found while reading the catalog
type Defect struct {
	Kind   DefectKind `json:"kind"`
	Code   string     `json:"code,omitempty"`
	Detail string     `json:"detail"`
}

func (d Defect) String() string {
	if d.Code == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Detail)
	}
	return fmt.Sprintf("%s [%s]: %s", d.Kind, d.Code, d.Detail)
}

// FindDuplicateCodes reports every code that appears on more than one price
// record. Codes compare case-insensitively; the index keeps the last one.
func FindDuplicateCodes(records []domain.PriceRecord) []Defect {
	seen := make(map[string]string, len(records))
	var defects []Defect

	for _, record := range records {
		key := strings.ToUpper(strings.TrimSpace(record.ProductCode))
		if key == "" {
			continue
		}
		if first, ok := seen[key]; ok {
			defects = append(defects, Defect{
				Kind:   DefectDuplicateCode,
				Code:   key,
				Detail: fmt.Sprintf("%q replaces %q", record.ProductName, first),
			})
		}
		seen[key] = record.ProductName
	}
	return defects
}
