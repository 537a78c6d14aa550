package models

// DocumentKind identifies one of the fixed legal artifacts prepared for a case.
type DocumentKind int

const (
	KindMemo DocumentKind = iota
	KindClaims
	KindDocsList
	KindViolations
	KindCriminalComplaint
	KindContract

	kindCount
)

// NumKinds is the size of the fixed kind set.
const NumKinds = int(kindCount)

var kindNames = [...]string{
	KindMemo:              "memo",
	KindClaims:            "claims",
	KindDocsList:          "docsList",
	KindViolations:        "violations",
	KindCriminalComplaint: "criminalComplaint",
	KindContract:          "contract",
}

func (k DocumentKind) String() string {
	if k < 0 || int(k) >= NumKinds {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind maps a wire name back to its kind.
func ParseKind(name string) (DocumentKind, bool) {
	for i, n := range kindNames {
		if n == name {
			return DocumentKind(i), true
		}
	}
	return 0, false
}

// MarshalText lets kinds be used as JSON map keys and values.
func (k DocumentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// AllKinds lists every kind in pipeline order.
func AllKinds() []DocumentKind {
	out := make([]DocumentKind, NumKinds)
	for i := range out {
		out[i] = DocumentKind(i)
	}
	return out
}

// RequiredKinds are the three documents every filing needs before it can be registered.
var RequiredKinds = []DocumentKind{KindMemo, KindClaims, KindDocsList}

// IsRequired reports whether k is one of RequiredKinds.
func (k DocumentKind) IsRequired() bool {
	for _, r := range RequiredKinds {
		if r == k {
			return true
		}
	}
	return false
}

// DocumentTypeTag is the persisted document_type of a generated kind. Empty for kinds never uploaded.
func (k DocumentKind) DocumentTypeTag() string {
	switch k {
	case KindMemo:
		return "explanatory_memo"
	case KindClaims:
		return "claims_statement"
	case KindDocsList:
		return "documents_list"
	case KindViolations:
		return "traffic_violations"
	case KindCriminalComplaint:
		return "criminal_complaint"
	}
	return ""
}

// Titles returns the Arabic and English titles used for storage records and archive entries.
func (k DocumentKind) Titles() (ar, en string) {
	switch k {
	case KindMemo:
		return "المذكرة الشارحة", "Explanatory Memo"
	case KindClaims:
		return "كشف المطالبات المالية", "Claims Statement"
	case KindDocsList:
		return "كشف المستندات", "Documents List"
	case KindViolations:
		return "طلب تحويل المخالفات المرورية", "Traffic Violations Transfer"
	case KindCriminalComplaint:
		return "بلاغ جنائي", "Criminal Complaint"
	case KindContract:
		return "عقد الإيجار", "Rental Contract"
	}
	return "", ""
}
