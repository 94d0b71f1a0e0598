package record

// RelatedKind is the controlled set of record types a calendar event can be
// linked to. Personal marks an activity with no backing record.
type RelatedKind string

const (
	KindAccount     RelatedKind = "Account"
	KindContact     RelatedKind = "Contact"
	KindOpportunity RelatedKind = "Opportunity"
	KindPersonal    RelatedKind = "Personal"
)

func (k RelatedKind) Valid() bool {
	switch k {
	case KindAccount, KindContact, KindOpportunity, KindPersonal:
		return true
	}
	return false
}

// RelatedRef is a closed tagged variant: either a personal activity or a link
// to one backing record. The fields are unexported so the only way to build
// one is through the two constructors, which keeps the mapping exhaustive.
type RelatedRef struct {
	kind RelatedKind
	id   string
	name string
}

func PersonalRef() RelatedRef {
	return RelatedRef{kind: KindPersonal}
}

func LinkedRef(kind RelatedKind, id, displayName string) RelatedRef {
	return RelatedRef{kind: kind, id: id, name: displayName}
}

func (r RelatedRef) IsPersonal() bool {
	return r.kind == "" || r.kind == KindPersonal
}

// Link returns the backing record; ok is false for personal activities.
func (r RelatedRef) Link() (kind RelatedKind, id string, displayName string, ok bool) {
	if r.IsPersonal() {
		return "", "", "", false
	}
	return r.kind, r.id, r.name, true
}

// Kind returns the variant tag, normalising the zero value to Personal.
func (r RelatedRef) Kind() RelatedKind {
	if r.kind == "" {
		return KindPersonal
	}
	return r.kind
}

func (r RelatedRef) DisplayName() string {
	return r.name
}

// Record is one row of a draggable source panel.
type Record struct {
	Id          string
	Name        string
	Kind        RelatedKind
	OwnerName   string
	AccountName string
	Stage       string
}
