package record

// DragPayload is built from the data attributes of the dragged source row at
// drag start and consumed exactly once at drop to seed a new event draft.
type DragPayload struct {
	RecordName  string
	RecordType  RelatedKind
	RelatedId   string
	AccountName string
}

// Attribute names the rendering widget reads off the dragged DOM element.
const (
	AttrRecordName  = "recordName"
	AttrRecordType  = "recordType"
	AttrRecordId    = "recordId"
	AttrAccountName = "accountName"
)

// PayloadFromAttrs maps a dropped element's attributes into a DragPayload.
// A payload without a record name comes from a non-draggable element; the
// drop is a silent no-op, so ok is false and no error is surfaced.
func PayloadFromAttrs(attrs map[string]string) (DragPayload, bool) {
	name := attrs[AttrRecordName]
	if name == "" {
		return DragPayload{}, false
	}
	kind := RelatedKind(attrs[AttrRecordType])
	if kind == "" || !kind.Valid() {
		kind = KindPersonal
	}
	return DragPayload{
		RecordName:  name,
		RecordType:  kind,
		RelatedId:   attrs[AttrRecordId],
		AccountName: attrs[AttrAccountName],
	}, true
}

// Ref is the single place a drag payload's loose record-type string becomes
// the closed RelatedRef variant.
func (p DragPayload) Ref() RelatedRef {
	if p.RecordType == KindPersonal || p.RelatedId == "" {
		return PersonalRef()
	}
	return LinkedRef(p.RecordType, p.RelatedId, p.RecordName)
}
