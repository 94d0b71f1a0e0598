package record

import "context"

type StubRepository struct {
	Records []Record
}

func (s *StubRepository) ListRecords(ctx context.Context, kind RelatedKind) ([]Record, error) {
	matched := make([]Record, 0, len(s.Records))
	for _, r := range s.Records {
		if r.Kind == kind {
			matched = append(matched, r)
		}
	}
	return matched, nil
}
